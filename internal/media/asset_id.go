package media

import (
	"regexp"
	"strings"
)

var (
	versionSegment = regexp.MustCompile(`^v[0-9]+$`)
	fileExtension  = regexp.MustCompile(`\.[^/.]+$`)
)

// DeriveAssetID recovers the media host's asset identifier from a stored URL
// of the form .../upload/[v<digits>/]<folder>/<name>.<ext>.
//
// It returns false when the URL is empty, has no "upload" segment, or
// nothing follows it; such images cannot be deleted.
func DeriveAssetID(storedURL string) (string, bool) {
	if storedURL == "" {
		return "", false
	}
	if i := strings.IndexAny(storedURL, "?#"); i >= 0 {
		storedURL = storedURL[:i]
	}

	parts := strings.Split(storedURL, "/")
	uploadIdx := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx == -1 {
		return "", false
	}

	rest := parts[uploadIdx+1:]
	if len(rest) > 0 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}

	id := fileExtension.ReplaceAllString(strings.Join(rest, "/"), "")
	if id == "" {
		return "", false
	}
	return id, true
}
