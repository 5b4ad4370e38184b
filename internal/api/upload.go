package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// ImageField is the multipart field an image file must be sent in.
const ImageField = "image"

var allowedImageTypes = regexp.MustCompile(`jpeg|jpg|png|gif|webp`)

// requestError is a malformed body or a rejected upload. It is always
// reported as a 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// imageFilter validates the single optional image of a multipart request.
type imageFilter struct {
	maxBytes int64
}

func (f imageFilter) check(fh *multipart.FileHeader) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	contentType := strings.ToLower(fh.Header.Get("Content-Type"))
	if !allowedImageTypes.MatchString(ext) || !allowedImageTypes.MatchString(contentType) {
		return &requestError{msg: "Only image files are allowed (jpeg, jpg, png, gif, webp)"}
	}
	if fh.Size > f.maxBytes {
		return &requestError{msg: fmt.Sprintf("File too large: images may be at most %d bytes", f.maxBytes)}
	}
	return nil
}

// read returns the bytes of the image in form, or nil when none was sent.
func (f imageFilter) read(form *multipart.Form) ([]byte, error) {
	for field := range form.File {
		if field != ImageField {
			return nil, &requestError{msg: fmt.Sprintf("Unexpected file field %q", field)}
		}
	}
	files := form.File[ImageField]
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, &requestError{msg: "Only one image may be uploaded"}
	}

	fh := files[0]
	if err := f.check(fh); err != nil {
		return nil, err
	}
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &requestError{msg: fmt.Sprintf("File too large: images may be at most %d bytes", f.maxBytes)}
	}
	return data, nil
}

// parseMultipart parses a multipart body, capping its total size a little
// above the image limit so oversize uploads fail fast.
func (f imageFilter) parseMultipart(c *gin.Context) (*multipart.Form, error) {
	const formOverhead = 1 << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, f.maxBytes+formOverhead)
	if err := c.Request.ParseMultipartForm(f.maxBytes + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &requestError{msg: fmt.Sprintf("File too large: images may be at most %d bytes", f.maxBytes)}
		}
		return nil, &requestError{msg: "Invalid multipart body: " + err.Error()}
	}
	return c.Request.MultipartForm, nil
}
