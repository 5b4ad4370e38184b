package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // decoder registration
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decoder registration
)

const jpegQuality = 82

type processedImage struct {
	data        []byte
	ext         string
	contentType string
}

// fitWithin shrinks an image so it fits inside maxW x maxH, keeping the
// aspect ratio. Smaller images keep their size. JPEG and WebP input is
// re-encoded as JPEG, PNG and GIF input as PNG.
func fitWithin(data []byte, maxW, maxH int) (*processedImage, error) {
	mt := mimetype.Detect(data)
	var asJPEG bool
	switch {
	case mt.Is("image/jpeg"), mt.Is("image/webp"):
		asJPEG = true
	case mt.Is("image/png"), mt.Is("image/gif"):
		asJPEG = false
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img := src
	b := src.Bounds()
	if w, h := scaledSize(b.Dx(), b.Dy(), maxW, maxH); w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if asJPEG {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		return &processedImage{data: buf.Bytes(), ext: ".jpg", contentType: "image/jpeg"}, nil
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &processedImage{data: buf.Bytes(), ext: ".png", contentType: "image/png"}, nil
}

// scaledSize returns the size of w x h after fitting it into maxW x maxH.
func scaledSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
