package images

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// Normalizer re-encodes uploaded images as bounded JPEGs so arbitrary
// client uploads cannot park oversized or oddly-formatted blobs in storage.
type Normalizer struct {
	maxDim      int
	jpegQuality int
}

// NewNormalizer creates a Normalizer. maxDim bounds the longer image side.
func NewNormalizer(maxDim, jpegQuality int) *Normalizer {
	if maxDim <= 0 {
		maxDim = 1280
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = 85
	}
	return &Normalizer{maxDim: maxDim, jpegQuality: jpegQuality}
}

// Normalize decodes the upload (format auto-detected), scales it down to
// fit within maxDim x maxDim when needed, and returns it as JPEG bytes.
// Images already within bounds keep their dimensions.
func (n *Normalizer) Normalize(r io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > n.maxDim || bounds.Dy() > n.maxDim {
		img = imaging.Fit(img, n.maxDim, n.maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return &buf, nil
}
