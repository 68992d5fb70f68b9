package util

import (
	"errors"
	"image"
	"io"

	// Registered decoders for the formats an uploaded image may use
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("file is not a supported image (png, jpeg, gif, tiff, webp, bmp)")

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

type ImageInfo struct {
	Width       int
	Height      int
	Format      string
	ContentType string
}

// ProbeImage reads only the image header to find its format and dimensions.
func ProbeImage(r io.Reader) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedImage
		}
		return nil, err
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrUnsupportedImage
	}

	return &ImageInfo{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      format,
		ContentType: imageContentTypes[format],
	}, nil
}
