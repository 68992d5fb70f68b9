package util

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func TestProbeImage(t *testing.T) {
	encode := map[string]func(*bytes.Buffer, image.Image) error{
		"png":  func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) },
		"bmp":  func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) },
		"tiff": func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) },
	}

	for format, enc := range encode {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc(&buf, testImage(40, 25)); err != nil {
				t.Fatal(err)
			}

			info, err := ProbeImage(&buf)
			if err != nil {
				t.Fatalf("ProbeImage() error = %v", err)
			}
			if info.Width != 40 || info.Height != 25 {
				t.Errorf("size = %dx%d, want 40x25", info.Width, info.Height)
			}
			if info.Format != format || info.ContentType != "image/"+format {
				t.Errorf("format = %s (%s)", info.Format, info.ContentType)
			}
		})
	}
}

func TestProbeImageRejectsNonImages(t *testing.T) {
	_, err := ProbeImage(bytes.NewReader([]byte("%PDF-1.7 not an image")))
	if !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("ProbeImage() error = %v, want %v", err, ErrUnsupportedImage)
	}
}
