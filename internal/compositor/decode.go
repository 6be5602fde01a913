package compositor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxPixels is the largest image, in pixels, DecodeImage accepts. The header
// is checked before any pixel data is decoded.
const MaxPixels = 50_000_000

// DecodeImage decodes any registered raster format. Failures, including
// images over MaxPixels, are reported as an ImageLoadError for the given
// asset.
func DecodeImage(r io.Reader, asset Asset) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ImageLoadError{Asset: asset, Err: err}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageLoadError{Asset: asset, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &ImageLoadError{Asset: asset, Err: fmt.Errorf("empty %s image", format)}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, &ImageLoadError{Asset: asset, Err: fmt.Errorf("%s image of %dx%d exceeds %d pixels", format, cfg.Width, cfg.Height, MaxPixels)}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ImageLoadError{Asset: asset, Err: err}
	}
	if b := img.Bounds(); b.Empty() {
		return nil, &ImageLoadError{Asset: asset, Err: fmt.Errorf("empty %s image", format)}
	}
	return img, nil
}
