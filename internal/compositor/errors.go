package compositor

import (
	"errors"
	"fmt"
)

// Asset names an input image of a render.
type Asset string

const (
	AssetBackground Asset = "background"
	AssetPhoto      Asset = "photo"
)

// ErrMissingBackground is returned when a template has no usable background.
var ErrMissingBackground = errors.New("template has no background image")

var errNoImage = errors.New("no image")

// ImageLoadError reports an input image that could not be fetched or decoded.
type ImageLoadError struct {
	Asset Asset
	Err   error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load %s image: %v", e.Asset, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// EncodeError reports a failure to turn the composed raster into bytes.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode poster: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
