package port

import (
	"context"
	"image"
)

type ImageSource interface {
	// Open decodes the image found at path, which may be a local file or an http(s) URL. Any file handle is
	// released before Open returns.
	Open(ctx context.Context, path string) (image.Image, error)
}

type ImageSink interface {
	// Save encodes img as an RGBA PNG and replaces whatever is stored at path. On error, path is left untouched.
	Save(path string, img image.Image) error
}
