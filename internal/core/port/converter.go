package port

import (
	"image"

	"iconfit/internal/core/domain"
)

type ImageFitter interface {
	// Fit normalizes img to NRGBA and scales it preserving aspect ratio until it covers size, cropping the overflow
	// around the center. The returned image has exactly the requested dimensions.
	Fit(img image.Image, size domain.Size) (*image.NRGBA, error)
	// Name returns the engine identifier used in configuration.
	Name() string
}
