package converter

import (
	"image"

	"iconfit/internal/core/domain"

	"github.com/nfnt/resize"
)

const EngineNfnt = "nfnt"

// NfntFitter crops the source to the target aspect ratio around its center, then resamples the crop with
// nfnt/resize.
type NfntFitter struct {
	interp resize.InterpolationFunction
}

func NewNfntFitter() *NfntFitter {
	return &NfntFitter{interp: resize.Lanczos3}
}

func (f *NfntFitter) Name() string {
	return EngineNfnt
}

func (f *NfntFitter) Fit(img image.Image, size domain.Size) (*image.NRGBA, error) {
	if err := checkFit(img, size); err != nil {
		return nil, err
	}

	src := Normalize(cropToAspect(img, size))
	if src.Bounds().Dx() == size.Width && src.Bounds().Dy() == size.Height {
		return src, nil
	}

	scaled := resize.Resize(uint(size.Width), uint(size.Height), src, f.interp)

	return Normalize(scaled), nil
}
