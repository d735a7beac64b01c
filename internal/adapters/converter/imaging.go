package converter

import (
	"image"

	"iconfit/internal/core/domain"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

const EngineImaging = "imaging"

// ImagingFitter crops the source to the target aspect ratio around its center, then resamples the crop with
// imaging's Lanczos filter.
type ImagingFitter struct{}

func NewImagingFitter() *ImagingFitter {
	return &ImagingFitter{}
}

func (f *ImagingFitter) Name() string {
	return EngineImaging
}

func (f *ImagingFitter) Fit(img image.Image, size domain.Size) (*image.NRGBA, error) {
	if err := checkFit(img, size); err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() == size.Width && b.Dy() == size.Height {
		log.Debug().Stringer("size", size).Msg("source already at target size, normalizing only")
		return Normalize(img), nil
	}

	return imaging.Resize(cropToAspect(img, size), size.Width, size.Height, imaging.Lanczos), nil
}

// Normalize copies img into a fresh NRGBA image with origin at (0, 0). Sources without transparency end up fully
// opaque.
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// cropToAspect returns the centered region of img with the aspect ratio of size. Resampling only this region keeps
// memory bounded by the source and the output, whatever the source aspect ratio.
func cropToAspect(img image.Image, size domain.Size) image.Image {
	b := img.Bounds()
	w, h := cropSize(b.Dx(), b.Dy(), size)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	return imaging.CropCenter(img, w, h)
}

// cropSize returns the largest dimensions within srcW x srcH that have the aspect ratio of size.
func cropSize(srcW, srcH int, size domain.Size) (int, int) {
	// srcW/srcH > size.Width/size.Height, i.e. the source is relatively wider
	if srcW*size.Height > srcH*size.Width {
		w := (srcH*size.Width + size.Height/2) / size.Height
		return min(max(w, 1), srcW), srcH
	}

	h := (srcW*size.Height + size.Width/2) / size.Width
	return srcW, min(max(h, 1), srcH)
}

func checkFit(img image.Image, size domain.Size) error {
	if err := size.Validate(); err != nil {
		return err
	}

	if img == nil || img.Bounds().Empty() {
		return domain.ErrEmptyImage
	}

	return nil
}
