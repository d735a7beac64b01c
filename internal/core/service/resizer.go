package service

import (
	"context"

	"iconfit/internal/core/domain"
	"iconfit/internal/core/port"

	"github.com/rs/zerolog/log"
)

type IconResizer struct {
	source   port.ImageSource
	fitter   port.ImageFitter
	sink     port.ImageSink
	reporter port.Reporter
}

func NewIconResizer(source port.ImageSource, fitter port.ImageFitter, sink port.ImageSink,
	reporter port.Reporter) *IconResizer {
	return &IconResizer{source: source, fitter: fitter, sink: sink, reporter: reporter}
}

// Resize loads inputPath, fills size with a center-anchored Lanczos crop-and-scale and writes the result to
// outputPath as an RGBA PNG. Failures never escape as panics or errors; they are returned in Result.Err.
func (r *IconResizer) Resize(ctx context.Context, inputPath, outputPath string, size domain.Size) domain.Result {
	job := domain.Job{InputPath: inputPath, OutputPath: outputPath, Size: size}
	res := domain.Result{Job: job, Engine: r.fitter.Name()}

	l := log.With().
		Str("input", inputPath).
		Str("output", outputPath).
		Stringer("size", size).
		Str("engine", res.Engine).
		Logger()

	if err := job.Validate(); err != nil {
		res.Err = domain.NewProcessingError(domain.StageValidate, "", err)
		return res
	}

	l.Debug().Msg("loading image")

	src, err := r.source.Open(ctx, inputPath)
	if err != nil {
		res.Err = domain.NewProcessingError(domain.StageLoad, inputPath, err)
		return res
	}

	b := src.Bounds()
	l.Debug().Int("width", b.Dx()).Int("height", b.Dy()).Msg("image loaded")

	dst, err := r.fitter.Fit(src, size)
	if err != nil {
		res.Err = domain.NewProcessingError(domain.StageTransform, inputPath, err)
		return res
	}

	err = r.sink.Save(outputPath, dst)
	if err != nil {
		res.Err = domain.NewProcessingError(domain.StageEncode, outputPath, err)
		return res
	}

	res.Width = dst.Bounds().Dx()
	res.Height = dst.Bounds().Dy()

	l.Debug().Msg("image saved")

	return res
}

// Run resizes job and passes the result to the reporter.
func (r *IconResizer) Run(ctx context.Context, job domain.Job) domain.Result {
	res := r.Resize(ctx, job.InputPath, job.OutputPath, job.Size)
	r.reporter.Report(res)

	return res
}
