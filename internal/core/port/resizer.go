package port

import (
	"context"

	"iconfit/internal/core/domain"
)

type Resizer interface {
	// Resize runs the full load, fit and save pipeline and returns a typed result instead of an error.
	Resize(ctx context.Context, inputPath, outputPath string, size domain.Size) domain.Result
	// Run resizes a job and reports the result.
	Run(ctx context.Context, job domain.Job) domain.Result
}
