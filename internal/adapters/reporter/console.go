package reporter

import (
	"fmt"
	"io"

	"iconfit/internal/core/domain"

	"github.com/rs/zerolog/log"
)

const (
	successFormat = "processed: %s (%dx%d)\n"
	failureFormat = "processing failed: %v\n"
)

// ConsoleReporter prints one human readable line per result.
type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) Report(result domain.Result) {
	var err error
	if result.OK() {
		log.Info().
			Str("output", result.Job.OutputPath).
			Int("width", result.Width).
			Int("height", result.Height).
			Str("engine", result.Engine).
			Msg("icon resized")
		_, err = fmt.Fprintf(r.out, successFormat, result.Job.OutputPath, result.Width, result.Height)
	} else {
		log.Error().
			Err(result.Err).
			Str("input", result.Job.InputPath).
			Str("output", result.Job.OutputPath).
			Msg("icon resize failed")
		_, err = fmt.Fprintf(r.out, failureFormat, result.Err)
	}

	if err != nil {
		log.Warn().Err(err).Msg("failed to write report")
	}
}
