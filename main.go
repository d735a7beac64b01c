package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"iconfit/internal/adapters/converter"
	"iconfit/internal/adapters/encoder"
	"iconfit/internal/adapters/file"
	"iconfit/internal/adapters/handler"
	"iconfit/internal/adapters/reporter"
	"iconfit/internal/config"
	"iconfit/internal/core/port"
	"iconfit/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := handler.NewCommand(config.New(), newResizer)

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("iconfit failed")
		cancel()
		os.Exit(1)
	}
}

func newResizer(cfg config.Config, out io.Writer) (port.Resizer, error) {
	fitter, err := converter.NewRegistry().Get(cfg.Engine)
	if err != nil {
		return nil, err
	}

	return service.NewIconResizer(
		file.NewLoader(cfg.Timeout, cfg.AutoOrient),
		fitter,
		file.NewWriter(encoder.EncodeRGBA),
		reporter.NewConsoleReporter(out),
	), nil
}
