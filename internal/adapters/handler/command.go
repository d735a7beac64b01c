package handler

import (
	"io"

	"iconfit/internal/config"
	"iconfit/internal/core/domain"
	"iconfit/internal/core/port"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ResizerFactory builds the resize pipeline once configuration is known. Reports go to out.
type ResizerFactory func(cfg config.Config, out io.Writer) (port.Resizer, error)

type Command struct {
	v       *viper.Viper
	factory ResizerFactory
	cfgFile string
	size    int
}

// NewCommand returns the root command. Processing failures are reported and exit 0 unless --strict is set.
func NewCommand(v *viper.Viper, factory ResizerFactory) *cobra.Command {
	c := &Command{v: v, factory: factory}

	cmd := &cobra.Command{
		Use:   "iconfit [input] [output]",
		Short: "Crop and scale an image into a square RGBA PNG icon",
		Long: `iconfit scales an image preserving its aspect ratio until it covers the target size,
crops the overflow around the center and writes the result as an RGBA PNG.

The input may be a local file or an http(s) URL. The output is overwritten.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "configuration file path (default ./config.toml)")
	flags.IntVarP(&c.size, "size", "s", 0, "square size, sets both width and height")
	flags.Int("width", domain.DefaultSize.Width, "output width in pixels")
	flags.Int("height", domain.DefaultSize.Height, "output height in pixels")
	flags.StringP("engine", "e", config.DefaultEngine, "resize engine: imaging or nfnt")
	flags.String("timeout", config.DefaultTimeout, "download timeout for http(s) inputs")
	flags.Bool("auto-orient", false, "apply EXIF orientation of the input")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("strict", false, "exit with an error when processing fails")

	for key, name := range map[string]string{
		config.KeyWidth:        "width",
		config.KeyHeight:       "height",
		config.KeyEngine:       "engine",
		config.KeyInputTimeout: "timeout",
		config.KeyAutoOrient:   "auto-orient",
		config.KeyLogLevel:     "log-level",
		config.KeyStrict:       "strict",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Panic().Err(err).Str("flag", name).Msg("failed binding flag")
		}
	}

	return cmd
}

func (c *Command) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)

	job := domain.Job{InputPath: cfg.InputPath, OutputPath: cfg.OutputPath, Size: cfg.Size}
	if len(args) > 0 {
		job.InputPath = args[0]
	}
	if len(args) > 1 {
		job.OutputPath = args[1]
	}
	if cmd.Flags().Changed("size") {
		job.Size = domain.Size{Width: c.size, Height: c.size}
	}

	log.Debug().
		Str("input", job.InputPath).
		Str("output", job.OutputPath).
		Stringer("size", job.Size).
		Msg("received job")

	resizer, err := c.factory(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	res := resizer.Run(cmd.Context(), job)
	if !res.OK() && cfg.Strict {
		return res.Err
	}

	return nil
}
