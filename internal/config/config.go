package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"iconfit/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	KeyInputPath    = "input.path"
	KeyInputTimeout = "input.timeout"
	KeyAutoOrient   = "input.auto_orient"
	KeyOutputPath   = "output.path"
	KeyWidth        = "resize.width"
	KeyHeight       = "resize.height"
	KeyEngine       = "resize.engine"
	KeyLogLevel     = "log.level"
	KeyStrict       = "run.strict"
)

const (
	DefaultInputPath  = "Bloret-watchOS-Default-1088x1088@1x.png"
	DefaultOutputPath = "Bloret-watchOS-Default-1024x1024@1x.png"
	DefaultEngine     = "imaging"
	DefaultTimeout    = "30s"
)

type Config struct {
	InputPath  string
	OutputPath string
	Size       domain.Size
	Engine     string
	Timeout    time.Duration
	AutoOrient bool
	LogLevel   zerolog.Level
	Strict     bool
}

// New returns a viper instance with defaults set and ICONFIT_ prefixed environment overrides enabled,
// e.g. ICONFIT_RESIZE_WIDTH.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyInputPath, DefaultInputPath)
	v.SetDefault(KeyOutputPath, DefaultOutputPath)
	v.SetDefault(KeyInputTimeout, DefaultTimeout)
	v.SetDefault(KeyAutoOrient, false)
	v.SetDefault(KeyWidth, domain.DefaultSize.Width)
	v.SetDefault(KeyHeight, domain.DefaultSize.Height)
	v.SetDefault(KeyEngine, DefaultEngine)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyStrict, false)

	v.SetEnvPrefix("iconfit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads cfgFile, or config.toml from the working directory when cfgFile is empty, and returns the merged
// configuration. A missing config.toml is not an error, a missing explicit cfgFile is.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
		log.Debug().Msg("no config file found, using defaults")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("read config file")
	}

	timeout, err := time.ParseDuration(v.GetString(KeyInputTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("invalid timeout for input in config: %w", err)
	}

	return Config{
		InputPath:  v.GetString(KeyInputPath),
		OutputPath: v.GetString(KeyOutputPath),
		Size: domain.Size{
			Width:  v.GetInt(KeyWidth),
			Height: v.GetInt(KeyHeight),
		},
		Engine:     v.GetString(KeyEngine),
		Timeout:    timeout,
		AutoOrient: v.GetBool(KeyAutoOrient),
		LogLevel:   ParseLogLevel(v.GetString(KeyLogLevel)),
		Strict:     v.GetBool(KeyStrict),
	}, nil
}

func ParseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
