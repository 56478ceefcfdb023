// Package config loads settings from config file, environment and flags
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wader/pecosutil/internal/timeindex"
	"github.com/wader/pecosutil/internal/wkhtml"
)

// EnvPrefix for environment overrides, ex PECOSUTIL_RENDERER_PATH
const EnvPrefix = "PECOSUTIL"

type Config struct {
	Renderer RendererConfig `mapstructure:"renderer"`
	Round    RoundConfig    `mapstructure:"round"`
	Log      LogConfig      `mapstructure:"log"`
}

type RendererConfig struct {
	Path    string            `mapstructure:"path"`
	Format  string            `mapstructure:"format"`
	Quality int               `mapstructure:"quality"`
	Zoom    float64           `mapstructure:"zoom"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Options map[string]string `mapstructure:"options"`
}

type RoundConfig struct {
	Frequency int64  `mapstructure:"frequency"`
	How       string `mapstructure:"how"`
	Strict    bool   `mapstructure:"strict"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("renderer.path", wkhtml.ImagePath)
	v.SetDefault("renderer.format", wkhtml.DefaultFormat)
	v.SetDefault("renderer.quality", wkhtml.DefaultQuality)
	v.SetDefault("renderer.zoom", wkhtml.DefaultZoom)
	v.SetDefault("renderer.timeout", time.Duration(0))
	v.SetDefault("round.frequency", 60)
	v.SetDefault("round.how", string(timeindex.Nearest))
	v.SetDefault("round.strict", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New returns a viper instance with defaults and environment bindings.
// If path is empty pecosutil.{yaml,toml,json} is looked for in current
// directory and user config directory, a missing file is not an error.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pecosutil")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pecosutil"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

// Parse decodes v and validates the log section. Renderer and round sections
// are validated by the commands that use them.
func Parse(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (rc RoundConfig) Validate() error {
	if _, err := timeindex.Grid(rc.Frequency); err != nil {
		return fmt.Errorf("round.frequency: %w", err)
	}
	return nil
}

func (rc RendererConfig) Validate() error {
	switch {
	case rc.Quality < 0 || rc.Quality > 100:
		return fmt.Errorf("renderer.quality: %d not in 0-100", rc.Quality)
	case !(rc.Zoom > 0) || math.IsInf(rc.Zoom, 0):
		return fmt.Errorf("renderer.zoom: must be finite and > 0")
	case rc.Timeout < 0:
		return fmt.Errorf("renderer.timeout: must be >= 0")
	}
	return nil
}

func (lc LogConfig) Validate() error {
	switch lc.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", lc.Format)
	}
	return nil
}
