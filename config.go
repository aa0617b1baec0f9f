package lights

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/gekko3d/lights/render/core"
)

// Config holds the process-level settings of the lighting layer.
type Config struct {
	Debug            bool   `env:"GEKKO_LIGHTS_DEBUG" envDefault:"false"`
	LogPrefix        string `env:"GEKKO_LIGHTS_LOG_PREFIX" envDefault:"lights"`
	ProgramCacheSize int    `env:"GEKKO_LIGHTS_PROGRAM_CACHE_SIZE" envDefault:"64"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Logger builds the logger described by the config.
func (c Config) Logger() Logger {
	return NewDefaultLogger(c.LogPrefix, c.Debug)
}

// NewRenderContext builds a render context whose program cache compiles through compiler.
func (c Config) NewRenderContext(compiler core.Compiler, logger Logger) *RenderContext {
	return NewRenderContext(core.NewProgramCache(compiler, c.ProgramCacheSize), logger)
}
