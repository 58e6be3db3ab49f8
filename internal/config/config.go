// ABOUTME: Reader configuration
// ABOUTME: Layers defaults, a .env file, the environment and command-line flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/readaloud/readaloud-go/pkg/audio/output"
)

// Environment variables
const (
	EnvBackend = "READALOUD_BACKEND"
	EnvRate    = "READALOUD_RATE"
	EnvLogFile = "READALOUD_LOG_FILE"
	EnvLesson  = "READALOUD_LESSON"
)

// DefaultEnvFile is read when present
const DefaultEnvFile = ".env"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds reader settings
type Config struct {
	Lesson  string
	Backend string
	Rate    float64
	LogFile string
	NoTUI   bool
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Backend: "malgo",
		Rate:    1.0,
		LogFile: "readaloud.log",
	}
}

// Load applies envFile and then the process environment over the defaults.
// A missing envFile is not an error. Process variables win over the file.
func Load(envFile string) (Config, error) {
	cfg := Default()

	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return cfg, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if v, ok := lookup(EnvBackend); ok && v != "" {
		cfg.Backend = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		cfg.LogFile = v
	}
	if v, ok := lookup(EnvLesson); ok && v != "" {
		cfg.Lesson = v
	}
	if v, ok := lookup(EnvRate); ok && v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvRate, v)
		}
		cfg.Rate = rate
	}

	return cfg, nil
}

// RegisterFlags binds flags to c using its current values as defaults,
// so parsed flags override the file and environment
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Lesson, "lesson", c.Lesson, "Lesson JSON file")
	fs.StringVar(&c.Backend, "backend", c.Backend, fmt.Sprintf("Audio backend %v", output.Names()))
	fs.Float64Var(&c.Rate, "rate", c.Rate, "Initial reading speed")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Log file path")
	fs.BoolVar(&c.NoTUI, "no-tui", c.NoTUI, "Disable TUI, read every segment in order")
}

// Validate checks rate and backend
func (c Config) Validate() error {
	if c.Rate <= 0 {
		return fmt.Errorf("%w: rate must be positive, got %v", ErrInvalidConfig, c.Rate)
	}
	if !slices.Contains(output.Names(), c.Backend) {
		return fmt.Errorf("%w: unknown backend %q (available: %v)", ErrInvalidConfig, c.Backend, output.Names())
	}
	return nil
}
