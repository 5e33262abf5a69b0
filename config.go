package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var ErrValidation = errors.New("validation failed")

const DefaultConfigPath = "ringd.toml"

// Flags are the command line overrides. Empty values fall through to the
// environment and then the config file.
type Flags struct {
	ConfigPath string
	Host       string
	Port       string
}

type RingSeed struct {
	Name       string   `toml:"name"`
	Items      []string `toml:"items"`
	AutoRotate bool     `toml:"auto_rotate"`
}

type tomlConfig struct {
	Host        string     `toml:"host"`
	Port        int        `toml:"port"`
	LogLevel    string     `toml:"log_level"`
	RotateEvery string     `toml:"rotate_every"`
	HistorySize int        `toml:"history_size"`
	Rings       []RingSeed `toml:"rings"`
}

type Config struct {
	toml        tomlConfig
	host        string
	port        string
	logLevel    zerolog.Level
	rotateEvery time.Duration
}

// NewConfig resolves the configuration from flags, then getenv, then the
// TOML file at flags.ConfigPath (or ringd.toml) on fsys. A missing config
// file is not an error.
func NewConfig(fsys afero.Fs, flags Flags, getenv func(string) string) (*Config, error) {
	c := &Config{
		toml: tomlConfig{
			Host:        "127.0.0.1",
			Port:        1225,
			LogLevel:    "info",
			HistorySize: 64,
		},
	}

	path := flags.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && flags.ConfigPath == "":
		// Defaults only
	case err != nil:
		return nil, fmt.Errorf("read config %q: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &c.toml); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	c.host = firstNonEmpty(flags.Host, getenv("HOST"), c.toml.Host)
	c.port = firstNonEmpty(flags.Port, getenv("PORT"), strconv.Itoa(c.toml.Port))

	if _, err := strconv.ParseUint(c.port, 10, 16); err != nil {
		return nil, fmt.Errorf("%w: invalid port %q", ErrValidation, c.port)
	}

	level := firstNonEmpty(getenv("LOG_LEVEL"), c.toml.LogLevel)
	c.logLevel, err = zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid log level %q", ErrValidation, level)
	}

	if c.toml.RotateEvery != "" {
		c.rotateEvery, err = time.ParseDuration(c.toml.RotateEvery)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid rotate_every %q: %s", ErrValidation, c.toml.RotateEvery, err)
		}
		if c.rotateEvery < 0 {
			return nil, fmt.Errorf("%w: rotate_every cannot be negative", ErrValidation)
		}
	}

	if c.toml.HistorySize < 1 {
		return nil, fmt.Errorf("%w: history_size must be at least 1", ErrValidation)
	}

	seen := make(map[string]bool, len(c.toml.Rings))
	for _, seed := range c.toml.Rings {
		if err := ValidateRingName(seed.Name); err != nil {
			return nil, err
		}
		if seen[seed.Name] {
			return nil, fmt.Errorf("%w: ring %q declared twice", ErrValidation, seed.Name)
		}
		seen[seed.Name] = true
	}

	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) Host() string {
	return c.host
}

func (c *Config) Port() string {
	return c.port
}

func (c *Config) Address() string {
	return c.host + ":" + c.port
}

func (c *Config) LogLevel() zerolog.Level {
	return c.logLevel
}

// RotateEvery is the auto-rotation period. Zero disables the rotator.
func (c *Config) RotateEvery() time.Duration {
	return c.rotateEvery
}

func (c *Config) HistorySize() int {
	return c.toml.HistorySize
}

func (c *Config) Rings() []RingSeed {
	return c.toml.Rings
}
