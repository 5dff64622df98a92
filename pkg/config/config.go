// Package config loads sentimenticon settings from defaults, an optional TOML file
// and SENTIMENTICON_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/japaniel/sentimenticon/pkg/lexicon"
	"github.com/japaniel/sentimenticon/pkg/sentimenticon"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SENTIMENTICON_"

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "sentimenticon.toml"

// Config holds every setting shared by the CLI commands and the HTTP server.
type Config struct {
	Language         string  `toml:"language"`
	DataDir          string  `toml:"data_dir"`
	MinimumFrequency float64 `toml:"minimum_frequency"`
	SkipInvalid      bool    `toml:"skip_invalid"`
	DBPath           string  `toml:"db_path"`
	Addr             string  `toml:"addr"`
	LogLevel         string  `toml:"log_level"`
	LogFormat        string  `toml:"log_format"`
	Workers          int     `toml:"workers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Language:         "en",
		DataDir:          "data",
		MinimumFrequency: sentimenticon.DefaultMinimumFrequency,
		DBPath:           "sentimenticon.db",
		Addr:             ":8080",
		LogLevel:         "info",
		LogFormat:        "text",
		Workers:          4,
	}
}

// Load returns Default overlaid with the TOML file at path and then the environment.
// An empty path reads DefaultFile if present; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("LANGUAGE", &c.Language)
	str("DATA_DIR", &c.DataDir)
	str("DB_PATH", &c.DBPath)
	str("ADDR", &c.Addr)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup(EnvPrefix + "MINIMUM_FREQUENCY"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sMINIMUM_FREQUENCY: %w", EnvPrefix, err)
		}
		c.MinimumFrequency = f
	}
	if v, ok := lookup(EnvPrefix + "SKIP_INVALID"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSKIP_INVALID: %w", EnvPrefix, err)
		}
		c.SkipInvalid = b
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Language) == "" {
		return errors.New("language must not be empty")
	}
	if !(c.MinimumFrequency > 0) {
		return fmt.Errorf("minimum_frequency must be positive, got %g", c.MinimumFrequency)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Analyzer returns the analyzer configuration these settings describe.
func (c Config) Analyzer() sentimenticon.Config {
	return sentimenticon.Config{
		Language:         c.Language,
		MinimumFrequency: c.MinimumFrequency,
		Source:           lexicon.DirSource{Root: c.DataDir},
		SkipInvalid:      c.SkipInvalid,
	}
}

// LexiconPath is where the table for the configured language lives on disk.
func (c Config) LexiconPath() string {
	return lexicon.DirSource{Root: c.DataDir}.Path(c.Language)
}
