package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/japaniel/wordbook/pkg/translate"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvDB              = "WORDBOOK_DB"
	EnvTranslateAppID  = "WORDBOOK_TRANSLATE_APP_ID"
	EnvTranslateSecret = "WORDBOOK_TRANSLATE_SECRET"
	EnvAddr            = "WORDBOOK_ADDR"
)

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			ApplyEnv(cfg, os.LookupEnv)
			return cfg, Validate(cfg)
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	ApplyEnv(cfg, os.LookupEnv)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates it.
// Environment overrides are not applied.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg, err := decode(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from the environment. lookup is os.LookupEnv outside
// tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDB); ok && v != "" {
		cfg.Database.Path = v
	}
	if v, ok := lookup(EnvTranslateAppID); ok && v != "" {
		cfg.Translate.AppID = v
	}
	if v, ok := lookup(EnvTranslateSecret); ok && v != "" {
		cfg.Translate.Secret = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		cfg.Server.Addr = v
	}
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if cfg.Database.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("database.max_conns must not be negative, got %d", cfg.Database.MaxConns))
	}

	if cfg.Translate.Endpoint == "" {
		errs = append(errs, errors.New("translate.endpoint is required"))
	}
	if !translate.IsSource(cfg.Translate.From) {
		errs = append(errs, fmt.Errorf("translate.from %q is not a supported language", cfg.Translate.From))
	}
	if !translate.IsTarget(cfg.Translate.To) {
		errs = append(errs, fmt.Errorf("translate.to %q is not a supported target language", cfg.Translate.To))
	}
	if cfg.Translate.Timeout < 0 {
		errs = append(errs, errors.New("translate.timeout must not be negative"))
	}
	if (cfg.Translate.AppID == "") != (cfg.Translate.Secret == "") {
		errs = append(errs, errors.New("translate.app_id and translate.secret must be set together"))
	}

	if cfg.Log.Level != "" && !cfg.Log.Level.IsValid() {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: debug, info, warn, error", cfg.Log.Level))
	}
	if cfg.Log.Format != "" && cfg.Log.Format != LogFormatConsole && cfg.Log.Format != LogFormatJSON {
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: console, json", cfg.Log.Format))
	}

	if cfg.Workers.Count < 0 || cfg.Workers.Queue < 0 || cfg.Workers.BatchSize < 0 {
		errs = append(errs, errors.New("workers values must not be negative"))
	}

	return errors.Join(errs...)
}

// TranslationConfigured reports whether credentials are present.
func (c *Config) TranslationConfigured() bool {
	return c.Translate.AppID != "" && c.Translate.Secret != ""
}
