// Package config holds the wordbook configuration schema and its loader.
package config

import (
	"time"

	"github.com/japaniel/wordbook/pkg/translate"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// LogFormat selects console or JSON log output.
type LogFormat string

const (
	LogFormatConsole LogFormat = "console"
	LogFormatJSON    LogFormat = "json"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Translate TranslateConfig `yaml:"translate"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Workers   WorkersConfig   `yaml:"workers"`
}

type DatabaseConfig struct {
	// Path of the SQLite file; ":memory:" for a throwaway store.
	Path     string `yaml:"path"`
	MaxConns int    `yaml:"max_conns"`
}

type TranslateConfig struct {
	Endpoint string        `yaml:"endpoint"`
	AppID    string        `yaml:"app_id"`
	Secret   string        `yaml:"secret"`
	From     string        `yaml:"from"`
	To       string        `yaml:"to"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

type WorkersConfig struct {
	Count int `yaml:"count"`
	Queue int `yaml:"queue"`
	// BatchSize is how many imported entries share one transaction.
	BatchSize int `yaml:"batch_size"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "wordbook.db", MaxConns: 1},
		Translate: TranslateConfig{
			Endpoint: translate.DefaultEndpoint,
			From:     translate.DefaultFrom,
			To:       "zh",
			Timeout:  translate.DefaultTimeout,
		},
		Server:  ServerConfig{Addr: "127.0.0.1:8080", MetricsEnabled: true},
		Log:     LogConfig{Level: LogInfo, Format: LogFormatConsole},
		Workers: WorkersConfig{Count: 2, Queue: 16, BatchSize: 50},
	}
}

// TranslateClientConfig converts the translate section for translate.New.
func (c *Config) TranslateClientConfig() translate.Config {
	return translate.Config{
		Endpoint: c.Translate.Endpoint,
		AppID:    c.Translate.AppID,
		Secret:   c.Translate.Secret,
		From:     c.Translate.From,
		Timeout:  c.Translate.Timeout,
	}
}
