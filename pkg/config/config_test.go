package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	tempDir string
}

func (s *ConfigSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) write(body string) string {
	path := filepath.Join(s.tempDir, "wordbook.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigSuite) TestDefault() {
	cfg := Default()
	s.Equal("wordbook.db", cfg.Database.Path)
	s.Equal(1, cfg.Database.MaxConns)
	s.Equal("en", cfg.Translate.From)
	s.Equal("zh", cfg.Translate.To)
	s.Equal(10*time.Second, cfg.Translate.Timeout)
	s.Equal(LogInfo, cfg.Log.Level)
	s.NoError(Validate(cfg))
	s.False(cfg.TranslationConfigured())
}

func (s *ConfigSuite) TestLoadFromReaderOverridesDefaults() {
	cfg, err := LoadFromReader(strings.NewReader(`
database:
  path: /tmp/books.db
translate:
  app_id: app
  secret: shh
  to: jp
  timeout: 3s
log:
  level: debug
  format: json
`))
	s.Require().NoError(err)
	s.Equal("/tmp/books.db", cfg.Database.Path)
	s.Equal("jp", cfg.Translate.To)
	s.Equal(3*time.Second, cfg.Translate.Timeout)
	s.Equal(LogFormatJSON, cfg.Log.Format)
	// untouched sections keep their defaults
	s.Equal("127.0.0.1:8080", cfg.Server.Addr)
	s.True(cfg.TranslationConfigured())

	tc := cfg.TranslateClientConfig()
	s.Equal("app", tc.AppID)
	s.Equal(3*time.Second, tc.Timeout)
}

func (s *ConfigSuite) TestUnknownFieldRejected() {
	_, err := LoadFromReader(strings.NewReader("database:\n  file: x.db\n"))
	s.Error(err)
}

func (s *ConfigSuite) TestValidateJoinsProblems() {
	_, err := LoadFromReader(strings.NewReader(`
translate:
  to: cn
  app_id: only-half
log:
  level: loud
`))
	s.Require().Error(err)
	msg := err.Error()
	s.Contains(msg, `translate.to "cn"`)
	s.Contains(msg, "must be set together")
	s.Contains(msg, `log.level "loud"`)
}

func (s *ConfigSuite) TestEmptyFileUsesDefaults() {
	cfg, err := Load(s.write(""), false)
	s.Require().NoError(err)
	s.Equal("wordbook.db", cfg.Database.Path)
}

func (s *ConfigSuite) TestMissingFile() {
	missing := filepath.Join(s.tempDir, "nope.yaml")
	_, err := Load(missing, false)
	s.Error(err)

	cfg, err := Load(missing, true)
	s.Require().NoError(err)
	s.NotNil(cfg)
}

func (s *ConfigSuite) TestEnvOverrides() {
	s.T().Setenv(EnvDB, filepath.Join(s.tempDir, "env.db"))
	s.T().Setenv(EnvTranslateAppID, "env-app")
	s.T().Setenv(EnvTranslateSecret, "env-secret")
	s.T().Setenv(EnvAddr, ":9999")

	cfg, err := Load(s.write("database:\n  path: file.db\n"), false)
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.tempDir, "env.db"), cfg.Database.Path)
	s.Equal("env-app", cfg.Translate.AppID)
	s.Equal("env-secret", cfg.Translate.Secret)
	s.Equal(":9999", cfg.Server.Addr)
}

func (s *ConfigSuite) TestApplyEnvIgnoresEmpty() {
	cfg := Default()
	ApplyEnv(cfg, func(key string) (string, bool) { return "", true })
	s.Equal("wordbook.db", cfg.Database.Path)
}
