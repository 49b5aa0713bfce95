package medquiz

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration, loaded from an optional YAML file
// with MEDQUIZ_-prefixed environment overrides.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	Mode          string `mapstructure:"mode"`
	SessionSecret string `mapstructure:"session_secret"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type AuditConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	File string `mapstructure:"file"`
}

// LoadConfig reads configuration from path (may be empty) and the
// environment. A missing file is fine; defaults cover everything except the
// API key.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("database.path", "./medquiz.db")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "")
	v.SetDefault("audit.dir", "./audit")
	v.SetDefault("logging.file", "logs/medquiz.log")

	v.SetEnvPrefix("MEDQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
