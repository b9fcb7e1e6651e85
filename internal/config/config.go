// Package config loads connection settings for the back office.
//
// Sources, in precedence order: PAUTA_* environment variables, then
// ~/.pauta/config.yaml. Everything has a usable default except the base URL,
// which callers validate when they actually need the network.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"pauta-cli/internal/store"
)

type Config struct {
	// BaseURL of the back office, e.g. "https://gestao.example.com.br".
	BaseURL string `mapstructure:"base_url"`
	// Cookie is the raw Cookie header of an authenticated browser session
	// (sessionid + csrftoken). The CSRF token is lifted from it unless
	// CSRFToken is set explicitly.
	Cookie    string `mapstructure:"cookie"`
	CSRFToken string `mapstructure:"csrf_token"`

	Workspace string `mapstructure:"workspace"`

	Debug        bool   `mapstructure:"debug"`
	DebugLogPath string `mapstructure:"debug_log"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := store.ConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("PAUTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("workspace", "default")
	v.SetDefault("debug", false)

	// AutomaticEnv only resolves keys viper already knows about; bind the
	// defaultless ones so PAUTA_BASE_URL etc. work without a config file.
	for _, key := range []string{"base_url", "cookie", "csrf_token", "debug_log"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars may carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return cfg, nil
}

// RequireBaseURL guards commands that need the network.
func (c Config) RequireBaseURL() error {
	if c.BaseURL == "" {
		return fmt.Errorf("no base URL configured; set PAUTA_BASE_URL or base_url in ~/.pauta/config.yaml")
	}
	return nil
}
