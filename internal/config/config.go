package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type AuthConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	Passcode      string
	AdminUsername string
	AdminPassword string
	// Password assigned when driver logins are (re)created from the
	// registration workflow.
	DefaultDriverPassword string
}

type SheetsConfig struct {
	APIURL       string
	Token        string
	FetchRetries int
	Timeout      time.Duration
}

type SyncConfig struct {
	// How long a successful push stays visible before the status indicator
	// returns to idle.
	SuccessWindow time.Duration
}

type ExtractConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Auth        AuthConfig
	Sheets      SheetsConfig
	Sync        SyncConfig
	Extract     ExtractConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("HTTP_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfig{
			AccessSecret:          v.GetString("JWT_ACCESS_SECRET"),
			AccessTTL:             v.GetDuration("JWT_ACCESS_TTL"),
			Passcode:              v.GetString("ACCESS_PASSCODE"),
			AdminUsername:         v.GetString("ADMIN_USERNAME"),
			AdminPassword:         v.GetString("ADMIN_PASSWORD"),
			DefaultDriverPassword: v.GetString("DEFAULT_DRIVER_PASSWORD"),
		},
		Sheets: SheetsConfig{
			APIURL:       v.GetString("SHEETS_API_URL"),
			Token:        v.GetString("SHEETS_API_TOKEN"),
			FetchRetries: v.GetInt("SHEETS_FETCH_RETRIES"),
			Timeout:      v.GetDuration("SHEETS_TIMEOUT"),
		},
		Sync: SyncConfig{
			SuccessWindow: v.GetDuration("SYNC_SUCCESS_WINDOW"),
		},
		Extract: ExtractConfig{
			APIKey: v.GetString("GENAI_API_KEY"),
			Model:  v.GetString("GENAI_MODEL"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 12 * time.Hour
	}
	if cfg.Auth.AdminUsername == "" {
		cfg.Auth.AdminUsername = "admin"
	}
	if cfg.Auth.DefaultDriverPassword == "" {
		cfg.Auth.DefaultDriverPassword = "123456"
	}
	if cfg.Sheets.FetchRetries == 0 {
		cfg.Sheets.FetchRetries = 2
	}
	if cfg.Sheets.Timeout == 0 {
		cfg.Sheets.Timeout = 30 * time.Second
	}
	if cfg.Sync.SuccessWindow == 0 {
		cfg.Sync.SuccessWindow = 3 * time.Second
	}
	if cfg.Extract.Model == "" {
		cfg.Extract.Model = "gemini-3-flash-preview"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Sheets.APIURL == "" {
		return fmt.Errorf("SHEETS_API_URL is required")
	}
	if cfg.Sheets.Token == "" {
		return fmt.Errorf("SHEETS_API_TOKEN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Auth.Passcode == "" {
		return fmt.Errorf("ACCESS_PASSCODE is required")
	}
	if cfg.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
