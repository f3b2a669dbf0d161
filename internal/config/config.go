package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Store drivers.
const (
	DriverSheets = "sheets"
	DriverXLSX   = "xlsx"
)

// Config holds the full application configuration.
type Config struct {
	Google  GoogleConfig  `yaml:"google" mapstructure:"google"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Details DetailsConfig `yaml:"details" mapstructure:"details"`
	Sheets  SheetsConfig  `yaml:"sheets" mapstructure:"sheets"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Hunt    HuntConfig    `yaml:"hunt" mapstructure:"hunt"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// GoogleConfig holds Google Places API settings.
type GoogleConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Language    string `yaml:"language" mapstructure:"language"`
	Region      string `yaml:"region" mapstructure:"region"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SearchConfig configures text-search pagination.
type SearchConfig struct {
	PageDelayMs int `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
	MaxPages    int `yaml:"max_pages" mapstructure:"max_pages"`
}

// PageDelay returns the wait before requesting a continuation page.
func (s SearchConfig) PageDelay() time.Duration {
	return time.Duration(s.PageDelayMs) * time.Millisecond
}

// DetailsConfig configures Place Details enrichment.
type DetailsConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SheetsConfig holds Google Sheets settings.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
	CredentialsJSON string `yaml:"credentials_json" mapstructure:"credentials_json"`
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	ChunkSize       int    `yaml:"chunk_size" mapstructure:"chunk_size"`
	IncludeCountry  bool   `yaml:"include_country" mapstructure:"include_country"`
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Credentials returns the service-account key, preferring inline JSON over the file.
func (s SheetsConfig) Credentials() ([]byte, error) {
	if s.CredentialsJSON != "" {
		return []byte(s.CredentialsJSON), nil
	}
	data, err := os.ReadFile(s.CredentialsFile)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read credentials file %s", s.CredentialsFile)
	}
	return data, nil
}

// StoreConfig selects the destination backend.
type StoreConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"`
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// HuntConfig configures run behavior.
type HuntConfig struct {
	DefaultCategories []string `yaml:"default_categories" mapstructure:"default_categories"`
	PreviewRows       int      `yaml:"preview_rows" mapstructure:"preview_rows"`
	Source            string   `yaml:"source" mapstructure:"source"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
}

// ConfigError lists the settings missing or invalid at start-up.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "config: " + strings.Join(e.Problems, "; ")
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("google.key", "")
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("google.language", "es")
	v.SetDefault("google.region", "")
	v.SetDefault("google.timeout_secs", 15)
	v.SetDefault("search.page_delay_ms", 2000)
	v.SetDefault("search.max_pages", 3)
	v.SetDefault("details.enabled", true)
	v.SetDefault("details.concurrency", 5)
	v.SetDefault("details.rate_limit", 10.0)
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.credentials_file", "credentials.json")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com/v4")
	v.SetDefault("sheets.chunk_size", 300)
	v.SetDefault("sheets.include_country", false)
	v.SetDefault("sheets.timeout_secs", 30)
	v.SetDefault("store.driver", DriverSheets)
	v.SetDefault("store.xlsx_path", "glow-market.xlsx")
	v.SetDefault("hunt.default_categories", []string{"barberías", "peluquerías", "spa de uñas"})
	v.SetDefault("hunt.preview_rows", 10)
	v.SetDefault("hunt.source", "google_places")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it touches any network.
// mode is "hunt" (search + write), "serve" (hunt plus a listening port) or
// "ensure" (destination only, no Places key needed).
func (c *Config) Validate(mode string) error {
	var problems []string

	if mode != "ensure" && c.Google.Key == "" {
		problems = append(problems, "google.key is required")
	}

	switch c.Store.Driver {
	case DriverSheets:
		if c.Sheets.SpreadsheetID == "" {
			problems = append(problems, "sheets.spreadsheet_id is required")
		}
		if c.Sheets.CredentialsJSON == "" && c.Sheets.CredentialsFile == "" {
			problems = append(problems, "sheets.credentials_file or sheets.credentials_json is required")
		}
	case DriverXLSX:
		if c.Store.XLSXPath == "" {
			problems = append(problems, "store.xlsx_path is required for the xlsx driver")
		}
	default:
		problems = append(problems, "store.driver must be \"sheets\" or \"xlsx\"")
	}

	if c.Search.MaxPages < 1 {
		problems = append(problems, "search.max_pages must be at least 1")
	}
	if c.Details.Concurrency < 1 {
		problems = append(problems, "details.concurrency must be at least 1")
	}
	if c.Sheets.ChunkSize < 1 {
		problems = append(problems, "sheets.chunk_size must be at least 1")
	}
	if len(c.Hunt.DefaultCategories) == 0 {
		problems = append(problems, "hunt.default_categories must not be empty")
	}

	if mode == "serve" && (c.Server.Port < 1 || c.Server.Port > 65535) {
		problems = append(problems, "server.port must be between 1 and 65535")
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// InitLogger initializes the global zap logger. When cfg.File is set, output
// also goes to a size-rotated file.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			zapCfg.Level,
		)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	zap.ReplaceGlobals(logger)

	return nil
}
