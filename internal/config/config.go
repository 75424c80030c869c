package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ierr "github.com/flexprice/couponmanager/internal/errors"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Ledger     LedgerConfig     `validate:"required"`
	Naver      NaverConfig      `validate:"required"`
	Search     SearchConfig
	Sentry     SentryConfig
	Pyroscope  PyroscopeConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address        string   `validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type LedgerConfig struct {
	Backend  types.LedgerBackend `validate:"required,oneof=file s3"`
	FilePath string              `mapstructure:"file_path"`
	S3       LedgerS3Config      `mapstructure:"s3"`
}

type LedgerS3Config struct {
	Bucket    string
	Region    string
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NaverConfig configures the shopping search API client
type NaverConfig struct {
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Timeout      time.Duration `validate:"gt=0"`
	RetryMax     int           `mapstructure:"retry_max" validate:"gte=0"`
	RateLimit    float64       `mapstructure:"rate_limit" validate:"gt=0"`
	Burst        int           `validate:"gt=0"`
	Display      int           `validate:"min=1,max=100"`
}

type SearchConfig struct {
	// CacheTTL of zero keeps a merchant's results for the process lifetime
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	CacheFailedResults bool          `mapstructure:"cache_failed_results"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool
	ServerAddress   string   `mapstructure:"server_address"`
	ApplicationName string   `mapstructure:"application_name"`
	BasicAuthUser   string   `mapstructure:"basic_auth_user"`
	BasicAuthPass   string   `mapstructure:"basic_auth_pass"`
	SampleRate      uint32   `mapstructure:"sample_rate"`
	DisableGCRuns   bool     `mapstructure:"disable_gc_runs"`
	ProfileTypes    []string `mapstructure:"profile_types"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only used for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/couponmanager")

	v.SetEnvPrefix("COUPON")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		fmt.Printf("No config file found, using defaults and environment: %v\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so that environment overrides work even
// without a config file.
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("logging.level", d.Logging.Level)

	v.SetDefault("ledger.backend", d.Ledger.Backend)
	v.SetDefault("ledger.file_path", d.Ledger.FilePath)
	v.SetDefault("ledger.s3.bucket", "")
	v.SetDefault("ledger.s3.region", "")
	v.SetDefault("ledger.s3.key_prefix", "")

	v.SetDefault("naver.base_url", d.Naver.BaseURL)
	v.SetDefault("naver.client_id", "")
	v.SetDefault("naver.client_secret", "")
	v.SetDefault("naver.timeout", d.Naver.Timeout)
	v.SetDefault("naver.retry_max", d.Naver.RetryMax)
	v.SetDefault("naver.rate_limit", d.Naver.RateLimit)
	v.SetDefault("naver.burst", d.Naver.Burst)
	v.SetDefault("naver.display", d.Naver.Display)

	v.SetDefault("search.cache_ttl", d.Search.CacheTTL)
	v.SetDefault("search.cache_failed_results", d.Search.CacheFailedResults)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("pyroscope.enabled", false)
	v.SetDefault("pyroscope.server_address", "")
	v.SetDefault("pyroscope.application_name", "couponmanager")
	v.SetDefault("pyroscope.basic_auth_user", "")
	v.SetDefault("pyroscope.basic_auth_pass", "")
	v.SetDefault("pyroscope.sample_rate", 100)
	v.SetDefault("pyroscope.disable_gc_runs", false)
	v.SetDefault("pyroscope.profile_types", []string{})
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Ledger.Backend == types.LedgerBackendFile && c.Ledger.FilePath == "" {
		return ierr.NewError("ledger file path is required").
			WithHint("Set ledger.file_path when using the file backend").
			Mark(ierr.ErrValidation)
	}

	if c.Ledger.Backend == types.LedgerBackendS3 && c.Ledger.S3.Bucket == "" {
		return ierr.NewError("ledger s3 bucket is required").
			WithHint("Set ledger.s3.bucket when using the s3 backend").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080", AllowedOrigins: []string{"*"}},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Ledger: LedgerConfig{
			Backend:  types.LedgerBackendFile,
			FilePath: "./data/coupons.json",
		},
		Naver: NaverConfig{
			BaseURL:   "https://openapi.naver.com/v1/search/shop.json",
			Timeout:   10 * time.Second,
			RetryMax:  1,
			RateLimit: 10,
			Burst:     4,
			Display:   20,
		},
		Search: SearchConfig{
			CacheTTL:           0,
			CacheFailedResults: false,
		},
	}
}
