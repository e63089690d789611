package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type RevenueConfig struct {
	BulkVolumeThreshold int64
	BulkRateStandard    decimal.Decimal
	BulkRateVolume      decimal.Decimal
	BulkRecordFee       decimal.Decimal
}

type ContractsConfig struct {
	RenewalTermDays int
	ExpiringDays    int
}

type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Revenue     RevenueConfig
	Contracts   ContractsConfig
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

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("HTTP_CORS_ORIGINS", "*")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("BULK_VOLUME_THRESHOLD", 1000000)
	v.SetDefault("BULK_RATE_STANDARD", "1.50")
	v.SetDefault("BULK_RATE_VOLUME", "1.20")
	v.SetDefault("BULK_RECORD_FEE", "1000")
	v.SetDefault("RENEWAL_TERM_DAYS", 365)
	v.SetDefault("CONTRACT_EXPIRING_DAYS", 30)

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			CORSOrigins: parseList(v.GetString("HTTP_CORS_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Revenue: RevenueConfig{
			BulkVolumeThreshold: v.GetInt64("BULK_VOLUME_THRESHOLD"),
		},
		Contracts: ContractsConfig{
			RenewalTermDays: v.GetInt("RENEWAL_TERM_DAYS"),
			ExpiringDays:    v.GetInt("CONTRACT_EXPIRING_DAYS"),
		},
	}

	var err error
	if cfg.Revenue.BulkRateStandard, err = parseDecimal(v, "BULK_RATE_STANDARD"); err != nil {
		return nil, err
	}
	if cfg.Revenue.BulkRateVolume, err = parseDecimal(v, "BULK_RATE_VOLUME"); err != nil {
		return nil, err
	}
	if cfg.Revenue.BulkRecordFee, err = parseDecimal(v, "BULK_RECORD_FEE"); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Revenue.BulkVolumeThreshold <= 0 {
		return fmt.Errorf("BULK_VOLUME_THRESHOLD must be positive")
	}
	if !cfg.Revenue.BulkRateStandard.IsPositive() || !cfg.Revenue.BulkRateVolume.IsPositive() {
		return fmt.Errorf("bulk message rates must be positive")
	}
	if cfg.Revenue.BulkRecordFee.IsNegative() {
		return fmt.Errorf("BULK_RECORD_FEE must not be negative")
	}
	if cfg.Contracts.RenewalTermDays <= 0 {
		return fmt.Errorf("RENEWAL_TERM_DAYS must be positive")
	}
	return nil
}

func parseDecimal(v *viper.Viper, key string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
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
