// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Cache     CacheConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Inventory InventoryConfig
}

type ServerConfig struct {
	Port           string `validate:"required"`
	Mode           string `validate:"oneof=debug release test"`
	LogLevel       string
	ReadTimeout    int `validate:"gte=0"`
	WriteTimeout   int `validate:"gte=0"`
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string `validate:"required"`
	Port         string `validate:"required"`
	User         string
	Password     string
	DBName       string `validate:"required"`
	SSLMode      string
	MaxOpenConns int `validate:"gte=1"`
	MaxInFlight  int `validate:"gte=1"`
}

type AppConfig struct {
	DataDir string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int `validate:"gte=0"`
}

// AuthConfig guards the inventory routes. An empty key list disables the check.
type AuthConfig struct {
	APIKeys            []string
	RateLimitPerMinute int `validate:"gte=0"`
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string `validate:"required_if=Enabled true"`
	AccessKey string `validate:"required_if=Enabled true"`
	SecretKey string `validate:"required_if=Enabled true"`
	Bucket    string `validate:"required_if=Enabled true"`
	Region    string
	UseSSL    bool
	Prefix    string
}

// InventoryConfig holds the optimization parameters and decision thresholds.
type InventoryConfig struct {
	ServiceLevel           float64  `validate:"gt=0,lt=1"`
	LookbackDays           int      `validate:"gte=1"`
	ForecastHorizonDays    int      `validate:"gte=1,lte=90"`
	OrderingCost           float64  `validate:"gt=0"`
	HoldingCostPerUnitYear float64  `validate:"gte=0"`
	HoldingCostRate        float64  `validate:"gte=0"`
	DefaultLeadTimeDays    int      `validate:"gte=1"`
	EmergencyDays          int      `validate:"gte=0"`
	CriticalDays           int      `validate:"gte=0"`
	LowDays                int      `validate:"gte=0"`
	MediumMultiplier       float64  `validate:"gte=1"`
	ReduceMultiplier       float64  `validate:"gte=1"`
	TrendTolerance         float64  `validate:"gte=0"`
	ExcessDays             float64  `validate:"gt=0"`
	ExpiryWarningDays      int      `validate:"gte=0"`
	DepletionTypes         []string `validate:"min=1,dive,required"`
	Workers                int      `validate:"gte=1"`
}

var (
	once     sync.Once
	instance *Config
)

// Load reads configuration once from .env and the environment.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.New()
		setDefaults(v)
		v.AutomaticEnv()

		cfg := fromViper(v)
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}

		ensureDir(cfg.App.DataDir)
		instance = cfg
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "kitchen")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IN_FLIGHT", 10)
	v.SetDefault("APP_DATA_DIR", "./data/output")
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_REPORT_TTL_SECONDS", 300)
	v.SetDefault("API_KEYS", []string{})
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("STORAGE_PREFIX", "inventory-reports/")

	v.SetDefault("INVENTORY_SERVICE_LEVEL", 0.95)
	v.SetDefault("INVENTORY_LOOKBACK_DAYS", 30)
	v.SetDefault("INVENTORY_FORECAST_HORIZON_DAYS", 14)
	v.SetDefault("INVENTORY_ORDERING_COST", 50.0)
	v.SetDefault("INVENTORY_HOLDING_COST_PER_UNIT_YEAR", 0.5)
	v.SetDefault("INVENTORY_HOLDING_COST_RATE", 0.0)
	v.SetDefault("INVENTORY_DEFAULT_LEAD_TIME_DAYS", 3)
	v.SetDefault("INVENTORY_EMERGENCY_DAYS", 1)
	v.SetDefault("INVENTORY_CRITICAL_DAYS", 2)
	v.SetDefault("INVENTORY_LOW_DAYS", 7)
	v.SetDefault("INVENTORY_MEDIUM_MULTIPLIER", 1.5)
	v.SetDefault("INVENTORY_REDUCE_MULTIPLIER", 2.0)
	v.SetDefault("INVENTORY_TREND_TOLERANCE", 0.1)
	v.SetDefault("INVENTORY_EXCESS_DAYS", 60.0)
	v.SetDefault("INVENTORY_EXPIRY_WARNING_DAYS", 7)
	v.SetDefault("INVENTORY_DEPLETION_TYPES", []string{"recipe_deduct", "consumption", "deduction", "waste"})
	v.SetDefault("INVENTORY_WORKERS", 4)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetStringSlice("SERVER_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxInFlight:  v.GetInt("DB_MAX_IN_FLIGHT"),
		},
		App: AppConfig{
			DataDir: v.GetString("APP_DATA_DIR"),
		},
		Cache: CacheConfig{
			Enabled:          v.GetBool("CACHE_ENABLED"),
			RedisURL:         v.GetString("REDIS_URL"),
			RedisHost:        v.GetString("REDIS_HOST"),
			RedisPort:        v.GetString("REDIS_PORT"),
			RedisPassword:    v.GetString("REDIS_PASSWORD"),
			RedisDB:          v.GetInt("REDIS_DB"),
			ReportTTLSeconds: v.GetInt("CACHE_REPORT_TTL_SECONDS"),
		},
		Auth: AuthConfig{
			APIKeys:            splitList(v.GetStringSlice("API_KEYS")),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
		},
		Inventory: InventoryConfig{
			ServiceLevel:           v.GetFloat64("INVENTORY_SERVICE_LEVEL"),
			LookbackDays:           v.GetInt("INVENTORY_LOOKBACK_DAYS"),
			ForecastHorizonDays:    v.GetInt("INVENTORY_FORECAST_HORIZON_DAYS"),
			OrderingCost:           v.GetFloat64("INVENTORY_ORDERING_COST"),
			HoldingCostPerUnitYear: v.GetFloat64("INVENTORY_HOLDING_COST_PER_UNIT_YEAR"),
			HoldingCostRate:        v.GetFloat64("INVENTORY_HOLDING_COST_RATE"),
			DefaultLeadTimeDays:    v.GetInt("INVENTORY_DEFAULT_LEAD_TIME_DAYS"),
			EmergencyDays:          v.GetInt("INVENTORY_EMERGENCY_DAYS"),
			CriticalDays:           v.GetInt("INVENTORY_CRITICAL_DAYS"),
			LowDays:                v.GetInt("INVENTORY_LOW_DAYS"),
			MediumMultiplier:       v.GetFloat64("INVENTORY_MEDIUM_MULTIPLIER"),
			ReduceMultiplier:       v.GetFloat64("INVENTORY_REDUCE_MULTIPLIER"),
			TrendTolerance:         v.GetFloat64("INVENTORY_TREND_TOLERANCE"),
			ExcessDays:             v.GetFloat64("INVENTORY_EXCESS_DAYS"),
			ExpiryWarningDays:      v.GetInt("INVENTORY_EXPIRY_WARNING_DAYS"),
			DepletionTypes:         splitList(v.GetStringSlice("INVENTORY_DEPLETION_TYPES")),
			Workers:                v.GetInt("INVENTORY_WORKERS"),
		},
	}
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	inv := c.Inventory
	if inv.HoldingCostPerUnitYear <= 0 && inv.HoldingCostRate <= 0 {
		return fmt.Errorf("config validation failed: one of INVENTORY_HOLDING_COST_PER_UNIT_YEAR or INVENTORY_HOLDING_COST_RATE must be positive")
	}
	if inv.EmergencyDays > inv.CriticalDays || inv.CriticalDays > inv.LowDays {
		return fmt.Errorf("config validation failed: expected emergency (%d) <= critical (%d) <= low (%d) days",
			inv.EmergencyDays, inv.CriticalDays, inv.LowDays)
	}

	return nil
}

// splitList flattens comma separated entries, which is how list values arrive from the environment.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
