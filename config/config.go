package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger    `mapstructure:"logger"`
	DB        Database  `mapstructure:"database"`
	API       API       `mapstructure:"api"`
	Cache     Cache     `mapstructure:"cache"`
	Ledger    Ledger    `mapstructure:"ledger"`
	Scheduler Scheduler `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port               int     `mapstructure:"port"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int     `mapstructure:"rate_limit_burst"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	ProjectionTTL     time.Duration `mapstructure:"projection_ttl"`
}

type Ledger struct {
	// TimeZone decides where "today" starts and ends for the status resolver.
	TimeZone         string           `mapstructure:"time_zone"`
	InitialLiquidity InitialLiquidity `mapstructure:"initial_liquidity"`
}

// InitialLiquidity is the capital base a pool is created with on first load.
type InitialLiquidity struct {
	TraderCall string `mapstructure:"trader_call"`
	SmartMoney string `mapstructure:"smart_money"`
}

type Scheduler struct {
	SnapshotCron string `mapstructure:"snapshot_cron"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "trading_alerts")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.log_level", "Warn")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit_per_second", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.projection_ttl", time.Minute)
	v.SetDefault("ledger.time_zone", "America/Argentina/Buenos_Aires")
	v.SetDefault("ledger.initial_liquidity.trader_call", "0")
	v.SetDefault("ledger.initial_liquidity.smart_money", "0")
	v.SetDefault("scheduler.snapshot_cron", "0 18 * * 1-5")
}

// Load reads config.yaml (or the file at path) with environment overrides.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
