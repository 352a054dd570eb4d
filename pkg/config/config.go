package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "VENTAFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VENTAFLOW_DB_DSN"
	EnvDBHost = "VENTAFLOW_DB_HOST"
	EnvDBUser = "VENTAFLOW_DB_USER"
	EnvDBName = "VENTAFLOW_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	POS          POSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENTAFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"VENTAFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENTAFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENTAFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VENTAFLOW_DB_DSN"`
	Driver string `envconfig:"VENTAFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VENTAFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"VENTAFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENTAFLOW_DB_USER"`
	LegacyPassword string `envconfig:"VENTAFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENTAFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENTAFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENTAFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENTAFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENTAFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENTAFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENTAFLOW_REDIS_URL"`
	Address      string        `envconfig:"VENTAFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"VENTAFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENTAFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENTAFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENTAFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENTAFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENTAFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENTAFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VENTAFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VENTAFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VENTAFLOW_JWT_EXPIRATION_MINUTES" default:"60"`
}

// POSConfig carries point-of-sale tunables. The tax rate applies to every
// tenant; there is no per-company override.
type POSConfig struct {
	TaxRatePercent  float64       `envconfig:"VENTAFLOW_POS_TAX_RATE_PERCENT" default:"10"`
	CheckoutTimeout time.Duration `envconfig:"VENTAFLOW_POS_CHECKOUT_TIMEOUT" default:"15s"`
	HistoryLimit    int           `envconfig:"VENTAFLOW_POS_HISTORY_LIMIT" default:"50"`
}

// TaxRate returns the configured rate as a decimal fraction (10 -> 0.10).
func (p POSConfig) TaxRate() decimal.Decimal {
	return decimal.NewFromFloat(p.TaxRatePercent).Div(decimal.NewFromInt(100))
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENTAFLOW_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
