package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	FX            FXConfig
	Budgets       BudgetsConfig
	Cron          CronConfig
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
	Env          string   `envconfig:"MEDIAOPS_APP_ENV" required:"true"`
	Port         string   `envconfig:"MEDIAOPS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"MEDIAOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"MEDIAOPS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"MEDIAOPS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MEDIAOPS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MEDIAOPS_DB_DSN"`
	Driver string `envconfig:"MEDIAOPS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDIAOPS_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDIAOPS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDIAOPS_DB_USER"`
	LegacyPassword string `envconfig:"MEDIAOPS_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDIAOPS_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDIAOPS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDIAOPS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDIAOPS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDIAOPS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDIAOPS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDIAOPS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEDIAOPS_REDIS_ADDR"`
	Password     string        `envconfig:"MEDIAOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDIAOPS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDIAOPS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDIAOPS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDIAOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDIAOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDIAOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MEDIAOPS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MEDIAOPS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MEDIAOPS_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TokenTTL returns the access token TTL configured in minutes.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MEDIAOPS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MEDIAOPS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MEDIAOPS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MEDIAOPS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MEDIAOPS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MEDIAOPS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"MEDIAOPS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"MEDIAOPS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDIAOPS_AUTO_MIGRATE" default:"false"`
}

// FXConfig carries the single fallback rate applied when a spend entry
// needs conversion but no exchange rate was recorded with it.
type FXConfig struct {
	DefaultUSDToDZD decimal.Decimal `envconfig:"MEDIAOPS_FX_DEFAULT_USD_DZD" default:"140"`
}

type BudgetsConfig struct {
	DefaultAlertThreshold int `envconfig:"MEDIAOPS_BUDGET_DEFAULT_ALERT_THRESHOLD" default:"80"`
}

type CronConfig struct {
	Interval           time.Duration `envconfig:"MEDIAOPS_CRON_INTERVAL" default:"24h"`
	AlertRetentionDays int           `envconfig:"MEDIAOPS_CRON_ALERT_RETENTION_DAYS" default:"90"`
	LockTTL            time.Duration `envconfig:"MEDIAOPS_CRON_LOCK_TTL" default:"10m"`
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
