package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Inventory    InventoryConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"PARTSLEDGER_APP_ENV" required:"true"`
	Port         string `envconfig:"PARTSLEDGER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARTSLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARTSLEDGER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PARTSLEDGER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PARTSLEDGER_DB_DSN"`
	Driver string `envconfig:"PARTSLEDGER_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"PARTSLEDGER_DB_HOST"`
	Port     int    `envconfig:"PARTSLEDGER_DB_PORT" default:"5432"`
	User     string `envconfig:"PARTSLEDGER_DB_USER"`
	Password string `envconfig:"PARTSLEDGER_DB_PASSWORD"`
	Name     string `envconfig:"PARTSLEDGER_DB_NAME"`
	SSLMode  string `envconfig:"PARTSLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARTSLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARTSLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARTSLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARTSLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARTSLEDGER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PARTSLEDGER_REDIS_ADDR"`
	Password     string        `envconfig:"PARTSLEDGER_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARTSLEDGER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARTSLEDGER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARTSLEDGER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARTSLEDGER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARTSLEDGER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARTSLEDGER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"PARTSLEDGER_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"PARTSLEDGER_JWT_ISSUER" required:"true"`
}

// InventoryConfig carries the explicit stock policy knobs. AllowWriteOff
// decides whether a decrease adjustment may drive a balance negative
// (inventory write-off); when false it is rejected exactly like an
// overdrawn consumption.
type InventoryConfig struct {
	AllowWriteOff bool `envconfig:"PARTSLEDGER_INVENTORY_ALLOW_WRITEOFF" default:"false"`
}

// RateLimitConfig throttles mutating API calls per principal. A zero limit
// or window disables the middleware.
type RateLimitConfig struct {
	MutationLimit  int64         `envconfig:"PARTSLEDGER_RATELIMIT_MUTATION_LIMIT" default:"60"`
	MutationWindow time.Duration `envconfig:"PARTSLEDGER_RATELIMIT_MUTATION_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PARTSLEDGER_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PARTSLEDGER_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"PARTSLEDGER_PUBSUB_NOTIFICATION_TOPIC" default:"pl-notification-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PARTSLEDGER_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PARTSLEDGER_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PARTSLEDGER_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
