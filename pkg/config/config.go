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
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	AuthRate     AuthRateLimitConfig
	Cart         CartConfig
	Events       EventsConfig
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
	Env          string   `envconfig:"TIENDALINK_APP_ENV" required:"true"`
	Port         string   `envconfig:"TIENDALINK_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"TIENDALINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"TIENDALINK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"TIENDALINK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIENDALINK_DB_DSN"`
	Driver string `envconfig:"TIENDALINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TIENDALINK_DB_HOST"`
	LegacyPort     int    `envconfig:"TIENDALINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TIENDALINK_DB_USER"`
	LegacyPassword string `envconfig:"TIENDALINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TIENDALINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TIENDALINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIENDALINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIENDALINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIENDALINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIENDALINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) UseSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"TIENDALINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TIENDALINK_REDIS_ADDR"`
	Password     string        `envconfig:"TIENDALINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIENDALINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIENDALINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIENDALINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIENDALINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIENDALINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIENDALINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TIENDALINK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TIENDALINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TIENDALINK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TIENDALINK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TIENDALINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TIENDALINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TIENDALINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TIENDALINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TIENDALINK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"TIENDALINK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"TIENDALINK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"TIENDALINK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	// TTL bounds how long an abandoned cart survives in Redis.
	TTL time.Duration `envconfig:"TIENDALINK_CART_TTL" default:"720h"`
}

type EventsConfig struct {
	ProjectID   string `envconfig:"TIENDALINK_GCP_PROJECT_ID"`
	OrdersTopic string `envconfig:"TIENDALINK_PUBSUB_ORDERS_TOPIC" default:"tl-order-events"`
}

// Enabled reports whether event publishing is configured at all.
func (e EventsConfig) Enabled() bool {
	return strings.TrimSpace(e.ProjectID) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TIENDALINK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.UseSQLite() {
		return fmt.Errorf("%s is required when driver is sqlite", EnvDBDSN)
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
