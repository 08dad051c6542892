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
	FeatureFlags FeatureFlagsConfig
	SMTP         SMTPConfig
	Geocoder     GeocoderConfig
	TextGen      TextGenConfig
	DocRender    DocRenderConfig
	Secrets      SecretsConfig
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
	Env          string `envconfig:"SERVICECOMMAND_APP_ENV" required:"true"`
	Port         string `envconfig:"SERVICECOMMAND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SERVICECOMMAND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SERVICECOMMAND_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"SERVICECOMMAND_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SERVICECOMMAND_DB_DSN"`
	Driver string `envconfig:"SERVICECOMMAND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SERVICECOMMAND_DB_HOST"`
	LegacyPort     int    `envconfig:"SERVICECOMMAND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SERVICECOMMAND_DB_USER"`
	LegacyPassword string `envconfig:"SERVICECOMMAND_DB_PASSWORD"`
	LegacyName     string `envconfig:"SERVICECOMMAND_DB_NAME"`
	LegacySSLMode  string `envconfig:"SERVICECOMMAND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SERVICECOMMAND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SERVICECOMMAND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SERVICECOMMAND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SERVICECOMMAND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SERVICECOMMAND_REDIS_URL"`
	Address      string        `envconfig:"SERVICECOMMAND_REDIS_ADDR"`
	Password     string        `envconfig:"SERVICECOMMAND_REDIS_PASSWORD"`
	DB           int           `envconfig:"SERVICECOMMAND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SERVICECOMMAND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SERVICECOMMAND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SERVICECOMMAND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SERVICECOMMAND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SERVICECOMMAND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"SERVICECOMMAND_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SERVICECOMMAND_JWT_ISSUER" default:"servicecommand"`
	ExpirationMinutes int    `envconfig:"SERVICECOMMAND_JWT_EXPIRATION_MINUTES" default:"720"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SERVICECOMMAND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SERVICECOMMAND_AUTO_MIGRATE" default:"true"`
}

// SMTPConfig carries the environment layer of the mail transport lookup.
// The dispatcher resolves the effective settings through the layered
// lookup in smtp.go; these values are the lowest-priority layer.
type SMTPConfig struct {
	Server   string        `envconfig:"SMTP_SERVER"`
	Port     int           `envconfig:"SMTP_PORT" default:"587"`
	Email    string        `envconfig:"SMTP_EMAIL"`
	Password string        `envconfig:"SMTP_PASSWORD"`
	Timeout  time.Duration `envconfig:"SERVICECOMMAND_SMTP_TIMEOUT" default:"15s"`
}

type GeocoderConfig struct {
	BaseURL   string        `envconfig:"SERVICECOMMAND_GEOCODER_URL" default:"https://nominatim.openstreetmap.org"`
	UserAgent string        `envconfig:"SERVICECOMMAND_GEOCODER_USER_AGENT" default:"ServiceCommand/1.0"`
	Timeout   time.Duration `envconfig:"SERVICECOMMAND_GEOCODER_TIMEOUT" default:"10s"`
}

type TextGenConfig struct {
	APIKey  string        `envconfig:"SERVICECOMMAND_GEMINI_API_KEY"`
	Model   string        `envconfig:"SERVICECOMMAND_GEMINI_MODEL" default:"gemini-1.5-flash"`
	Timeout time.Duration `envconfig:"SERVICECOMMAND_GEMINI_TIMEOUT" default:"30s"`
}

type DocRenderConfig struct {
	BaseURL string        `envconfig:"SERVICECOMMAND_DOCRENDER_URL"`
	Timeout time.Duration `envconfig:"SERVICECOMMAND_DOCRENDER_TIMEOUT" default:"20s"`
}

type SecretsConfig struct {
	File string `envconfig:"SERVICECOMMAND_SECRETS_FILE" default:"secrets.env"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DriverSQLite) {
		db.DSN = defaultSQLitePath
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
