package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "HE2_DB_DSN"
	EnvDBHost = "HE2_DB_HOST"
	EnvDBUser = "HE2_DB_USER"
	EnvDBName = "HE2_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	Demographics DemographicsConfig
	SMTP         SMTPConfig
	Invites      InvitesConfig
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
	Env          string `envconfig:"HE2_APP_ENV" required:"true"`
	Port         string `envconfig:"HE2_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HE2_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HE2_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HE2_DB_DSN"`
	Driver string `envconfig:"HE2_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HE2_DB_HOST"`
	LegacyPort     int    `envconfig:"HE2_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HE2_DB_USER"`
	LegacyPassword string `envconfig:"HE2_DB_PASSWORD"`
	LegacyName     string `envconfig:"HE2_DB_NAME"`
	LegacySSLMode  string `envconfig:"HE2_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HE2_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HE2_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HE2_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HE2_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HE2_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HE2_REDIS_ADDR"`
	Password     string        `envconfig:"HE2_REDIS_PASSWORD"`
	DB           int           `envconfig:"HE2_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HE2_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HE2_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HE2_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HE2_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HE2_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"HE2_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"HE2_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"HE2_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"HE2_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HE2_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HE2_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HE2_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HE2_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HE2_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HE2_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HE2_AUTO_MIGRATE" default:"false"`
}

type DemographicsConfig struct {
	// InternalDomains lists the email domains counted as staff accounts.
	InternalDomains []string `envconfig:"HE2_INTERNAL_EMAIL_DOMAINS" default:"he2.ai,he2.app"`
}

type SMTPConfig struct {
	Host        string        `envconfig:"HE2_SMTP_HOST"`
	Port        string        `envconfig:"HE2_SMTP_PORT" default:"587"`
	Username    string        `envconfig:"HE2_SMTP_USERNAME"`
	Password    string        `envconfig:"HE2_SMTP_PASSWORD"`
	FromEmail   string        `envconfig:"HE2_SMTP_FROM_EMAIL"`
	FromName    string        `envconfig:"HE2_SMTP_FROM_NAME" default:"HE2"`
	Enabled     bool          `envconfig:"HE2_SMTP_ENABLED" default:"false"`
	SendTimeout time.Duration `envconfig:"HE2_SMTP_SEND_TIMEOUT" default:"30s"`
	MaxRetries  uint64        `envconfig:"HE2_SMTP_MAX_RETRIES" default:"3"`
}

type InvitesConfig struct {
	CodeLength     int           `envconfig:"HE2_INVITE_CODE_LENGTH" default:"10"`
	DefaultMaxUses int           `envconfig:"HE2_INVITE_DEFAULT_MAX_USES" default:"1"`
	DefaultTTL     time.Duration `envconfig:"HE2_INVITE_DEFAULT_TTL" default:"720h"`
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
