package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds the settings shared by all three services. Defaults are only
// suitable for local, non-production use.
type Config struct {
	Port string `env:"PORT,default=8080"`

	DBDriver   string `env:"DB_DRIVER,default=mongo"`
	MongoURI   string `env:"MONGO_URI,default=mongodb://mongo:27017"`
	DBName     string `env:"DB_NAME,default=ecommerce"`
	SQLitePath string `env:"SQLITE_PATH,default=ecommerce.db"`

	ConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS,default=10"`
	ConnectDelay    time.Duration `env:"DB_CONNECT_DELAY,default=1s"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT,default=2s"`

	JWTSecret  string `env:"JWT_SECRET,default=supersecret"`
	BcryptCost int    `env:"BCRYPT_COST,default=12"`

	RedisAddr         string `env:"REDIS_ADDR"`
	RateLimitMax      int    `env:"RATE_LIMIT_MAX,default=120"`
	LoginRateLimitMax int    `env:"LOGIN_RATE_LIMIT_MAX,default=5"`
	BodyLimit         int    `env:"BODY_LIMIT,default=1048576"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads an optional .env file and then decodes the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ConnectAttempts < 1 {
		return errors.New("DB_CONNECT_ATTEMPTS must be at least 1")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return nil
}

// Fields returns the config as log fields with the signing secret redacted.
func (c Config) Fields() map[string]any {
	return map[string]any{
		"port":             c.Port,
		"db_driver":        c.DBDriver,
		"mongo_uri":        c.MongoURI,
		"db_name":          c.DBName,
		"sqlite_path":      c.SQLitePath,
		"connect_attempts": c.ConnectAttempts,
		"connect_delay":    c.ConnectDelay.String(),
		"redis_addr":       c.RedisAddr,
		"log_level":        c.LogLevel,
		"log_file":         c.LogFile,
		"jwt_secret":       "[redacted]",
	}
}
