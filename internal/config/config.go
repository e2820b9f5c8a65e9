package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "DEVELOPMENT"
	EnvProduction  = "PRODUCTION"

	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"PRODUCTION"`
	ServerPort  int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"shopit"`

	JWTSecret         string        `env:"JWT_SECRET"`
	JWTExpiresTime    time.Duration `env:"JWT_EXPIRES_TIME" envDefault:"168h"`
	CookieExpiresTime time.Duration `env:"COOKIE_EXPIRES_TIME" envDefault:"168h"`
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"true"`
	ResetTokenTTL     time.Duration `env:"RESET_TOKEN_TTL" envDefault:"30m"`

	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`

	FrontendURL string `env:"FRONTEND_URL"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX" envDefault:"products"`

	ProductsPerPage   int      `env:"PRODUCTS_PER_PAGE" envDefault:"4"`
	AuthRatePerMinute int      `env:"AUTH_RATE_PER_MINUTE" envDefault:"30"`
	CSRFEnabled       bool     `env:"CSRF_ENABLED" envDefault:"false"`
	CORSOrigins       []string `env:"CORS_ORIGINS" envSeparator:","`
}

type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
	FromName string `env:"FROM_NAME" envDefault:"ShopIT"`
}

func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Environment = strings.ToUpper(strings.TrimSpace(cfg.Environment))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver %q", c.StorageDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive")
	}
	if c.ProductsPerPage <= 0 {
		return fmt.Errorf("PRODUCTS_PER_PAGE must be positive")
	}
	return nil
}
