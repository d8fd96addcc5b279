package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	APP struct {
		Name string
		Host string
		Port string
		Env  string
	}
	Auth struct {
		JWTSecret    string
		JWTAlgorithm string
		TokenTTL     time.Duration
		BcryptCost   int
	}
	DB struct {
		User        string
		Password    string
		Name        string
		Host        string
		Port        string
		AutoMigrate bool
	}
	Redis struct {
		Addr         string
		Password     string
		DB           int
		UserCacheTTL time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Log struct {
		Level      string
		JSON       bool
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}
	HTTP struct {
		RequestTimeout time.Duration
		RateLimitRPS   float64
		RateLimitBurst int
		MaxInFlight    int64
		CORSOrigins    []string
	}

	Config struct {
		App   APP
		Auth  Auth
		DB    DB
		Redis Redis
		MQ    MQ
		Log   Log
		HTTP  HTTP
	}
)

var defaults = map[string]any{
	"SERVICE_NAME":           "identityapi",
	"SERVICE_HOST":           "0.0.0.0",
	"SERVICE_PORT":           "8080",
	"SERVICE_ENV":            "local",
	"JWT_ALGORITHM":          "HS256",
	"ACCESS_TOKEN_TTL":       "30m",
	"BCRYPT_COST":            10,
	"POSTGRES_PORT":          "5432",
	"DB_AUTO_MIGRATE":        false,
	"REDIS_DB":               0,
	"REDIS_USER_CACHE_TTL":   "5m",
	"RABBITMQ_AMQP_PORT":     "5672",
	"RABBITMQ_VHOST":         "/",
	"RABBITMQ_EXCHANGE":      "identity.events",
	"RABBITMQ_EXCHANGE_TYPE": "topic",
	"RABBITMQ_QUEUE_NAME":    "identity.user-events",
	"LOG_LEVEL":              "info",
	"LOG_JSON":               true,
	"LOG_MAX_SIZE_MB":        100,
	"LOG_MAX_BACKUPS":        5,
	"LOG_MAX_AGE_DAYS":       14,
	"LOG_COMPRESS":           true,
	"HTTP_REQUEST_TIMEOUT":   "10s",
	"HTTP_RATE_LIMIT_RPS":    100.0,
	"HTTP_RATE_LIMIT_BURST":  200,
	"HTTP_MAX_IN_FLIGHT":     256,
	"HTTP_CORS_ORIGINS":      "",
}

// Load reads the optional env files (later files do not override earlier
// ones or the real environment) and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// missing files are fine, the environment may be set directly
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	cfg := Config{
		App: APP{
			Name: v.GetString("SERVICE_NAME"),
			Host: v.GetString("SERVICE_HOST"),
			Port: v.GetString("SERVICE_PORT"),
			Env:  v.GetString("SERVICE_ENV"),
		},
		Auth: Auth{
			JWTSecret:    v.GetString("SERVICE_JWT_SECRET"),
			JWTAlgorithm: strings.ToUpper(v.GetString("JWT_ALGORITHM")),
			TokenTTL:     v.GetDuration("ACCESS_TOKEN_TTL"),
			BcryptCost:   v.GetInt("BCRYPT_COST"),
		},
		DB: DB{
			User:        v.GetString("POSTGRES_USER"),
			Password:    v.GetString("POSTGRES_PASSWORD"),
			Name:        v.GetString("POSTGRES_DB"),
			Host:        v.GetString("POSTGRES_HOST"),
			Port:        v.GetString("POSTGRES_PORT"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: Redis{
			Addr:         v.GetString("REDIS_ADDR"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			UserCacheTTL: v.GetDuration("REDIS_USER_CACHE_TTL"),
		},
		MQ: MQ{
			User:         v.GetString("RABBITMQ_USER"),
			Password:     v.GetString("RABBITMQ_PASSWORD"),
			Vhost:        v.GetString("RABBITMQ_VHOST"),
			Host:         v.GetString("RABBITMQ_HOST"),
			AmqpPort:     v.GetString("RABBITMQ_AMQP_PORT"),
			Exchange:     v.GetString("RABBITMQ_EXCHANGE"),
			ExchangeType: v.GetString("RABBITMQ_EXCHANGE_TYPE"),
			QueueName:    v.GetString("RABBITMQ_QUEUE_NAME"),
		},
		Log: Log{
			Level:      v.GetString("LOG_LEVEL"),
			JSON:       v.GetBool("LOG_JSON"),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
			Compress:   v.GetBool("LOG_COMPRESS"),
		},
		HTTP: HTTP{
			RequestTimeout: v.GetDuration("HTTP_REQUEST_TIMEOUT"),
			RateLimitRPS:   v.GetFloat64("HTTP_RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("HTTP_RATE_LIMIT_BURST"),
			MaxInFlight:    v.GetInt64("HTTP_MAX_IN_FLIGHT"),
			CORSOrigins:    splitList(v.GetString("HTTP_CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("SERVICE_JWT_SECRET is required"))
	}
	switch c.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.Auth.JWTAlgorithm))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.RedisEnabled() && c.Redis.UserCacheTTL <= 0 {
		errs = append(errs, errors.New("REDIS_USER_CACHE_TTL must be positive when REDIS_ADDR is set"))
	}

	return errors.Join(errs...)
}

func (c Config) Addr() string { return c.App.Host + ":" + c.App.Port }

func (c Config) IsProduction() bool { return c.App.Env == "production" }

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) RedisEnabled() bool { return c.Redis.Addr != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
