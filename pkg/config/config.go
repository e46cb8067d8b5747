package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongoDB  = "mongodb"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV" default:"local"`
	Port         int    `envconfig:"PORT" default:"3000"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`

	Store struct {
		Driver  string        `envconfig:"STORE_DRIVER" default:"mongodb"`
		Timeout time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`
	}
	Mongo struct {
		URI            string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"5s"`
	}
	DynamoDB struct {
		Region       string `envconfig:"DDB_REGION"`
		Endpoint     string `envconfig:"DDB_ENDPOINT"`
		AccessKey    string `envconfig:"DDB_ACCESS_KEY"`
		SecretKey    string `envconfig:"DDB_SECRET_KEY"`
		SessionToken string `envconfig:"DDB_SESSION_TOKEN"`
		MoviesTable  string `envconfig:"DDB_MOVIES_TABLE" default:"movies"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	switch cfg.Store.Driver {
	case DriverMongoDB, DriverDynamoDB:
	default:
		return nil, fmt.Errorf("load config error: unknown store driver %q", cfg.Store.Driver)
	}

	return cfg, nil
}
