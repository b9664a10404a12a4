// Package config assembles the service configuration from defaults,
// command line flags, a .env file and environment variables (in that
// order of precedence, environment winning) and validates the result.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime knob of the register service and its client.
type Config struct {
	RunAddr                   string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel                  string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName                string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	DatabaseDSN               string        `env:"DATABASE_DSN"`
	DBConnectionTimeout       time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir             string        `env:"MIGRATIONS_DIR"`
	AuthCookieName            string        `env:"AUTH_COOKIE_NAME" validate:"required"`
	AuthTokenSigningSecretKey string        `env:"AUTH_TOKEN_SIGNING_SECRET_KEY" validate:"required,base64url"`
	AuthTokenTTL              time.Duration `env:"AUTH_TOKEN_TTL"`
	SessionFileName           string        `env:"SESSION_FILE_PATH" validate:"filepath"`
	ServerBaseURL             string        `env:"SERVER_BASE_URL" validate:"url"`
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func validate(cfg *Config) error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(cfg)
}

// InitOption customizes New.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command line flag parsing, which tests need
// because the testing package owns the flag set.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds and validates a Config.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	cfg := &Config{
		RunAddr:                   ":8080",
		LogLevel:                  "info",
		DBFileName:                "",
		DatabaseDSN:               "",
		DBConnectionTimeout:       10 * time.Second,
		MigrationsDir:             "cmd/docreg/migrations",
		AuthCookieName:            "docreg_auth",
		AuthTokenSigningSecretKey: "c3VwZXJzZWNyZXRrZXk=",
		AuthTokenTTL:              12 * time.Hour,
		SessionFileName:           "session.json",
		ServerBaseURL:             "http://localhost:8080",
	}
	if !options.disableFlagsParsing {
		flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "address and port to run server")
		flag.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "logger level")
		flag.StringVar(&cfg.DBFileName, "f", cfg.DBFileName, "JSON file name with the register database")
		flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "A string with the database connection details")
		flag.StringVar(&cfg.MigrationsDir, "m", cfg.MigrationsDir, "directory with goose migrations")
		flag.Parse()
	}

	var valuesFromEnv Config
	err = env.Parse(&valuesFromEnv)
	if err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		cfg.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.LogLevel != "" {
		cfg.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.DBFileName != "" {
		cfg.DBFileName = valuesFromEnv.DBFileName
	}

	if valuesFromEnv.DatabaseDSN != "" {
		cfg.DatabaseDSN = valuesFromEnv.DatabaseDSN
	}

	if valuesFromEnv.DBConnectionTimeout != 0 {
		cfg.DBConnectionTimeout = valuesFromEnv.DBConnectionTimeout
	}

	if valuesFromEnv.MigrationsDir != "" {
		cfg.MigrationsDir = valuesFromEnv.MigrationsDir
	}

	if valuesFromEnv.AuthCookieName != "" {
		cfg.AuthCookieName = valuesFromEnv.AuthCookieName
	}

	if valuesFromEnv.AuthTokenSigningSecretKey != "" {
		cfg.AuthTokenSigningSecretKey = valuesFromEnv.AuthTokenSigningSecretKey
	}

	if valuesFromEnv.AuthTokenTTL != 0 {
		cfg.AuthTokenTTL = valuesFromEnv.AuthTokenTTL
	}

	if valuesFromEnv.SessionFileName != "" {
		cfg.SessionFileName = valuesFromEnv.SessionFileName
	}

	if valuesFromEnv.ServerBaseURL != "" {
		cfg.ServerBaseURL = valuesFromEnv.ServerBaseURL
	}

	return cfg, validate(cfg)
}
