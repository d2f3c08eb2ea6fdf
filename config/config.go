package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings the server needs at startup.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8000"`
	MongoDB_ConnectionURI string `env:"MONGODB_URL" envDefault:"mongodb://localhost:27017"`
	MongoDB_DBName        string `env:"MONGODB_DB" envDefault:"goncalves"`

	JwtSecret        string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JwtAlgorithm     string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	JwtExpireMinutes int    `env:"JWT_EXPIRE_MINUTES" envDefault:"60"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"` // seconds

	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// getEnvPath resolves the env file for the current GO_ENV, walking up
// from the working directory until it finds config/env.
func getEnvPath() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		fmt.Printf("could not resolve working directory: %v\n", err)
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads the env file (when present) and parses the
// configuration from the environment. Missing env files are not fatal
// so the server can run from plain environment variables.
func NewConfig() *Configuration {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Logger is not initialized yet at this point.
			fmt.Printf("env file not loaded from %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("config parse error: %+v\n", err)
		return nil
	}

	return &cfg
}
