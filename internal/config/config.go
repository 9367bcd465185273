package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Server is the zenfocusd process configuration. Values come from the
// environment with the defaults below.
type Server struct {
	Port        string        `env:"PORT" env-default:"8080"`
	DBPath      string        `env:"DB_PATH" env-default:"./data/zenfocus.db"`
	JWTSecret   string        `env:"JWT_SECRET" env-default:"zenfocus-secret-change-in-production"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" env-default:"168h"`
	CORSOrigins []string      `env:"CORS_ORIGINS" env-default:"http://localhost:5173,http://127.0.0.1:5173"`
}

// Client is the zenfocus CLI configuration.
type Client struct {
	ServerURL string        `env:"ZENFOCUS_SERVER_URL" env-default:"http://localhost:8080"`
	DataDir   string        `env:"ZENFOCUS_DATA_DIR" env-default:""`
	Timeout   time.Duration `env:"ZENFOCUS_HTTP_TIMEOUT" env-default:"5s"`
	LogLevel  string        `env:"ZENFOCUS_LOG_LEVEL" env-default:"info"`
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}

// LoadClient reads the client configuration from the environment.
func LoadClient() (*Client, error) {
	var cfg Client
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}
