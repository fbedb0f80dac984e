package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Server struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Debug       bool   `toml:"debug_mode"`
	MetricsPort int    `toml:"metrics_port"`
	SqliteFile  string `toml:"sqlite_file"`
}

type Auth struct {
	Token      string `toml:"token"`
	Expiration string `toml:"expiration"`
	BcryptCost int    `toml:"bcrypt_cost"`
	Rules      []Rule `toml:"rules"`
}

// Rule allows the listed roles to call the methods on paths matching
// the regexp. "*" matches any method or role.
type Rule struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Method []string `toml:"method"`
	Allow  []string `toml:"allow"`
}

type Config struct {
	Server Server `toml:"server"`
	Auth   Auth   `toml:"auth"`
}

func New() (Config, error) {
	// Missing .env is fine, plain environment variables still apply.
	_ = godotenv.Load()

	var cfg Config
	_, err := toml.DecodeFile("configs/server.toml", &cfg)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if file := os.Getenv("SQLITE_FILE"); file != "" {
		cfg.Server.SqliteFile = file
	}
	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
}
