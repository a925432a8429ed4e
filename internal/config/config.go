package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/degreeplanner-backend/internal/platform/envutil"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`

	Postgres struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"postgres"`

	Neo4j struct {
		URI            string `yaml:"uri"`
		User           string `yaml:"user"`
		Password       string `yaml:"password"`
		Database       string `yaml:"database"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxPoolSize    int    `yaml:"max_pool_size"`
	} `yaml:"neo4j"`

	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`

	JWT struct {
		Secret          string `yaml:"secret"`
		AccessTokenTTL  int    `yaml:"access_token_ttl"`
		RefreshTokenTTL int    `yaml:"refresh_token_ttl"`
	} `yaml:"jwt"`
}

// Load reads an optional YAML file, then applies environment overrides.
// Environment always wins so containerized deploys need no file at all.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: jwt secret required (JWT_SECRET_KEY)")
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Server.Port = "8080"
	cfg.Server.Mode = "development"

	cfg.Postgres.Host = "localhost"
	cfg.Postgres.Port = "5432"
	cfg.Postgres.User = "postgres"
	cfg.Postgres.Name = "degreeplanner"
	cfg.Postgres.SSLMode = "disable"

	cfg.Neo4j.User = "neo4j"
	cfg.Neo4j.TimeoutSeconds = 10
	cfg.Neo4j.MaxPoolSize = 50

	cfg.JWT.AccessTokenTTL = 3600
	cfg.JWT.RefreshTokenTTL = 86400
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = envutil.Str("SERVER_PORT", cfg.Server.Port)
	cfg.Server.Mode = envutil.Str("SERVER_MODE", cfg.Server.Mode)

	cfg.Postgres.Host = envutil.Str("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.Str("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.Str("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.Str("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.Str("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.Str("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)

	cfg.Neo4j.URI = envutil.Str("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.Str("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.Str("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.Str("NEO4J_DATABASE", cfg.Neo4j.Database)
	cfg.Neo4j.TimeoutSeconds = envutil.Int("NEO4J_TIMEOUT_SECONDS", cfg.Neo4j.TimeoutSeconds)
	cfg.Neo4j.MaxPoolSize = envutil.Int("NEO4J_MAX_POOL_SIZE", cfg.Neo4j.MaxPoolSize)

	cfg.Redis.Addr = envutil.Str("REDIS_ADDR", cfg.Redis.Addr)

	cfg.JWT.Secret = envutil.Str("JWT_SECRET_KEY", cfg.JWT.Secret)
	cfg.JWT.AccessTokenTTL = envutil.Int("ACCESS_TOKEN_TTL", cfg.JWT.AccessTokenTTL)
	cfg.JWT.RefreshTokenTTL = envutil.Int("REFRESH_TOKEN_TTL", cfg.JWT.RefreshTokenTTL)
}
