package config

import "testing"

func TestLoad_EnvOverridesAndDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("NEO4J_URI", "neo4j://graph.internal:7687")
	t.Setenv("ACCESS_TOKEN_TTL", "120")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Fatalf("postgres host = %q", cfg.Postgres.Host)
	}
	if cfg.Neo4j.URI != "neo4j://graph.internal:7687" {
		t.Fatalf("neo4j uri = %q", cfg.Neo4j.URI)
	}
	if cfg.JWT.AccessTokenTTL != 120 {
		t.Fatalf("access ttl = %d", cfg.JWT.AccessTokenTTL)
	}

	// Defaults survive where nothing overrides them.
	if cfg.Server.Port != "8080" || cfg.Postgres.SSLMode != "disable" {
		t.Fatalf("defaults not applied: port %q sslmode %q", cfg.Server.Port, cfg.Postgres.SSLMode)
	}
	if cfg.Neo4j.MaxPoolSize != 50 {
		t.Fatalf("neo4j pool default = %d", cfg.Neo4j.MaxPoolSize)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without jwt secret")
	}
}
