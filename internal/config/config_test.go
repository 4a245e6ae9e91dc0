package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("api port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Database.DSN() != "host=localhost port=5432 user=jobagent password=jobagent dbname=jobagent sslmode=disable" {
		t.Errorf("dsn = %q", cfg.Database.DSN())
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr())
	}
	if cfg.LLM.Model != "gemini-2.5-flash" || cfg.LLM.GeminiAPIKey != "" {
		t.Errorf("llm config = %+v", cfg.LLM)
	}
	if cfg.Discovery.AdapterTimeoutSeconds != 30 || cfg.Discovery.RescanHours != 0 {
		t.Errorf("discovery config = %+v", cfg.Discovery)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("POSTGRES_DB", "jobs")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DISCOVERY_RESCAN_HOURS", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("api port = %d, want 9090", cfg.API.Port)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Name != "jobs" {
		t.Errorf("database config = %+v", cfg.Database)
	}
	if cfg.Redis.Addr() != "localhost:6380" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr())
	}
	if cfg.LLM.GeminiAPIKey != "test-key" {
		t.Errorf("gemini api key = %q", cfg.LLM.GeminiAPIKey)
	}
	if cfg.Discovery.RescanHours != 12 {
		t.Errorf("rescan hours = %d, want 12", cfg.Discovery.RescanHours)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DISCOVERY_ADAPTER_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for zero adapter timeout")
	}
}

func TestLoad_SMTPRequiresSender(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error when smtp host is set without a sender")
	}
}
