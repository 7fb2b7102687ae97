package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("API_RATE_LIMIT_BURST", "")

	cfg := Load()
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected default provider gemini, got %q", cfg.LLMProvider)
	}
	if cfg.NATSSubject != "rfps.created" {
		t.Fatalf("expected default subject rfps.created, got %q", cfg.NATSSubject)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Fatalf("expected default rate limit 20/40, got %d/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("OLLAMA_GEN_MODEL", "qwen2.5:14b")
	t.Setenv("API_RATE_LIMIT_RPS", "5")
	t.Setenv("RESILIENCE_BREAKER_ENABLED", "false")

	cfg := Load()
	if cfg.LLMProvider != "ollama" {
		t.Fatalf("expected provider override, got %q", cfg.LLMProvider)
	}
	if cfg.OllamaGenModel != "qwen2.5:14b" {
		t.Fatalf("expected model override, got %q", cfg.OllamaGenModel)
	}
	if cfg.RateLimitRPS != 5 {
		t.Fatalf("expected rate limit 5, got %d", cfg.RateLimitRPS)
	}
	if cfg.BreakerEnabled {
		t.Fatal("expected breaker disabled")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "not-a-number")

	cfg := Load()
	if cfg.RateLimitRPS != 20 {
		t.Fatalf("malformed int must fall back to default, got %d", cfg.RateLimitRPS)
	}
}
