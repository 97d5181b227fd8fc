package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "CHUNK_SIZE", "CHUNK_OVERLAP", "VECTOR_BACKEND", "VECTOR_STORE_DIR", "LLM_PROVIDER", "LLM_RETRY_MAX_ATTEMPTS", "SCREENING_MAX_IN_FLIGHT", "LLM_TIMEOUT_SECONDS")

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
		t.Fatalf("unexpected chunking defaults %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.VectorBackend != BackendChromem || cfg.VectorStoreDir != "chroma_store" {
		t.Fatalf("unexpected vector defaults %q %q", cfg.VectorBackend, cfg.VectorStoreDir)
	}
	if cfg.LLMProvider != ProviderGemini {
		t.Fatalf("expected gemini provider by default, got %q", cfg.LLMProvider)
	}
	if cfg.LLMRetryMaxAttempts != 1 {
		t.Fatalf("expected single attempt by default, got %d", cfg.LLMRetryMaxAttempts)
	}
	if cfg.ScreeningMaxInFlight != 1 {
		t.Fatalf("expected one screening in flight, got %d", cfg.ScreeningMaxInFlight)
	}
	if cfg.LLMTimeoutSeconds != 0 {
		t.Fatalf("expected no model timeout by default, got %d", cfg.LLMTimeoutSeconds)
	}
}

func TestLoadFileOverlayLosesToEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screener.yaml")
	content := "CHUNK_SIZE: 800\nVECTOR_BACKEND: qdrant\nGOOGLE_API_KEY: from-file\nLLM_TEMPERATURE: 0.5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("LLM_TEMPERATURE", "")
	t.Setenv("VECTOR_BACKEND", "postgres")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.ChunkSize != 800 {
		t.Fatalf("expected file value 800, got %d", cfg.ChunkSize)
	}
	if cfg.LLMTemperature != 0.5 {
		t.Fatalf("expected file temperature 0.5, got %v", cfg.LLMTemperature)
	}
	if cfg.VectorBackend != BackendPostgres {
		t.Fatalf("env must win over file, got %q", cfg.VectorBackend)
	}
	if cfg.GoogleAPIKey != "from-file" {
		t.Fatalf("expected key from file, got %q", cfg.GoogleAPIKey)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("VECTOR_BACKEND", "")
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
	base, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if err := base.Validate(); !domain.IsKind(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}

	withKey := base
	withKey.GoogleAPIKey = "key"
	if err := withKey.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	ollama := base
	ollama.LLMProvider = ProviderOllama
	if err := ollama.Validate(); err != nil {
		t.Fatalf("ollama does not need a google key, got %v", err)
	}

	badBackend := withKey
	badBackend.VectorBackend = "redis"
	if err := badBackend.Validate(); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for backend, got %v", err)
	}

	badChunks := withKey
	badChunks.ChunkOverlap = badChunks.ChunkSize
	if err := badChunks.Validate(); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for chunking, got %v", err)
	}
}
