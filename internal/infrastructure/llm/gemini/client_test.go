package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/infrastructure/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(context.Background(), Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Temperature: DefaultTemperature,
	}, resilience.NewExecutor(resilience.DefaultConfig()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestGenerateAnalysisSendsPromptAndTemperature(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/"+DefaultChatModel+":generateContent") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Good match.\nSuitability Score: 85%"}]}}]}`))
	})

	got, err := NewGenerator(client).GenerateAnalysis(context.Background(), "Job Requirements: Python")
	if err != nil {
		t.Fatalf("GenerateAnalysis() error = %v", err)
	}
	if !strings.Contains(got, "Suitability Score: 85%") {
		t.Fatalf("unexpected reply %q", got)
	}

	raw, _ := json.Marshal(captured)
	if !strings.Contains(string(raw), "Job Requirements: Python") {
		t.Fatalf("prompt missing from request: %s", raw)
	}
	cfg, _ := captured["generationConfig"].(map[string]any)
	if temp, _ := cfg["temperature"].(float64); temp < 0.19 || temp > 0.21 {
		t.Fatalf("expected temperature 0.2, got %v", cfg["temperature"])
	}
}

func TestGenerateAnalysisUnauthorizedIsMissingCredential(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`))
	})

	_, err := NewGenerator(client).GenerateAnalysis(context.Background(), "prompt")
	if !domain.IsKind(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
}

func TestGenerateAnalysisUnavailableIsTemporary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	})

	_, err := NewGenerator(client).GenerateAnalysis(context.Background(), "prompt")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestEmbedReturnsOneVectorPerText(t *testing.T) {
	var captured struct {
		Requests []struct {
			TaskType string `json:"taskType"`
		} `json:"requests"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":batchEmbedContents") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[0.1,0.2]},{"values":[0.3,0.4]}]}`))
	})

	vectors, err := NewEmbedder(client).Embed(context.Background(), []string{"chunk a", "chunk b"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 || len(vectors[1]) != 2 || vectors[1][0] != 0.3 {
		t.Fatalf("unexpected vectors %v", vectors)
	}
	if len(captured.Requests) != 2 || captured.Requests[0].TaskType != embedTaskType {
		t.Fatalf("unexpected embed request %+v", captured)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	vectors, err := NewEmbedder(client).Embed(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Fatalf("expected nil result, got %v, %v", vectors, err)
	}
}

func TestGenerateAnalysisReturnsEmptyReplyUnchanged(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":""}]}}]}`))
	})

	got, err := NewGenerator(client).GenerateAnalysis(context.Background(), "Job Requirements: Go")
	if err != nil {
		t.Fatalf("GenerateAnalysis() error = %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty reply, got %q", got)
	}
}

func TestHTTPClientForTimeout(t *testing.T) {
	if got := httpClientFor(0); got != nil {
		t.Fatalf("expected SDK default client for zero timeout, got %+v", got)
	}
	if got := httpClientFor(45 * time.Second); got == nil || got.Timeout != 45*time.Second {
		t.Fatalf("expected 45s client, got %+v", got)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	if !domain.IsKind(err, domain.ErrMissingCredential) {
		t.Fatalf("expected missing credential, got %v", err)
	}
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		record    bool
	}{
		{name: "canceled", err: context.Canceled, retryable: false, record: false},
		{name: "rate limited", err: genai.APIError{Code: http.StatusTooManyRequests}, retryable: true, record: true},
		{name: "bad request pointer", err: &genai.APIError{Code: http.StatusBadRequest}, retryable: false, record: false},
		{name: "unknown", err: errors.New("boom"), retryable: false, record: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyGeminiError(tt.err)
			if got.Retryable != tt.retryable || got.RecordFailure != tt.record {
				t.Fatalf("classifyGeminiError() = %+v", got)
			}
		})
	}
}
