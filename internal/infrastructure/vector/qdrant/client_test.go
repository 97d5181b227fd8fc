package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

func testChunks(docID string, texts ...string) []domain.AnalysisChunk {
	out := make([]domain.AnalysisChunk, 0, len(texts))
	for i, text := range texts {
		out = append(out, domain.AnalysisChunk{ID: domain.ChunkID(docID, i), DocumentID: docID, Index: i, Text: text})
	}
	return out
}

func TestIndexChunksEnsuresCollectionOncePerVectorSize(t *testing.T) {
	var ensureCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs":
			atomic.AddInt32(&ensureCalls, 1)
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	chunks := testChunks("jane", "a", "b")
	vectors := [][]float32{{0.1, 0.2}, {0.3, 0.4}}

	if err := client.IndexChunks(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("first IndexChunks() error = %v", err)
	}
	if err := client.IndexChunks(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("second IndexChunks() error = %v", err)
	}
	if got := atomic.LoadInt32(&ensureCalls); got != 1 {
		t.Fatalf("expected ensure collection called once, got %d", got)
	}
}

func TestIndexChunksReusesPointIDsForSameChunk(t *testing.T) {
	var (
		mu     sync.Mutex
		upsert [][]string
		waits  []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/docs/points" {
			w.WriteHeader(http.StatusOK)
			return
		}
		var body struct {
			Points []struct {
				ID      string         `json:"id"`
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode upsert: %v", err)
		}
		ids := make([]string, 0, len(body.Points))
		for _, p := range body.Points {
			ids = append(ids, p.ID)
			if p.Payload["chunk_id"] == "" {
				t.Errorf("chunk_id missing from payload")
			}
		}
		mu.Lock()
		upsert = append(upsert, ids)
		waits = append(waits, r.URL.Query().Get("wait"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	if err := client.IndexChunks(context.Background(), testChunks("jane", "first"), [][]float32{{0.1}}); err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}
	if err := client.IndexChunks(context.Background(), testChunks("jane", "second"), [][]float32{{0.2}}); err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}

	if len(upsert) != 2 || upsert[0][0] != upsert[1][0] {
		t.Fatalf("expected identical point ids, got %v", upsert)
	}
	if upsert[0][0] != PointID("jane_chunk_0") {
		t.Fatalf("unexpected point id %s", upsert[0][0])
	}
	for _, w := range waits {
		if w != "true" {
			t.Fatalf("upsert must wait for the write, got wait=%q", w)
		}
	}
}

func TestPointIDDistinguishesChunks(t *testing.T) {
	if PointID("jane_chunk_0") == PointID("jane_chunk_1") {
		t.Fatalf("point ids must differ per chunk")
	}
	if PointID("jane_chunk_0") != PointID("jane_chunk_0") {
		t.Fatalf("point ids must be stable")
	}
}

func TestEnsureCollectionIncludesResponseBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/collections/docs" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	err := client.IndexChunks(context.Background(), testChunks("doc", "a"), [][]float32{{0.1, 0.2}})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got == "" || !strings.Contains(got, "boom") {
		t.Fatalf("expected error to include body, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary kind for 500, got %v", err)
	}
}

func TestIndexChunksRejectsMissingVectors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, "docs")
	err := client.IndexChunks(context.Background(), testChunks("doc", "a", "b"), nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing vectors, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected no qdrant calls, got %d", got)
	}
}
