package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/infrastructure/resilience"
)

const (
	DefaultChatModel   = "gemini-2.0-flash"
	DefaultEmbedModel  = "text-embedding-004"
	DefaultTemperature = 0.2

	embedTaskType = "RETRIEVAL_DOCUMENT"
)

type Config struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	EmbedModel  string
	Temperature float32
	// Timeout caps each HTTP call; zero keeps only the caller's context deadline.
	Timeout time.Duration
}

// Client wraps one genai client shared by the generator and the embedder.
type Client struct {
	genai       *genai.Client
	chatModel   string
	embedModel  string
	temperature float32
	executor    *resilience.Executor
}

func New(ctx context.Context, cfg Config, executor *resilience.Executor) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.WrapError(domain.ErrMissingCredential, "gemini client", errors.New("GOOGLE_API_KEY is not set"))
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClientFor(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{
		genai:       gc,
		chatModel:   cfg.ChatModel,
		embedModel:  cfg.EmbedModel,
		temperature: cfg.Temperature,
		executor:    executor,
	}, nil
}

// httpClientFor returns nil for a zero timeout so the SDK keeps its default client.
func httpClientFor(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: timeout}
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// GenerateAnalysis sends the prompt as a single user turn and returns the reply
// text unmodified, empty or not.
func (g *Generator) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	c := g.client
	text, err := resilience.Call(ctx, c.executor, "gemini_generate", func(ctx context.Context) (string, error) {
		resp, err := c.genai.Models.GenerateContent(ctx, c.chatModel, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature: genai.Ptr(c.temperature),
		})
		if err != nil {
			return "", fmt.Errorf("gemini generate: %w", err)
		}
		return resp.Text(), nil
	}, classifyGeminiError)
	if err != nil {
		return "", wrapGeminiError("gemini generate", err)
	}
	return text, nil
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: t}}})
	}

	c := e.client
	vectors, err := resilience.Call(ctx, c.executor, "gemini_embed", func(ctx context.Context) ([][]float32, error) {
		resp, err := c.genai.Models.EmbedContent(ctx, c.embedModel, contents, &genai.EmbedContentConfig{
			TaskType: embedTaskType,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini embed: %w", err)
		}
		out := make([][]float32, 0, len(resp.Embeddings))
		for _, emb := range resp.Embeddings {
			out = append(out, emb.Values)
		}
		return out, nil
	}, classifyGeminiError)
	if err != nil {
		return nil, wrapGeminiError("gemini embed", err)
	}
	return vectors, nil
}

// EmbedOne adapts the embedder to single-document callbacks such as chromem's EmbeddingFunc.
func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}
