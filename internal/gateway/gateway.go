// Package gateway is the bridge to a locally hosted Ollama instance.
// It exposes exactly two calls, text generation and text embedding, and
// converts every network-level failure into a typed Error value so the
// interactive loop upstream never has to recover from a panic or sniff
// error markers out of response text.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrorKind classifies gateway failures for callers that degrade
// differently depending on what went wrong.
type ErrorKind string

const (
	// KindUnreachable means the request never got an HTTP response
	// (connection refused, DNS failure, timeout).
	KindUnreachable ErrorKind = "unreachable"
	// KindHTTPStatus means Ollama answered with a non-200 status.
	KindHTTPStatus ErrorKind = "http_status"
	// KindBadResponse means the body could not be decoded.
	KindBadResponse ErrorKind = "bad_response"
)

// Error is the tagged failure result for gateway calls.
type Error struct {
	Kind   ErrorKind
	Op     string // "generate" or "embed"
	Status int    // set for KindHTTPStatus
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ollama %s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("ollama %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client talks to one Ollama instance. Construct it with New and pass it
// by reference; there is no package-level shared client.
type Client struct {
	baseURL    string
	model      string
	embedModel string
	client     *http.Client
}

// New builds a client. A zero timeout means no client-side deadline; the
// caller waits on the local model for as long as it takes.
func New(baseURL, model, embedModel string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		embedModel: embedModel,
		client:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate submits a prompt with streaming disabled and returns the full
// completion. Single attempt, no retry; failure handling belongs to the
// caller.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", &Error{Kind: KindBadResponse, Op: "generate", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Kind: KindUnreachable, Op: "generate", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Kind: KindUnreachable, Op: "generate", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", &Error{Kind: KindHTTPStatus, Op: "generate", Status: resp.StatusCode}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Kind: KindBadResponse, Op: "generate", Err: err}
	}
	return out.Response, nil
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed returns the embedding vector for text. On failure the vector is
// nil, never a placeholder; zero-vector substitution is an explicit
// caller decision, not something this layer fakes.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embedRequest{Model: c.embedModel, Prompt: text})
	if err != nil {
		return nil, &Error{Kind: KindBadResponse, Op: "embed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Op: "embed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Op: "embed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{Kind: KindHTTPStatus, Op: "embed", Status: resp.StatusCode}
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &Error{Kind: KindBadResponse, Op: "embed", Err: err}
	}
	if len(out.Embedding) == 0 {
		return nil, &Error{Kind: KindBadResponse, Op: "embed", Err: fmt.Errorf("empty embedding")}
	}
	return out.Embedding, nil
}
