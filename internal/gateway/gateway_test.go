package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		json.NewEncoder(w).Encode(generateResponse{Response: "hello there"})
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.2", "nomic-embed-text", 0)
	got, err := c.Generate(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "hello there", got)
}

func TestGenerateUnreachable(t *testing.T) {
	// Nothing listens on this port.
	c := New("http://127.0.0.1:1", "llama3.2", "nomic-embed-text", 0)
	_, err := c.Generate(context.Background(), "anyone home?")
	require.Error(t, err)

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindUnreachable, gwErr.Kind)
	assert.Equal(t, "generate", gwErr.Op)
}

func TestGenerateHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "missing", "nomic-embed-text", 0)
	_, err := c.Generate(context.Background(), "hi")

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindHTTPStatus, gwErr.Kind)
	assert.Equal(t, http.StatusNotFound, gwErr.Status)
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embeddings", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.2", "nomic-embed-text", 0)
	vec, err := c.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedFailureReturnsNilVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "llama3.2", "nomic-embed-text", 0)
	vec, err := c.Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.Nil(t, vec, "failure must not yield a placeholder vector")

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindBadResponse, gwErr.Kind)
}
