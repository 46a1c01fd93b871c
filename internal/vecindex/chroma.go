// Package vecindex keeps note embeddings in a Chroma collection and
// answers nearest-neighbor queries as bounded similarity percentages.
package vecindex

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

// Embedder turns text into a fixed-length vector. Satisfied by the
// gateway client; faked in tests.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result is one semantic search hit. Score is a percentage in [0, 100],
// derived from the raw collection distance.
type Result struct {
	Document string
	Score    float64
}

// Index is a thin client for one named Chroma collection. The collection
// is resolved get-or-create on every operation rather than cached, so a
// Chroma restart between menu actions goes unnoticed; volume is a handful
// of interactive calls, not a hot path.
type Index struct {
	baseURL    string
	collection string
	emb        Embedder
	client     *http.Client
	now        func() time.Time
}

func New(baseURL, collection string, emb Embedder) *Index {
	return &Index{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		emb:        emb,
		client:     &http.Client{},
		now:        time.Now,
	}
}

// Similarity maps a raw distance to a clamped percentage: distance 0 is a
// perfect 100, distance >= 1 floors at 0, never negative.
func Similarity(distance float64) float64 {
	s := (1 - distance) * 100
	if s < 0 {
		return 0
	}
	return s
}

type collectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

type collectionResponse struct {
	ID string `json:"id"`
}

// ensureCollection resolves the collection id, creating the collection on
// first use. Idempotent: re-running the process neither duplicates nor
// wipes it.
func (x *Index) ensureCollection(ctx context.Context) (string, error) {
	body, err := json.Marshal(collectionRequest{Name: x.collection, GetOrCreate: true})
	if err != nil {
		return "", err
	}
	var out collectionResponse
	if err := x.post(ctx, "/api/v1/collections", body, &out); err != nil {
		return "", fmt.Errorf("get-or-create collection %q: %w", x.collection, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("collection %q: empty id in response", x.collection)
	}
	return out.ID, nil
}

type upsertRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas"`
}

// Upsert embeds text and stores it under id, overwriting any prior record
// for the same id. An embedding failure is returned as-is and the index is
// never contacted; no silent zero-vector stand-ins at this layer.
func (x *Index) Upsert(ctx context.Context, id, text string) error {
	vec, err := x.emb.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed note %s: %w", id, err)
	}

	collID, err := x.ensureCollection(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(upsertRequest{
		IDs:        []string{id},
		Embeddings: [][]float32{vec},
		Documents:  []string{text},
		Metadatas:  []map[string]any{{"timestamp": x.now().Format(time.RFC3339)}},
	})
	if err != nil {
		return err
	}
	if err := x.post(ctx, "/api/v1/collections/"+collID+"/upsert", body, nil); err != nil {
		return fmt.Errorf("upsert note %s: %w", id, err)
	}
	return nil
}

type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type queryResponse struct {
	Documents [][]string  `json:"documents"`
	Distances [][]float64 `json:"distances"`
}

// Query returns up to k stored documents most similar to text, best first.
// Ties keep the collection's native order.
func (x *Index) Query(ctx context.Context, text string, k int) ([]Result, error) {
	vec, err := x.emb.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	collID, err := x.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(queryRequest{
		QueryEmbeddings: [][]float32{vec},
		NResults:        k,
		Include:         []string{"documents", "distances"},
	})
	if err != nil {
		return nil, err
	}
	var out queryResponse
	if err := x.post(ctx, "/api/v1/collections/"+collID+"/query", body, &out); err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	if len(out.Documents) == 0 {
		return nil, nil
	}
	docs := out.Documents[0]
	var dists []float64
	if len(out.Distances) > 0 {
		dists = out.Distances[0]
	}

	results := make([]Result, 0, len(docs))
	for i, doc := range docs {
		r := Result{Document: doc}
		if i < len(dists) {
			r.Score = Similarity(dists[i])
		}
		results = append(results, r)
	}
	return results, nil
}

func (x *Index) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, "POST", x.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chroma HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
