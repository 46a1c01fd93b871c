package vecindex

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

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

// fakeChroma is a minimal in-memory stand-in for the collection API.
type fakeChroma struct {
	created   int
	upserts   []upsertRequest
	queries   []queryRequest
	docs      []string
	distances []float64
}

func (f *fakeChroma) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		var req collectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.GetOrCreate, "collection resolution must be get-or-create")
		f.created++
		json.NewEncoder(w).Encode(collectionResponse{ID: "coll-1"})
	})
	mux.HandleFunc("/api/v1/collections/coll-1/upsert", func(w http.ResponseWriter, r *http.Request) {
		var req upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.upserts = append(f.upserts, req)
		w.Write([]byte("true"))
	})
	mux.HandleFunc("/api/v1/collections/coll-1/query", func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.queries = append(f.queries, req)
		json.NewEncoder(w).Encode(queryResponse{
			Documents: [][]string{f.docs},
			Distances: [][]float64{f.distances},
		})
	})
	return mux
}

func TestSimilarityBounds(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 100},
		{0.25, 75},
		{1, 0},
		{2, 0}, // clamped, never negative
		{10, 0},
	}
	for _, tt := range tests {
		got := Similarity(tt.distance)
		assert.Equal(t, tt.want, got, "distance %v", tt.distance)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestUpsert(t *testing.T) {
	fake := &fakeChroma{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	x := New(srv.URL, "learning-notes", &fakeEmbedder{vec: []float32{0.5, 0.5}})
	require.NoError(t, x.Upsert(context.Background(), "1700000000000", "learned about embeddings"))

	require.Len(t, fake.upserts, 1)
	up := fake.upserts[0]
	assert.Equal(t, []string{"1700000000000"}, up.IDs)
	assert.Equal(t, [][]float32{{0.5, 0.5}}, up.Embeddings)
	assert.Equal(t, []string{"learned about embeddings"}, up.Documents)
	require.Len(t, up.Metadatas, 1)
	assert.Contains(t, up.Metadatas[0], "timestamp")
}

func TestUpsertEmbedFailureSkipsIndex(t *testing.T) {
	fake := &fakeChroma{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	x := New(srv.URL, "learning-notes", &fakeEmbedder{err: errors.New("ollama down")})
	err := x.Upsert(context.Background(), "1", "some text")
	require.Error(t, err)
	assert.Zero(t, fake.created, "index must not be contacted when embedding fails")
	assert.Empty(t, fake.upserts)
}

func TestQueryMapsDistancesToScores(t *testing.T) {
	fake := &fakeChroma{
		docs:      []string{"closest note", "middling note", "distant note"},
		distances: []float64{0.1, 0.6, 1.4},
	}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	x := New(srv.URL, "learning-notes", &fakeEmbedder{vec: []float32{1, 0}})
	results, err := x.Query(context.Background(), "what did I learn about notes?", 3)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "closest note", results[0].Document)
	assert.InDelta(t, 90, results[0].Score, 1e-9)
	assert.InDelta(t, 40, results[1].Score, 1e-9)
	assert.Equal(t, 0.0, results[2].Score, "distance beyond 1 clamps to 0")

	require.Len(t, fake.queries, 1)
	assert.Equal(t, 3, fake.queries[0].NResults)
}

func TestQueryEmbedFailure(t *testing.T) {
	fake := &fakeChroma{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	x := New(srv.URL, "learning-notes", &fakeEmbedder{err: errors.New("no embedder")})
	results, err := x.Query(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Empty(t, fake.queries)
}

func TestCollectionResolvedPerOperation(t *testing.T) {
	fake := &fakeChroma{docs: []string{"a"}, distances: []float64{0.2}}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	x := New(srv.URL, "learning-notes", &fakeEmbedder{vec: []float32{1}})
	require.NoError(t, x.Upsert(context.Background(), "1", "one"))
	_, err := x.Query(context.Background(), "one", 1)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.created, "each operation re-resolves the collection")
}

func TestChromaErrorSurfacesAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	x := New(srv.URL, "learning-notes", &fakeEmbedder{vec: []float32{1}})
	err := x.Upsert(context.Background(), "1", "one")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
