package webimport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Understanding Embeddings</title></head>
<body>
<nav>Home | About | Contact</nav>
<article>
<h1>Understanding Embeddings</h1>
<p>An embedding is a fixed-length numeric vector that represents text.
Similar texts end up with similar vectors, which makes nearest-neighbor
search possible. This article walks through how that works in practice,
from tokenization to cosine distance.</p>
<p>Vector databases store these embeddings and answer top-k similarity
queries. The distance metric determines what "similar" means.</p>
</article>
<footer>Copyright nobody</footer>
</body>
</html>`

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	content, err := FromURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, content, "fixed-length numeric vector")
	assert.Contains(t, content, "(source: "+srv.URL+")")
	assert.NotContains(t, content, "<p>", "HTML must be converted to markdown")
}

func TestFromURLHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FromURL(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("note a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("note b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "skip.bin"), []byte{0x00}, 0o644))

	files, err := Glob(filepath.Join(dir, "**", "*"))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "note a", files[filepath.Join(dir, "a.md")])
	assert.Equal(t, "note b", files[filepath.Join(dir, "sub", "b.txt")])
}

func TestGlobNoMatches(t *testing.T) {
	_, err := Glob(filepath.Join(t.TempDir(), "*.md"))
	assert.Error(t, err)
}

func TestFromPDFMissingFile(t *testing.T) {
	_, err := FromPDF(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}
