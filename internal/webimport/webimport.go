// Package webimport turns external material (web articles, PDFs, local
// markdown files) into note content.
package webimport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-shiori/go-readability"
	"github.com/ledongthuc/pdf"
)

// FromURL fetches a page, strips clutter with readability, and returns
// the article as markdown prefixed with its title and source.
func FromURL(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Companion/1.0)")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}

	var b strings.Builder
	if article.Title != "" {
		fmt.Fprintf(&b, "%s\n\n", article.Title)
	}
	b.WriteString(strings.TrimSpace(markdown))
	fmt.Fprintf(&b, "\n\n(source: %s)", pageURL)
	return b.String(), nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// FromPDF extracts the plain text of a PDF file. Pages that fail to parse
// are skipped rather than failing the whole import.
func FromPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	out := strings.TrimSpace(blankRuns.ReplaceAllString(b.String(), "\n\n"))
	if out == "" {
		return "", fmt.Errorf("pdf %s contains no extractable text", filepath.Base(path))
	}
	return fmt.Sprintf("%s\n\n(source: %s)", out, filepath.Base(path)), nil
}

// Glob expands a doublestar pattern (e.g. docs/**/*.md) and returns the
// content of each matching text file, keyed by path.
func Glob(pattern string) (map[string]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}

	out := make(map[string]string, len(matches))
	for _, path := range matches {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".txt", ".markdown":
		default:
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		out[path] = content
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no importable text files match %q", pattern)
	}
	return out, nil
}
