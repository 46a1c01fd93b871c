// Package health probes the local services Companion depends on. Both are
// optional at runtime: the app degrades rather than refusing to start, so
// these checks exist for the startup banner and the doctor command.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Status struct {
	Service   string
	BaseURL   string
	Reachable bool
	Models    []string
	Error     string
	Latency   time.Duration
}

// CheckOllama verifies the inference endpoint is up and lists its models.
func CheckOllama(ctx context.Context, baseURL string) Status {
	s := Status{Service: "ollama", BaseURL: baseURL}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		s.Error = err.Error()
		return s
	}

	resp, err := http.DefaultClient.Do(req)
	s.Latency = time.Since(start)
	if err != nil {
		s.Error = fmt.Sprintf("cannot reach %s: %s", baseURL, friendlyError(err))
		return s
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		s.Error = fmt.Sprintf("endpoint returned HTTP %d", resp.StatusCode)
		return s
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Reachable even if the body surprised us.
		s.Reachable = true
		return s
	}

	s.Reachable = true
	for _, m := range result.Models {
		s.Models = append(s.Models, m.Name)
	}
	return s
}

// CheckChroma verifies the vector store heartbeat.
func CheckChroma(ctx context.Context, baseURL string) Status {
	s := Status{Service: "chroma", BaseURL: baseURL}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + "/api/v1/heartbeat"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		s.Error = err.Error()
		return s
	}

	resp, err := http.DefaultClient.Do(req)
	s.Latency = time.Since(start)
	if err != nil {
		s.Error = fmt.Sprintf("cannot reach %s: %s", baseURL, friendlyError(err))
		return s
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		s.Error = fmt.Sprintf("endpoint returned HTTP %d", resp.StatusCode)
		return s
	}
	s.Reachable = true
	return s
}

// CheckModel verifies a specific model is pulled in Ollama.
func CheckModel(ctx context.Context, baseURL, modelName string) error {
	status := CheckOllama(ctx, baseURL)
	if !status.Reachable {
		return fmt.Errorf("ollama not reachable: %s", status.Error)
	}
	if len(status.Models) == 0 {
		return nil // endpoint doesn't list models, skip check
	}
	for _, m := range status.Models {
		if m == modelName || strings.SplitN(m, ":", 2)[0] == modelName {
			return nil
		}
	}
	return fmt.Errorf("model %q not found — available: %s", modelName, strings.Join(status.Models, ", "))
}

func friendlyError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused (is the service running?)"
	}
	if strings.Contains(msg, "no such host") {
		return "host not found (check the URL)"
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "connection timed out (service may be starting up)"
	}
	return msg
}
