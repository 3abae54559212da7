// Package smoke exercises a running catalog service end to end: it
// seeds records over HTTP, walks every route and verifies status codes
// and response shapes.
package smoke

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Run executes the full smoke suite against the configured service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(config.Timeout)

	log.Printf("🚀 Starting smoke run against %s", config.BaseURL)

	if err := waitForHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service never became healthy: %w", err)
	}

	if err := seedAuthors(ctx, client, config, stats); err != nil {
		return err
	}

	checks := []struct {
		name string
		fn   func(context.Context, *HTTPClient, *Config) error
	}{
		{"author lifecycle", checkAuthorLifecycle},
		{"author list pagination", checkAuthorList},
		{"method not allowed", checkMethodNotAllowed},
		{"validation errors", checkValidation},
		{"book conflict on duplicate isbn", checkBookConflict},
		{"publisher restock action", checkPublisherRestock},
		{"echo roundtrip", checkEcho},
		{"change feed", checkChanges},
		{"credential routes", checkCredentials},
	}

	for _, check := range checks {
		stats.ChecksRun++
		if err := check.fn(ctx, client, config); err != nil {
			stats.ChecksFailed++
			log.Printf("❌ %s: %v", check.name, err)
			continue
		}
		if config.Verbose {
			log.Printf("✅ %s", check.name)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report(stats)

	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%d of %d checks failed", stats.ChecksFailed, stats.ChecksRun)
	}
	return nil
}

// waitForHealth polls /healthz until the service answers or the grace
// period runs out.
func waitForHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	deadline := time.Now().Add(HealthCheckDelay)
	for {
		status, _, err := client.Get(ctx, config.BaseURL+"/healthz")
		if err == nil && status == StatusOK {
			return nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return err
			}
			return fmt.Errorf("unexpected health status %d", status)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(HealthPollInterval):
		}
	}
}

// report prints the final statistics.
func report(stats *Stats) {
	passed := stats.ChecksRun - stats.ChecksFailed
	rate := 0.0
	if stats.ChecksRun > 0 {
		rate = float64(passed) / float64(stats.ChecksRun) * PercentageMultiplier
	}
	log.Printf(`📋 Smoke run completed in %s:
   Authors created: %d (failed: %d)
   Checks passed: %d/%d (%.0f%%)
`, stats.Duration, stats.AuthorsCreated, stats.CreateFailed, passed, stats.ChecksRun, rate)
}

func expectStatus(got, want int, what string) error {
	if got != want {
		return fmt.Errorf("%s: expected status %d, got %d", what, want, got)
	}
	return nil
}

func checkAuthorLifecycle(ctx context.Context, client *HTTPClient, config *Config) error {
	status, body, err := client.Post(ctx, config.BaseURL+"/authors", map[string]any{"name": "Smoke Author"})
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusCreated, "create author"); err != nil {
		return err
	}
	created, err := decode(body)
	if err != nil {
		return err
	}
	id, _ := created["id"].(string)
	if id == "" {
		return fmt.Errorf("created author has no id: %v", created)
	}
	detail := config.BaseURL + "/authors/" + id

	status, _, err = client.Get(ctx, detail)
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusOK, "get author"); err != nil {
		return err
	}

	status, body, err = client.Do(ctx, http.MethodPut, detail, map[string]any{"name": "Renamed Author"})
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusOK, "update author"); err != nil {
		return err
	}
	updated, err := decode(body)
	if err != nil {
		return err
	}
	if updated["name"] != "Renamed Author" {
		return fmt.Errorf("update did not apply: %v", updated)
	}

	status, _, err = client.Do(ctx, http.MethodDelete, detail, nil)
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusOK, "delete author"); err != nil {
		return err
	}

	status, _, err = client.Get(ctx, detail)
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusNotFound, "get deleted author")
}

func checkAuthorList(ctx context.Context, client *HTTPClient, config *Config) error {
	status, body, err := client.Get(ctx, config.BaseURL+"/authors?page=1")
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusOK, "list authors"); err != nil {
		return err
	}
	if len(body) == 0 || body[0] != '[' {
		return fmt.Errorf("list did not return a JSON array: %q", string(body))
	}

	status, _, err = client.Get(ctx, config.BaseURL+"/authors?page=banana")
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusBadRequest, "list with bad page")
}

func checkMethodNotAllowed(ctx context.Context, client *HTTPClient, config *Config) error {
	status, body, err := client.Do(ctx, http.MethodDelete, config.BaseURL+"/authors", nil)
	if err != nil {
		return err
	}
	if err := expectStatus(status, http.StatusMethodNotAllowed, "delete collection"); err != nil {
		return err
	}
	m, err := decode(body)
	if err != nil {
		return err
	}
	if m["error"] == "" {
		return fmt.Errorf("405 carried no error body: %v", m)
	}
	return nil
}

func checkValidation(ctx context.Context, client *HTTPClient, config *Config) error {
	status, body, err := client.Post(ctx, config.BaseURL+"/authors", map[string]any{})
	if err != nil {
		return err
	}
	if err := expectStatus(status, http.StatusBadRequest, "create empty author"); err != nil {
		return err
	}
	m, err := decode(body)
	if err != nil {
		return err
	}
	if m["error"] != "validation failed" {
		return fmt.Errorf("unexpected validation body: %v", m)
	}
	if _, ok := m["name"]; !ok {
		return fmt.Errorf("missing field detail in validation body: %v", m)
	}
	return nil
}

func checkBookConflict(ctx context.Context, client *HTTPClient, config *Config) error {
	payload := map[string]any{
		"isbn":      fmt.Sprintf("smoke-%d", time.Now().UnixNano()),
		"title":     "Smoke Book",
		"author_id": "smoke",
	}
	status, _, err := client.Post(ctx, config.BaseURL+"/books", payload)
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusCreated, "create book"); err != nil {
		return err
	}
	status, _, err = client.Post(ctx, config.BaseURL+"/books", payload)
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusConflict, "create duplicate book")
}

func checkPublisherRestock(ctx context.Context, client *HTTPClient, config *Config) error {
	status, body, err := client.Post(ctx, config.BaseURL+"/publishers", map[string]any{"name": "Smoke Press"})
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusCreated, "create publisher"); err != nil {
		return err
	}
	created, err := decode(body)
	if err != nil {
		return err
	}
	id, _ := created["id"].(string)

	status, body, err = client.Post(ctx, config.BaseURL+"/publishers/"+id+"/restock", map[string]any{"amount": 3})
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusOK, "restock publisher"); err != nil {
		return err
	}
	restocked, err := decode(body)
	if err != nil {
		return err
	}
	if stock, _ := restocked["stock"].(float64); stock != 3 {
		return fmt.Errorf("unexpected stock after restock: %v", restocked)
	}

	// Deletes are disabled on publishers.
	status, _, err = client.Do(ctx, http.MethodDelete, config.BaseURL+"/publishers/"+id, nil)
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusMethodNotAllowed, "delete publisher")
}

func checkEcho(ctx context.Context, client *HTTPClient, config *Config) error {
	status, body, err := client.Post(ctx, config.BaseURL+"/echo?probe=1", map[string]any{"hello": "world"})
	if err != nil {
		return err
	}
	if err := expectStatus(status, StatusOK, "echo"); err != nil {
		return err
	}
	m, err := decode(body)
	if err != nil {
		return err
	}
	if m["method"] != "POST" {
		return fmt.Errorf("echo reported wrong method: %v", m["method"])
	}
	raw, ok := m["body"].(string)
	if !ok {
		return fmt.Errorf("echo carried no body: %v", m)
	}
	if _, err := base64.StdEncoding.DecodeString(raw); err != nil {
		return fmt.Errorf("echo body is not base64: %w", err)
	}
	return nil
}

func checkChanges(ctx context.Context, client *HTTPClient, config *Config) error {
	// The seeding phase produced mutations, but journaling is
	// asynchronous, so poll briefly for a non-empty feed.
	deadline := time.Now().Add(5 * time.Second)
	for {
		status, body, err := client.Get(ctx, config.BaseURL+"/changes")
		if err != nil {
			return err
		}
		if err := expectStatus(status, StatusOK, "get change feed"); err != nil {
			return err
		}
		m, err := decode(body)
		if err != nil {
			return err
		}
		if total, _ := m["total"].(float64); total >= 1 {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("change feed stayed empty: %v", m)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(HealthPollInterval):
		}
	}

	status, _, err := client.Get(ctx, config.BaseURL+"/changes?count=banana")
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusBadRequest, "change feed with bad count")
}

func checkCredentials(ctx context.Context, client *HTTPClient, config *Config) error {
	status, _, err := client.Get(ctx, config.BaseURL+"/whoami")
	if err != nil {
		return err
	}
	if err := expectStatus(status, http.StatusUnauthorized, "whoami without credentials"); err != nil {
		return err
	}

	if config.Username == "" {
		// No credentials configured for this run; the challenge above is
		// all we can verify.
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/whoami", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(config.Username, config.Password)
	resp, err := client.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp.StatusCode, StatusOK, "whoami with credentials")
}
