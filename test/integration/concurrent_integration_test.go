//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postQuote posts a quote without test assertions so it is safe to call from
// worker goroutines.
func postQuote(baseURL, text, author string) (int, error) {
	raw, err := json.Marshal(map[string]any{"text": text, "author": author})
	if err != nil {
		return 0, err
	}

	resp, err := http.Post(baseURL+"/api/v1/quotes", "application/json", bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// TestConcurrent_Reads verifies that concurrent read requests are handled
// correctly. SQLite in WAL mode serves readers without blocking.
func TestConcurrent_Reads(t *testing.T) {
	server := newAPIServer(t)

	for i := 0; i < 10; i++ {
		createQuote(t, server.URL,
			fmt.Sprintf("A concurrency-friendly quote number %d for reading", i),
			"Reader Author")
	}

	const (
		workers  = 10
		requests = 20
	)

	var (
		wg       sync.WaitGroup
		failures int32
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < requests; r++ {
				resp, err := http.Get(server.URL + "/api/v1/quotes/random")
				if err != nil {
					atomic.AddInt32(&failures, 1)
					continue
				}
				if resp.StatusCode != http.StatusOK {
					atomic.AddInt32(&failures, 1)
				}
				resp.Body.Close()
			}
		}()
	}

	wg.Wait()
	assert.Zero(t, atomic.LoadInt32(&failures), "all concurrent reads should succeed")
}

// TestConcurrent_Writes verifies that concurrent creates all land despite the
// single-writer constraint; the busy timeout absorbs write contention.
func TestConcurrent_Writes(t *testing.T) {
	server := newAPIServer(t)

	const writers = 8

	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			status, err := postQuote(server.URL,
				fmt.Sprintf("A distinct concurrent insight number %d worth keeping", n),
				fmt.Sprintf("Writer %d", n))
			if err != nil {
				errs <- fmt.Errorf("writer %d: %w", n, err)
				return
			}
			if status != http.StatusCreated {
				errs <- fmt.Errorf("writer %d got status %d", n, status)
			}
		}(w)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	// All writes should be visible
	status, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/quotes?limit=100", nil)
	require.Equal(t, http.StatusOK, status)

	quotes := body["data"].(map[string]any)["quotes"].([]any)
	assert.Len(t, quotes, writers)
}

// TestConcurrent_MixedReadWrite interleaves creates with searches to catch
// races between the write path and the query path.
func TestConcurrent_MixedReadWrite(t *testing.T) {
	server := newAPIServer(t)

	createQuote(t, server.URL, "A seeded baseline quote for mixed workloads", "Seed Author")

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			_, _ = postQuote(server.URL,
				fmt.Sprintf("A mixed workload quote number %d under write load", i),
				"Mixed Author")
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			resp, err := http.Get(server.URL + "/api/v1/quotes/search?q=workload")
			if err == nil {
				resp.Body.Close()
			}
		}
	}()

	wg.Wait()

	status, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/quotes/search?q=workload", nil)
	require.Equal(t, http.StatusOK, status)

	quotes := body["data"].(map[string]any)["quotes"].([]any)
	assert.Len(t, quotes, 10)
}
