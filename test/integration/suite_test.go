//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// featureContext holds state shared across step definitions within a scenario.
type featureContext struct {
	baseURL      string
	client       *http.Client
	response     *http.Response
	responseBody []byte
}

// newFeatureContext creates a feature context with sensible defaults.
func newFeatureContext() *featureContext {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &featureContext{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// reset clears response state between scenarios.
func (fc *featureContext) reset() {
	if fc.response != nil && fc.response.Body != nil {
		fc.response.Body.Close()
	}
	fc.response = nil
	fc.responseBody = nil
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	fc := newFeatureContext()

	// Reset state before each scenario
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.reset()
		return ctx, nil
	})

	// Clean up after each scenario
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		fc.reset()
		return ctx, nil
	})

	// Register step definitions
	ctx.Step(`^the service is running$`, fc.theServiceIsRunning)
	ctx.Step(`^I request GET "([^"]*)"$`, fc.iRequestGET)
	ctx.Step(`^I post to "([^"]*)" the body:$`, fc.iPostJSON)
	ctx.Step(`^the response status should be (\d+)$`, fc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, fc.theResponseShouldContain)
}

// theServiceIsRunning verifies the service is reachable.
func (fc *featureContext) theServiceIsRunning() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fc.baseURL+"/-/live", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := fc.client.Do(req)
	if err != nil {
		return fmt.Errorf("service is not running at %s: %w", fc.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", resp.StatusCode)
	}

	return nil
}

// iRequestGET makes a GET request to the specified path.
func (fc *featureContext) iRequestGET(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fc.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return fc.do(req)
}

// iPostJSON posts the doc-string body as JSON to the specified path.
func (fc *featureContext) iPostJSON(path string, body *godog.DocString) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fc.baseURL+path, strings.NewReader(body.Content))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return fc.do(req)
}

// do executes the request and captures the response body.
func (fc *featureContext) do(req *http.Request) error {
	resp, err := fc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	fc.response = resp

	fc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// theResponseStatusShouldBe asserts the response status code.
func (fc *featureContext) theResponseStatusShouldBe(expectedCode int) error {
	if fc.response == nil {
		return fmt.Errorf("no response received")
	}

	if fc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, fc.response.StatusCode, string(fc.responseBody))
	}

	return nil
}

// theResponseShouldContain asserts the response body contains the given text.
func (fc *featureContext) theResponseShouldContain(text string) error {
	if fc.responseBody == nil {
		return fmt.Errorf("no response body")
	}

	if !strings.Contains(string(fc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s",
			text, string(fc.responseBody))
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite against a running service.
// Set BASE_URL to point at the instance under test.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
