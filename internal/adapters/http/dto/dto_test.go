package dto

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotevault/quotevault/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantMessage  string
		wantErrors   []string
		wantFallback bool
	}{
		{
			name: "validation error carries ordered violations",
			err: domain.NewValidationError([]string{
				"Quote text must be at least 10 characters long",
				"Author name must be at least 2 characters long",
			}),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Validation failed",
			wantErrors: []string{
				"Quote text must be at least 10 characters long",
				"Author name must be at least 2 characters long",
			},
		},
		{
			name:        "not found uses the error message",
			err:         domain.NewNotFoundError("quote", 7),
			wantStatus:  http.StatusNotFound,
			wantMessage: "quote with id 7 not found",
		},
		{
			name:        "conflict maps to 409",
			err:         domain.NewConflictError("quote", "already featured today"),
			wantStatus:  http.StatusConflict,
			wantMessage: "quote conflict: already featured today",
		},
		{
			name:         "storage error hides internals behind fallback",
			err:          domain.NewStorageError("list quotes", errors.New("disk I/O error")),
			wantStatus:   http.StatusInternalServerError,
			wantFallback: true,
		},
		{
			name:         "unknown error hides internals behind fallback",
			err:          errors.New("boom"),
			wantStatus:   http.StatusInternalServerError,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err, "Failed to fetch quotes")

			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)

			if tt.wantFallback {
				assert.Equal(t, "Failed to fetch quotes", resp.Message)
				assert.NotContains(t, resp.Message, "disk")
				return
			}

			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Equal(t, tt.wantErrors, resp.Errors)
		})
	}
}

func TestPaginationRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        PaginationRequest
		wantLimit  int
		wantOffset int
	}{
		{"defaults when unset", PaginationRequest{}, DefaultLimit, 0},
		{"explicit values pass through", PaginationRequest{Limit: 5, Offset: 10}, 5, 10},
		{"limit clamped to maximum", PaginationRequest{Limit: 500}, MaxLimit, 0},
		{"negative values normalized", PaginationRequest{Limit: -1, Offset: -3}, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLimit, tt.req.GetLimit())
			assert.Equal(t, tt.wantOffset, tt.req.GetOffset())
		})
	}
}

func TestNewPagination(t *testing.T) {
	t.Run("more pages remain", func(t *testing.T) {
		p := NewPagination(10, 0, 25)

		assert.Equal(t, 25, p.Total)
		assert.True(t, p.HasMore)
	})

	t.Run("last page", func(t *testing.T) {
		p := NewPagination(10, 20, 25)

		assert.False(t, p.HasMore)
	})

	t.Run("exact boundary", func(t *testing.T) {
		p := NewPagination(10, 10, 20)

		assert.False(t, p.HasMore)
	})
}

func TestEnvelopes(t *testing.T) {
	ok := OK(map[string]int{"count": 1})
	assert.True(t, ok.Success)
	assert.Empty(t, ok.Message)

	withMsg := OKMessage("Quote created successfully", nil)
	assert.True(t, withMsg.Success)
	assert.Equal(t, "Quote created successfully", withMsg.Message)

	fail := Fail("No quotes found")
	assert.False(t, fail.Success)
	assert.Equal(t, "No quotes found", fail.Message)
	assert.Empty(t, fail.Errors)
}

func TestQuoteRequestToDomain(t *testing.T) {
	req := QuoteRequest{
		Text:               "The obstacle is the way forward",
		Author:             "Marcus Aurelius",
		Category:           "perseverance",
		VerificationStatus: "verified",
		QualityScore:       8,
	}

	q := req.ToDomain()

	require.NotNil(t, q)
	assert.Equal(t, req.Text, q.Text)
	assert.Equal(t, req.Author, q.Author)
	assert.Equal(t, domain.VerificationStatus("verified"), q.VerificationStatus)
	assert.Equal(t, 8, q.QualityScore)
}
