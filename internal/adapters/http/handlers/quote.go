package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotevault/quotevault/internal/adapters/http/dto"
	"github.com/quotevault/quotevault/internal/app"
	"github.com/quotevault/quotevault/internal/domain"
	"github.com/quotevault/quotevault/internal/ports"
)

// QuoteHandler exposes the quote endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// List handles GET /api/v1/quotes.
// Optional category and author query parameters narrow the listing; otherwise
// the full catalog is paged with limit/offset.
func (h *QuoteHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		dto.BadRequest(c, "Limit and offset must be integers")
		return
	}

	limit, offset := page.GetLimit(), page.GetOffset()
	ctx := c.Request.Context()

	var (
		quotes []domain.Quote
		err    error
	)

	switch {
	case c.Query("category") != "":
		quotes, err = h.service.ByCategory(ctx, c.Query("category"), limit)
	case c.Query("author") != "":
		quotes, err = h.service.ByAuthor(ctx, c.Query("author"), limit)
	default:
		quotes, err = h.service.List(ctx, limit, offset)
	}
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch quotes")
		return
	}

	total, err := h.service.Count(ctx)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch quotes")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"quotes":     dto.FromQuotes(quotes),
		"pagination": dto.NewPagination(limit, offset, total),
	}))
}

// Random handles GET /api/v1/quotes/random.
// Supports category, a comma-separated exclude list, and count for a batch of
// distinct random quotes.
func (h *QuoteHandler) Random(c *gin.Context) {
	category := c.Query("category")
	excludeIDs := parseIDList(c.Query("exclude"))

	count, ok := intQuery(c, "count", 1, 1, 10, "Count must be between 1 and 10")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if count > 1 {
		quotes, err := h.service.MultipleRandom(ctx, count, category, excludeIDs)
		if err != nil {
			dto.HandleError(c, err, "Failed to fetch random quote")
			return
		}
		if len(quotes) == 0 {
			dto.NotFound(c, "No quotes found")
			return
		}

		c.JSON(http.StatusOK, dto.OK(gin.H{"quotes": dto.FromQuotes(quotes)}))

		return
	}

	quote, err := h.service.Random(ctx, category, excludeIDs)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch random quote")
		return
	}
	if quote == nil {
		dto.NotFound(c, "No quotes found")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"quote": dto.FromQuote(quote)}))
}

// Daily handles GET /api/v1/quotes/daily.
func (h *QuoteHandler) Daily(c *gin.Context) {
	quote, err := h.service.Daily(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch daily quote")
		return
	}
	if quote == nil {
		dto.NotFound(c, "No daily quote available")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"quote": dto.FromQuote(quote)}))
}

// Search handles GET /api/v1/quotes/search.
func (h *QuoteHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" || len(term) > 100 {
		dto.BadRequest(c, "Search query must be between 1 and 100 characters")
		return
	}

	limit, ok := intQuery(c, "limit", 20, 1, 50, "Limit must be between 1 and 50")
	if !ok {
		return
	}

	quotes, err := h.service.Search(c.Request.Context(), term, limit)
	if err != nil {
		dto.HandleError(c, err, "Failed to search quotes")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"quotes":     dto.FromQuotes(quotes),
		"searchTerm": term,
		"count":      len(quotes),
	}))
}

// AdvancedSearch handles GET /api/v1/quotes/advanced-search.
// Filters combine conjunctively; a request with no filters at all is
// rejected rather than returning the whole catalog.
func (h *QuoteHandler) AdvancedSearch(c *gin.Context) {
	filters := ports.SearchFilters{
		Term:     c.Query("searchTerm"),
		Category: c.Query("category"),
		Author:   c.Query("author"),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
	}

	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}

	if filters.Empty() {
		dto.BadRequest(c, "At least one search filter is required")
		return
	}

	for _, date := range []string{filters.DateFrom, filters.DateTo} {
		if date != "" && !validDate(date) {
			dto.BadRequest(c, "Dates must be in YYYY-MM-DD format")
			return
		}
	}

	limit, ok := intQuery(c, "limit", 20, 1, 100, "Limit must be between 1 and 100")
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset", 0, 0, 1<<30, "Offset must be non-negative")
	if !ok {
		return
	}

	quotes, err := h.service.AdvancedSearch(c.Request.Context(), filters, limit, offset)
	if err != nil {
		dto.HandleError(c, err, "Failed to perform advanced search")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"quotes": dto.FromQuotes(quotes),
		"count":  len(quotes),
		"limit":  limit,
		"offset": offset,
	}))
}

// Suggestions handles GET /api/v1/quotes/suggestions.
func (h *QuoteHandler) Suggestions(c *gin.Context) {
	term := c.Query("q")
	if term == "" || len(term) > 50 {
		dto.BadRequest(c, "Search query must be between 1 and 50 characters")
		return
	}

	limit, ok := intQuery(c, "limit", 10, 1, 20, "Limit must be between 1 and 20")
	if !ok {
		return
	}

	suggestions, err := h.service.Suggestions(c.Request.Context(), term, limit)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch search suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []ports.Suggestion{}
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"suggestions": suggestions,
		"searchTerm":  term,
	}))
}

// PopularTerms handles GET /api/v1/quotes/popular-terms.
func (h *QuoteHandler) PopularTerms(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 10, 1, 50, "Limit must be between 1 and 50")
	if !ok {
		return
	}

	terms, err := h.service.PopularTerms(c.Request.Context(), limit)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch popular search terms")
		return
	}
	if terms == nil {
		terms = []ports.TermCount{}
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"popularTerms": terms}))
}

// Categories handles GET /api/v1/quotes/categories.
func (h *QuoteHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"categories": categories}))
}

// Authors handles GET /api/v1/quotes/authors.
func (h *QuoteHandler) Authors(c *gin.Context) {
	authors, err := h.service.Authors(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch authors")
		return
	}
	if authors == nil {
		authors = []string{}
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"authors": authors}))
}

// VerificationStats handles GET /api/v1/quotes/stats/verification.
func (h *QuoteHandler) VerificationStats(c *gin.Context) {
	stats, err := h.service.VerificationStats(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch verification stats")
		return
	}
	if stats == nil {
		stats = []ports.StatusStat{}
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"stats": stats}))
}

// SourceTypeStats handles GET /api/v1/quotes/stats/source-types.
func (h *QuoteHandler) SourceTypeStats(c *gin.Context) {
	stats, err := h.service.SourceTypeStats(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch source type stats")
		return
	}
	if stats == nil {
		stats = []ports.SourceTypeStat{}
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"stats": stats}))
}

// similarRequest is the payload for the near-duplicate scan.
type similarRequest struct {
	Text      string  `json:"text"`
	Threshold float64 `json:"threshold"`
}

// Similar handles POST /api/v1/quotes/similar.
// Returns quotes whose text clears the similarity threshold against the
// submitted text.
func (h *QuoteHandler) Similar(c *gin.Context) {
	var req similarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "Invalid JSON payload")
		return
	}
	if req.Text == "" {
		dto.BadRequest(c, "Quote text is required")
		return
	}

	quotes, err := h.service.FindSimilar(c.Request.Context(), req.Text, req.Threshold)
	if err != nil {
		dto.HandleError(c, err, "Failed to find similar quotes")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"quotes": dto.FromQuotes(quotes),
		"count":  len(quotes),
	}))
}

// GetByID handles GET /api/v1/quotes/:id.
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	quote, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch quote")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"quote": dto.FromQuote(quote)}))
}

// Create handles POST /api/v1/quotes.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "Invalid JSON payload")
		return
	}

	quote, err := h.service.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err, "Failed to create quote")
		return
	}

	c.JSON(http.StatusCreated, dto.OKMessage("Quote created successfully",
		gin.H{"quote": dto.FromQuote(quote)}))
}

// Update handles PUT /api/v1/quotes/:id.
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "Invalid JSON payload")
		return
	}

	quote, err := h.service.Update(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		dto.HandleError(c, err, "Failed to update quote")
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Quote updated successfully",
		gin.H{"quote": dto.FromQuote(quote)}))
}

// Delete handles DELETE /api/v1/quotes/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err, "Failed to delete quote")
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Quote deleted successfully", nil))
}

// RegisterRoutes registers the quote routes on the given router group.
// Static paths are registered before the :id parameter route so gin resolves
// them first.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.GET("/random", h.Random)
	quotes.GET("/daily", h.Daily)
	quotes.GET("/search", h.Search)
	quotes.GET("/advanced-search", h.AdvancedSearch)
	quotes.GET("/suggestions", h.Suggestions)
	quotes.GET("/popular-terms", h.PopularTerms)
	quotes.GET("/categories", h.Categories)
	quotes.GET("/authors", h.Authors)
	quotes.GET("/stats/verification", h.VerificationStats)
	quotes.GET("/stats/source-types", h.SourceTypeStats)
	quotes.POST("/similar", h.Similar)
	quotes.GET("/:id", h.GetByID)
	quotes.POST("", h.Create)
	quotes.PUT("/:id", h.Update)
	quotes.DELETE("/:id", h.Delete)
}

// pathID parses the :id path parameter, writing a 400 envelope on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		dto.BadRequest(c, "ID must be a positive integer")
		return 0, false
	}

	return id, true
}

// intQuery parses an optional integer query parameter with range validation,
// writing a 400 envelope when the value is malformed or out of range.
func intQuery(c *gin.Context, name string, def, min, max int, message string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		dto.BadRequest(c, message)
		return 0, false
	}

	return v, true
}

// parseIDList parses a comma-separated id list, silently dropping entries
// that are not integers.
func parseIDList(raw string) []int64 {
	if raw == "" {
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	return ids
}

func validDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}
