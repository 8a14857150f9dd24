package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotevault/quotevault/internal/adapters/http/dto"
	"github.com/quotevault/quotevault/internal/app"
	"github.com/quotevault/quotevault/internal/domain"
)

// SourceHandler exposes the provenance source endpoints.
type SourceHandler struct {
	service *app.SourceService
}

// NewSourceHandler creates a new source handler.
func NewSourceHandler(service *app.SourceService) *SourceHandler {
	return &SourceHandler{service: service}
}

// List handles GET /api/v1/sources.
// Optional type and minCredibility query parameters narrow the listing.
func (h *SourceHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		dto.BadRequest(c, "Limit and offset must be integers")
		return
	}

	limit, offset := page.GetLimit(), page.GetOffset()
	ctx := c.Request.Context()

	var (
		sources []domain.Source
		err     error
	)

	switch {
	case c.Query("type") != "":
		sources, err = h.service.ByType(ctx, c.Query("type"), limit)
	case c.Query("minCredibility") != "":
		min, ok := intQuery(c, "minCredibility", 0, 1, 10,
			"Minimum credibility must be between 1 and 10")
		if !ok {
			return
		}
		sources, err = h.service.ByMinCredibility(ctx, min, limit)
	default:
		sources, err = h.service.List(ctx, limit, offset)
	}
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch sources")
		return
	}

	total, err := h.service.Count(ctx)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch sources")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"sources":    dto.FromSources(sources),
		"pagination": dto.NewPagination(limit, offset, total),
	}))
}

// Search handles GET /api/v1/sources/search.
func (h *SourceHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" || len(term) > 100 {
		dto.BadRequest(c, "Search query must be between 1 and 100 characters")
		return
	}

	limit, ok := intQuery(c, "limit", 20, 1, 50, "Limit must be between 1 and 50")
	if !ok {
		return
	}

	sources, err := h.service.Search(c.Request.Context(), term, limit)
	if err != nil {
		dto.HandleError(c, err, "Failed to search sources")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"sources":    dto.FromSources(sources),
		"searchTerm": term,
		"count":      len(sources),
	}))
}

// Types handles GET /api/v1/sources/types.
func (h *SourceHandler) Types(c *gin.Context) {
	types, err := h.service.Types(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch source types")
		return
	}
	if types == nil {
		types = []string{}
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"types": types}))
}

// Trusted handles GET /api/v1/sources/trusted, the high-credibility listing.
func (h *SourceHandler) Trusted(c *gin.Context) {
	sources, err := h.service.HighCredibility(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch trusted sources")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"sources": dto.FromSources(sources)}))
}

// GetByID handles GET /api/v1/sources/:id.
func (h *SourceHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	source, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch source")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"source": dto.FromSource(source)}))
}

// Quotes handles GET /api/v1/sources/:id/quotes.
func (h *SourceHandler) Quotes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	limit, ok := intQuery(c, "limit", 20, 1, 100, "Limit must be between 1 and 100")
	if !ok {
		return
	}

	quotes, err := h.service.QuotesBySource(c.Request.Context(), id, limit)
	if err != nil {
		dto.HandleError(c, err, "Failed to fetch quotes for source")
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{
		"quotes": dto.FromQuotes(quotes),
		"count":  len(quotes),
	}))
}

// Create handles POST /api/v1/sources.
func (h *SourceHandler) Create(c *gin.Context) {
	var req dto.SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "Invalid JSON payload")
		return
	}

	source, err := h.service.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err, "Failed to create source")
		return
	}

	c.JSON(http.StatusCreated, dto.OKMessage("Source created successfully",
		gin.H{"source": dto.FromSource(source)}))
}

// Update handles PUT /api/v1/sources/:id.
func (h *SourceHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "Invalid JSON payload")
		return
	}

	source, err := h.service.Update(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		dto.HandleError(c, err, "Failed to update source")
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Source updated successfully",
		gin.H{"source": dto.FromSource(source)}))
}

// Delete handles DELETE /api/v1/sources/:id.
func (h *SourceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err, "Failed to delete source")
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("Source deleted successfully", nil))
}

// RegisterRoutes registers the source routes on the given router group.
func (h *SourceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sources := rg.Group("/sources")
	sources.GET("", h.List)
	sources.GET("/search", h.Search)
	sources.GET("/types", h.Types)
	sources.GET("/trusted", h.Trusted)
	sources.GET("/:id", h.GetByID)
	sources.GET("/:id/quotes", h.Quotes)
	sources.POST("", h.Create)
	sources.PUT("/:id", h.Update)
	sources.DELETE("/:id", h.Delete)
}
