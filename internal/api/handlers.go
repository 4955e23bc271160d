package api

import (
	"context"
	"net/http"
	"time"

	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/catalog"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/session"
	"github.com/gin-gonic/gin"
)

// Handler holds the catalog repository and mounted pages and provides HTTP handlers
type Handler struct {
	repo        *catalog.Repository
	pages       *session.Registry
	pageOptions []catalog.PageOption
}

// NewHandler creates a new handler instance
func NewHandler(repo *catalog.Repository, pages *session.Registry, opts ...catalog.PageOption) *Handler {
	return &Handler{repo: repo, pages: pages, pageOptions: opts}
}

// selectorRequest is the body of the selector endpoints
type selectorRequest struct {
	Value string `json:"value"`
}

// =================================================================================
// ONE-SHOT CATALOG READS
// =================================================================================

// GetProducts handles GET /products. Every request is its own page mount.
func (h *Handler) GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	sortOption, err := catalog.ParseSortOption(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := catalog.NewPage(h.repo, catalog.NewSearchTerm(), h.pageOptions...)

	// Apply selectors in the order a user would, then the search term,
	// since narrowing a selector clears the search.
	selection := page.Selection()
	if category := c.Query("category"); category != "" {
		selection.SelectCategory(category)
	}
	if subcategory := c.Query("subcategory"); subcategory != "" {
		selection.SelectSubcategory(subcategory)
	}
	selection.SetSort(sortOption)
	page.Header().Search(c.Query("search"))

	if err := page.MountAndWait(ctx); err != nil {
		logging.LogKV("error", "Error fetching products", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusBadGateway, gin.H{"error": catalog.MessageLoadFailed})
		return
	}

	c.JSON(http.StatusOK, page.View())
}

// GetCategories handles GET /categories
func (h *Handler) GetCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, err := h.repo.Load(ctx)
	if err != nil {
		logging.LogKV("error", "Error fetching products", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusBadGateway, gin.H{"error": catalog.MessageLoadFailed})
		return
	}

	c.JSON(http.StatusOK, catalog.Categories(products))
}

// =================================================================================
// PAGE SESSIONS
// =================================================================================

// CreatePage handles POST /pages. With ?wait=true it answers after the fetch resolves.
func (h *Handler) CreatePage(c *gin.Context) {
	id, page := h.pages.Mount(c.Request.Context())

	if c.Query("wait") == "true" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()
		// Load failures are reported through the view status
		_ = page.Wait(ctx)
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "view": page.View()})
}

// GetPage handles GET /pages/:id
func (h *Handler) GetPage(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page.View())
}

// GetPageCategories handles GET /pages/:id/categories
func (h *Handler) GetPageCategories(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page.Categories())
}

// SelectCategory handles PUT /pages/:id/category
func (h *Handler) SelectCategory(c *gin.Context) {
	page, req, ok := h.pageWithSelector(c)
	if !ok {
		return
	}
	page.Selection().SelectCategory(req.Value)
	c.JSON(http.StatusOK, page.View())
}

// SelectSubcategory handles PUT /pages/:id/subcategory
func (h *Handler) SelectSubcategory(c *gin.Context) {
	page, req, ok := h.pageWithSelector(c)
	if !ok {
		return
	}
	page.Selection().SelectSubcategory(req.Value)
	c.JSON(http.StatusOK, page.View())
}

// SetSort handles PUT /pages/:id/sort
func (h *Handler) SetSort(c *gin.Context) {
	page, req, ok := h.pageWithSelector(c)
	if !ok {
		return
	}
	option, err := catalog.ParseSortOption(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page.Selection().SetSort(option)
	c.JSON(http.StatusOK, page.View())
}

// SetSearch handles PUT /pages/:id/search
func (h *Handler) SetSearch(c *gin.Context) {
	page, req, ok := h.pageWithSelector(c)
	if !ok {
		return
	}
	page.Header().Search(req.Value)
	c.JSON(http.StatusOK, page.View())
}

// ResetFilters handles POST /pages/:id/reset
func (h *Handler) ResetFilters(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	page.Header().Reset()
	c.JSON(http.StatusOK, page.View())
}

// DeletePage handles DELETE /pages/:id
func (h *Handler) DeletePage(c *gin.Context) {
	if !h.pages.Unmount(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Health handles GET /health and /ready
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "Catalog source unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "storefront-service",
	})
}

// Helper functions

func (h *Handler) page(c *gin.Context) (*catalog.Page, bool) {
	page, ok := h.pages.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return nil, false
	}
	return page, true
}

func (h *Handler) pageWithSelector(c *gin.Context) (*catalog.Page, selectorRequest, bool) {
	var req selectorRequest
	page, ok := h.page(c)
	if !ok {
		return nil, req, false
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return nil, req, false
	}
	return page, req, true
}
