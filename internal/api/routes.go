package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the storefront endpoints on an API group
func RegisterRoutes(v1 *gin.RouterGroup, handler *Handler) {
	// One-shot reads
	v1.GET("/products", handler.GetProducts)
	v1.GET("/categories", handler.GetCategories)

	// Page sessions
	pages := v1.Group("/pages")
	{
		pages.POST("", handler.CreatePage)
		pages.GET("/:id", handler.GetPage)
		pages.DELETE("/:id", handler.DeletePage)
		pages.GET("/:id/categories", handler.GetPageCategories)
		pages.PUT("/:id/category", handler.SelectCategory)
		pages.PUT("/:id/subcategory", handler.SelectSubcategory)
		pages.PUT("/:id/sort", handler.SetSort)
		pages.PUT("/:id/search", handler.SetSearch)
		pages.POST("/:id/reset", handler.ResetFilters)
	}
}
