package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts pages and the JSON API on router. The router
// must have the gallery templates loaded.
func RegisterRoutes(router gin.IRouter, h *Handlers) {
	router.GET("/health", h.Health)

	// Pages
	router.GET("/", h.Index)
	router.GET("/partials/gallery", h.GalleryPartial)
	router.POST("/products", h.SaveProduct)
	router.POST("/products/clear", h.ClearProducts)
	router.POST("/products/demo", h.AddDemo)
	router.POST("/products/reload", h.ReloadProducts)
	router.POST("/products/:id/delete", h.DeleteProduct)
	router.POST("/theme", h.ToggleTheme)
	router.GET("/contact", h.ContactPage)
	router.POST("/contact", h.SubmitContact)

	// JSON API
	api := router.Group("/api")
	api.GET("/products", h.ListProducts)
	api.POST("/products", h.CreateProduct)
	api.DELETE("/products", h.ClearProductsAPI)
	api.POST("/products/demo", h.AddDemoAPI)
	api.POST("/products/reload", h.ReloadProductsAPI)
	api.GET("/products/:id", h.GetProduct)
	api.PATCH("/products/:id", h.UpdateProduct)
	api.DELETE("/products/:id", h.DeleteProductAPI)
	api.GET("/status", h.Status)
	api.GET("/theme", h.GetTheme)
	api.PUT("/theme", h.SetTheme)
	api.POST("/contact/validate", h.ValidateContact)
}
