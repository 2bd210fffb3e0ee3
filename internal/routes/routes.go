package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modavia/modavia-golang/internal/handlers"
	"github.com/modavia/modavia-golang/internal/middleware"
)

// Options carries the router-level configuration.
type Options struct {
	AllowedOrigin string
	AdminToken    string
	UploadDir     string
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(opts.AllowedOrigin))
	router.Use(middleware.MetricsMiddleware())

	// Prometheus scrape endpoint and the local-upload static dir live at
	// the root, outside the versioned API group.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", opts.UploadDir)

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Public Catalog Routes ---
		v1.GET("/products", h.GetProducts)
		v1.GET("/products/search", h.SearchProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/looks", h.GetLooks)

		// --- Newsletter Routes (Public) ---
		v1.POST("/subscribe", h.Subscribe)
		v1.POST("/unsubscribe", h.Unsubscribe)

		// --- Admin Routes (Static Cookie Gate) ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminMiddleware(opts.AdminToken))
		{
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/bulk-discount", h.BulkDiscount)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)
			admin.DELETE("/products", h.BulkDeleteProducts)

			admin.POST("/upload", h.UploadFile)

			admin.GET("/subscribers", h.GetSubscribers)
			admin.POST("/subscribers/send-email", h.SendBulkEmail)

			admin.POST("/looks", h.CreateLook)
			admin.PUT("/looks/:id", h.UpdateLook)
			admin.DELETE("/looks/:id", h.DeleteLook)
		}
	}

	return router
}
