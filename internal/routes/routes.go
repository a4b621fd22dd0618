package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medyosystem/medyo-golang/internal/handlers"
	"github.com/medyosystem/medyo-golang/internal/middleware"
)

// CORSMiddleware tells the browser the configured frontend origin may
// call us, including with the Authorization header for bearer tokens.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()

	// CORS must run before everything else.
	router.Use(CORSMiddleware(h.Cfg.CORSOrigin))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// --- Auth Routes (Public) ---
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
		}

		// --- Inventory Routes (Login Required) ---
		inventory := api.Group("/inventory")
		inventory.Use(middleware.Auth([]byte(h.Cfg.JWTSecret)))
		{
			inventory.GET("", h.ListInventoryItems)
			inventory.POST("", h.CreateInventoryItem)
			inventory.GET("/summary", h.GetInventorySummary)
			inventory.GET("/:id", h.GetInventoryItem)
			inventory.PUT("/:id", h.UpdateInventoryItem)
			inventory.DELETE("/:id", h.DeleteInventoryItem)

			categories := inventory.Group("/categories")
			{
				categories.GET("", h.GetCategories)
				categories.POST("", h.CreateCategory)
				categories.PUT("/:name", h.RenameCategory)
				categories.DELETE("/:name", h.DeleteCategory)
			}
		}
	}

	return router
}
