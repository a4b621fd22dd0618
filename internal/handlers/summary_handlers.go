package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medyosystem/medyo-golang/internal/models"
)

// GetInventorySummary is the handler for GET /api/inventory/summary.
// It feeds the dashboard cards: per-status item counts plus the total
// stock value, computed in one aggregate query with the same quantity
// thresholds the derived status uses.
func (h *Handlers) GetInventorySummary(c *gin.Context) {
	ctx, cancel := h.dbContext(c)
	defer cancel()

	var inStock, lowStock, outOfStock, totalItems int
	var totalValue float64

	err := h.DB.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN quantity > ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity > 0 AND quantity <= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity = 0 THEN 1 ELSE 0 END), 0),
			COUNT(*),
			COALESCE(SUM(quantity * price), 0)
		FROM inventory_items`,
		models.LowStockThreshold, models.LowStockThreshold,
	).Scan(&inStock, &lowStock, &outOfStock, &totalItems, &totalValue)
	if err != nil {
		log.Printf("inventory: summary failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inStock":    inStock,
		"lowStock":   lowStock,
		"outOfStock": outOfStock,
		"totalItems": totalItems,
		"totalValue": totalValue,
	})
}
