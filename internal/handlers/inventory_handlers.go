package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medyosystem/medyo-golang/internal/models"
	"github.com/medyosystem/medyo-golang/internal/validation"
)

//
// --- Inventory Item Handlers ---
//

// InventoryItemInput defines the JSON for creating an inventory item.
// Quantity and Price are pointers so a legitimate zero still satisfies
// 'required' while an absent field does not.
type InventoryItemInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity" binding:"required,gte=0"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Category    string   `json:"category"`
}

// UpdateInventoryItemInput is the partial-update body for PUT; every
// field is optional and only provided fields are merged.
type UpdateInventoryItemInput struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity" binding:"omitempty,gte=0"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category"`
}

// CreateInventoryItem is the handler for POST /api/inventory.
func (h *Handlers) CreateInventoryItem(c *gin.Context) {
	var input InventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  bindingFieldErrors(err),
		})
		return
	}

	// Category is a soft reference: free text is accepted, a blank
	// value lands in the default bucket. "All" is the filter sentinel
	// and never a real category, so an item carrying it would be
	// unreachable through the category filter.
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = models.CategoryUncategorized
	}
	if category == models.CategoryAll {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  []validation.FieldError{{Field: "category", Message: "'All' is a reserved filter keyword and cannot be used as a category"}},
		})
		return
	}

	now := time.Now()
	item := &models.InventoryItem{
		Name:        input.Name,
		Description: input.Description,
		Quantity:    *input.Quantity,
		Price:       *input.Price,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := h.dbContext(c)
	defer cancel()

	result, err := h.DB.ExecContext(ctx, `
		INSERT INTO inventory_items (name, description, quantity, price, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Quantity, item.Price, item.Category, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		log.Printf("inventory: create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create inventory item"})
		return
	}
	item.ID, _ = result.LastInsertId()
	item.DeriveStatus()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inventory item created",
		"item":    item,
	})
}

// likeEscaper neutralizes LIKE metacharacters so a search for "100%"
// matches that literal substring only. Backslash is the server's
// default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// sortColumns whitelists the sortable fields for ListInventoryItems.
var sortColumns = map[string]string{
	"name":     "name",
	"quantity": "quantity",
	"price":    "price",
}

// ListInventoryItems is the handler for GET /api/inventory.
// Query params: search (case-insensitive substring on name), category
// (exact match, "All" disables the filter), sort (name|quantity|price),
// order (asc|desc) and page (zero-indexed, fixed page size).
func (h *Handlers) ListInventoryItems(c *gin.Context) {
	column, ok := sortColumns[c.DefaultQuery("sort", "name")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sort field"})
		return
	}

	direction := "ASC"
	switch c.DefaultQuery("order", "asc") {
	case "asc":
	case "desc":
		direction = "DESC"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sort order"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page"})
		return
	}

	where := ""
	var args []any
	if search := c.Query("search"); search != "" {
		where = " WHERE LOWER(name) LIKE ?"
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}
	if category := c.Query("category"); category != "" && category != models.CategoryAll {
		if where == "" {
			where = " WHERE category = ?"
		} else {
			where += " AND category = ?"
		}
		args = append(args, category)
	}

	ctx, cancel := h.dbContext(c)
	defer cancel()

	var total int
	if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM inventory_items"+where, args...).Scan(&total); err != nil {
		log.Printf("inventory: count failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}

	// Stable order: the chosen column first, id breaks ties.
	query := `
		SELECT id, name, description, quantity, price, category, created_at, updated_at
		FROM inventory_items` + where +
		" ORDER BY " + column + " " + direction + ", id ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, page*pageSize)

	rows, err := h.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("inventory: list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}
	defer rows.Close()

	items := []*models.InventoryItem{}
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Quantity,
			&item.Price, &item.Category, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			log.Printf("inventory: scan failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
			return
		}
		item.DeriveStatus()
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		log.Printf("inventory: rows failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetInventoryItem is the handler for GET /api/inventory/:id.
func (h *Handlers) GetInventoryItem(c *gin.Context) {
	ctx, cancel := h.dbContext(c)
	defer cancel()

	item, err := h.fetchItem(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
			return
		}
		log.Printf("inventory: get failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateInventoryItem is the handler for PUT /api/inventory/:id.
// Provided fields are merged over the existing record.
func (h *Handlers) UpdateInventoryItem(c *gin.Context) {
	var input UpdateInventoryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  bindingFieldErrors(err),
		})
		return
	}

	ctx, cancel := h.dbContext(c)
	defer cancel()

	item, err := h.fetchItem(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
			return
		}
		log.Printf("inventory: update lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			category = models.CategoryUncategorized
		}
		if category == models.CategoryAll {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Validation failed",
				"errors":  []validation.FieldError{{Field: "category", Message: "'All' is a reserved filter keyword and cannot be used as a category"}},
			})
			return
		}
		item.Category = category
	}
	item.UpdatedAt = time.Now()

	_, err = h.DB.ExecContext(ctx, `
		UPDATE inventory_items
		SET name = ?, description = ?, quantity = ?, price = ?, category = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Description, item.Quantity, item.Price, item.Category, item.UpdatedAt, item.ID,
	)
	if err != nil {
		log.Printf("inventory: update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update item"})
		return
	}
	item.DeriveStatus()

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item updated",
		"item":    item,
	})
}

// DeleteInventoryItem is the handler for DELETE /api/inventory/:id.
// Deletion is permanent; there is no soft delete.
func (h *Handlers) DeleteInventoryItem(c *gin.Context) {
	ctx, cancel := h.dbContext(c)
	defer cancel()

	result, err := h.DB.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = ?", c.Param("id"))
	if err != nil {
		log.Printf("inventory: delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete item"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}

// fetchItem loads a single item by route id, deriving its status.
func (h *Handlers) fetchItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := h.DB.QueryRowContext(ctx, `
		SELECT id, name, description, quantity, price, category, created_at, updated_at
		FROM inventory_items
		WHERE id = ?`, id,
	).Scan(
		&item.ID, &item.Name, &item.Description, &item.Quantity,
		&item.Price, &item.Category, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	item.DeriveStatus()
	return &item, nil
}
