package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/medyosystem/medyo-golang/internal/models"
)

//
// --- Category Handlers ---
//
// Categories are free-floating labels; items reference them by name.
// Rename and delete must therefore touch the category row AND every
// referencing item inside one transaction, so no reader ever sees an
// item pointing at a name that is gone from the registry.
//

// CategoryInput is the JSON body for create and rename.
type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// GetCategories is the handler for GET /api/inventory/categories.
func (h *Handlers) GetCategories(c *gin.Context) {
	ctx, cancel := h.dbContext(c)
	defer cancel()

	rows, err := h.DB.QueryContext(ctx, "SELECT name FROM categories ORDER BY name ASC")
	if err != nil {
		log.Printf("categories: list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			log.Printf("categories: scan failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
			return
		}
		categories = append(categories, name)
	}
	if err := rows.Err(); err != nil {
		log.Printf("categories: rows failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory is the handler for POST /api/inventory/categories.
// Duplicate detection is case-sensitive: the name column carries a
// binary collation, so "food" and "Food" are distinct labels.
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}
	if models.IsReservedCategory(name) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "'All' and 'Uncategorized' are reserved category names"})
		return
	}

	ctx, cancel := h.dbContext(c)
	defer cancel()

	result, err := h.DB.ExecContext(ctx, "INSERT INTO categories (name, created_at) VALUES (?, ?)", name, time.Now())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category already exists"})
			return
		}
		log.Printf("categories: create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created",
		"category": models.Category{ID: id, Name: name},
	})
}

// RenameCategory is the handler for PUT /api/inventory/categories/:name.
// The category row and every item referencing the old name change in
// the same transaction.
func (h *Handlers) RenameCategory(c *gin.Context) {
	oldName := c.Param("name")
	if models.IsReservedCategory(oldName) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reserved categories cannot be renamed"})
		return
	}

	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}

	newName := strings.TrimSpace(input.Name)
	if newName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}
	if models.IsReservedCategory(newName) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "'All' and 'Uncategorized' are reserved category names"})
		return
	}
	if newName == oldName {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category already exists"})
		return
	}

	ctx, cancel := h.dbContext(c)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("categories: begin tx failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to rename category"})
		return
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "UPDATE categories SET name = ? WHERE name = ?", newName, oldName)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category already exists"})
			return
		}
		log.Printf("categories: rename failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to rename category"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE inventory_items SET category = ?, updated_at = ? WHERE category = ?",
		newName, time.Now(), oldName,
	); err != nil {
		log.Printf("categories: rename propagation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to rename category"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("categories: rename commit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to rename category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category renamed"})
}

// DeleteCategory is the handler for DELETE /api/inventory/categories/:name.
// Items referencing the deleted name fall back to the default bucket in
// the same transaction.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	name := c.Param("name")
	if models.IsReservedCategory(name) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reserved categories cannot be deleted"})
		return
	}

	ctx, cancel := h.dbContext(c)
	defer cancel()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("categories: begin tx failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
		return
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE name = ?", name)
	if err != nil {
		log.Printf("categories: delete failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE inventory_items SET category = ?, updated_at = ? WHERE category = ?",
		models.CategoryUncategorized, time.Now(), name,
	); err != nil {
		log.Printf("categories: delete propagation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("categories: delete commit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
