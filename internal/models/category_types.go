package models

import "time"

// Reserved category names.
// "Uncategorized" is the default bucket: it always exists and can never
// be renamed or deleted. "All" is a filter sentinel the UI sends to mean
// "no category filter" and is never a real category.
const (
	CategoryUncategorized = "Uncategorized"
	CategoryAll           = "All"
)

// Category defines the struct for the 'categories' table.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsReservedCategory reports whether name is one of the sentinels.
func IsReservedCategory(name string) bool {
	return name == CategoryUncategorized || name == CategoryAll
}
