package handlers

import (
	"context"
	"database/sql"
	"mime/multipart"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/medyosystem/medyo-golang/internal/config"
	"github.com/medyosystem/medyo-golang/internal/validation"
)

// Storage and upload calls are bounded: a slow backend surfaces as an
// error instead of a hung request.
const (
	dbTimeout     = 5 * time.Second
	uploadTimeout = 10 * time.Second
)

// pageSize is the fixed inventory page size.
const pageSize = 20

// AvatarUploader is what the auth handlers need from the avatar store.
type AvatarUploader interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, owner string) (string, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB      *sql.DB
	Cfg     *config.Config
	Avatars AvatarUploader
}

func (h *Handlers) dbContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), dbTimeout)
}

// bindingFieldErrors converts gin/validator binding failures into the
// itemized {field, message} list the API returns for validation errors.
func bindingFieldErrors(err error) []validation.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []validation.FieldError{{Field: "body", Message: "Invalid request body"}}
	}

	out := make([]validation.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = field + " is required"
		case "gte":
			msg = field + " must be greater than or equal to " + fe.Param()
		case "min":
			msg = field + " is too short"
		default:
			msg = field + " is invalid"
		}
		out = append(out, validation.FieldError{Field: field, Message: msg})
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] += 'a' - 'A'
	}
	return string(r)
}
