package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/medyosystem/medyo-golang/internal/auth"
	"github.com/medyosystem/medyo-golang/internal/models"
	"github.com/medyosystem/medyo-golang/internal/uploads"
	"github.com/medyosystem/medyo-golang/internal/validation"
)

// mysqlDuplicateEntry is the server error number for a unique-key hit.
const mysqlDuplicateEntry = 1062

// Register is the handler for POST /api/auth/register.
// The request is a multipart form: fullName, email, password and an
// optional 'avatar' image. The avatar is uploaded to the asset host
// BEFORE the user row is written, so a failed upload never leaves a
// half-registered account behind.
func (h *Handlers) Register(c *gin.Context) {
	fullName := c.PostForm("fullName")
	email := c.PostForm("email")
	password := c.PostForm("password")

	// 1. --- Validate (all violations collected, not just the first) ---
	if fieldErrors := validation.ValidateRegistration(fullName, email, password); len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
		return
	}

	email = validation.NormalizeEmail(email)

	// 2. --- Fast duplicate check ---
	// Purely advisory: the unique key on users.email is what actually
	// decides the race between concurrent registrations.
	var existingID int64
	precheckCtx, precheckCancel := h.dbContext(c)
	err := h.DB.QueryRowContext(precheckCtx, "SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	precheckCancel()
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already registered"})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Printf("register: duplicate pre-check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error during registration. Please try again."})
		return
	}

	// 3. --- Optional avatar upload ---
	var avatarURL string
	if fileHeader, ferr := c.FormFile("avatar"); ferr == nil {
		if h.Avatars == nil {
			log.Println("register: avatar supplied but avatar storage is not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload avatar"})
			return
		}

		upCtx, upCancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
		defer upCancel()

		url, uerr := h.Avatars.Upload(upCtx, fileHeader, fullName)
		if uerr != nil {
			if errors.Is(uerr, uploads.ErrTooLarge) || errors.Is(uerr, uploads.ErrUnsupportedFormat) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": uerr.Error()})
				return
			}
			log.Printf("register: avatar upload failed: %v", uerr)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to upload avatar"})
			return
		}
		avatarURL = url
	}

	// 4. --- Hash the password ---
	// The plaintext goes out of scope here and is never logged.
	var pw models.Password
	if err := pw.Set(password); err != nil {
		log.Printf("register: password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error during registration. Please try again."})
		return
	}

	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: pw.Hash,
		AvatarURL:    avatarURL,
		CreatedAt:    time.Now(),
	}

	// 5. --- Persist ---
	// Fresh deadline: the avatar upload and hashing above run on their
	// own clocks, so the insert still gets the full storage budget.
	insertCtx, insertCancel := h.dbContext(c)
	defer insertCancel()
	result, err := h.DB.ExecContext(insertCtx, `
		INSERT INTO users (full_name, email, password_hash, avatar_url, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.FullName, user.Email, user.PasswordHash, user.AvatarURL, user.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is already registered"})
			return
		}
		log.Printf("register: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error during registration. Please try again."})
		return
	}
	user.ID, _ = result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful! Please log in.",
		"user":    user.Public(),
	})
}

// LoginInput is the JSON body for POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token. Unknown email
// and wrong password produce the identical response so the endpoint
// cannot be used to enumerate accounts.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	ctx, cancel := h.dbContext(c)
	defer cancel()

	var user models.User
	err := h.DB.QueryRowContext(ctx, `
		SELECT id, full_name, email, password_hash, avatar_url, created_at
		FROM users
		WHERE email = ?`,
		validation.NormalizeEmail(input.Email),
	).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.AvatarURL, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.invalidCredentials(c)
			return
		}
		log.Printf("login: user lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	pw := models.Password{Hash: user.PasswordHash}
	match, err := pw.Matches(input.Password)
	if err != nil {
		log.Printf("login: password comparison failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	if !match {
		h.invalidCredentials(c)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, []byte(h.Cfg.JWTSecret), h.Cfg.TokenTTL)
	if err != nil {
		log.Printf("login: token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.Public(),
	})
}

// invalidCredentials is the single 401 body for every failed login.
func (h *Handlers) invalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
}
