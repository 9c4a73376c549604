package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"investment-portfolio/apperrors"
	"investment-portfolio/auth"
	"investment-portfolio/database"
	"investment-portfolio/middleware"
	"investment-portfolio/models"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *models.User `json:"user,omitempty"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user together with its default portfolio.
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	if len(input.Password) < auth.MinPasswordLength {
		h.respondError(c, apperrors.Validation(fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength), nil))
		return
	}
	ctx := c.Request.Context()
	email := normalizeEmail(input.Email)

	_, err := database.GetUserByEmail(ctx, h.db, email)
	if err == nil {
		h.respondError(c, apperrors.Conflict("Email already registered", nil))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.respondError(c, err)
		return
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		h.respondError(c, apperrors.Internal("Error hashing password", err))
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashed,
		IsActive: true,
	}
	if _, err := database.CreateUserWithPortfolio(ctx, h.db, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.respondError(c, apperrors.Conflict("Email already registered", err))
			return
		}
		h.respondError(c, err)
		return
	}

	h.log.Info().Uint("user_id", user.ID).Msg("user registered")
	c.JSON(http.StatusCreated, user)
}

// Login checks credentials and issues an access token, plus a refresh token
// when sessions are enabled.
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()

	user, err := database.GetUserByEmail(ctx, h.db, normalizeEmail(input.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.respondError(c, apperrors.Authentication("Incorrect email or password", nil))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	ok, err := auth.CheckPassword(user.Password, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok || !user.IsActive {
		h.respondError(c, apperrors.Authentication("Incorrect email or password", nil))
		return
	}

	accessToken, err := h.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		h.respondError(c, apperrors.Internal("Error generating token", err))
		return
	}

	resp := LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokens.AccessTTL().Seconds()),
		User:        user,
	}

	if h.sessions != nil {
		refreshToken, err := h.tokens.IssueRefresh(user.ID, user.Email)
		if err != nil {
			h.respondError(c, apperrors.Internal("Error generating refresh token", err))
			return
		}
		if err := h.sessions.Save(ctx, refreshToken, user.ID, h.tokens.RefreshTTL()); err != nil {
			h.respondError(c, apperrors.Internal("Error storing refresh token", err))
			return
		}
		resp.RefreshToken = refreshToken
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a live refresh token for a new access token.
func (h *Handler) Refresh(c *gin.Context) {
	if h.sessions == nil {
		h.respondError(c, apperrors.Unavailable("Sessions are disabled", nil))
		return
	}

	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()

	claims, err := h.tokens.Parse(input.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		h.respondError(c, apperrors.Authentication("Invalid refresh token", err))
		return
	}

	userID, err := h.sessions.Lookup(ctx, input.RefreshToken)
	if errors.Is(err, auth.ErrSessionNotFound) {
		h.respondError(c, apperrors.Authentication("Invalid refresh token", err))
		return
	}
	if err != nil {
		h.respondError(c, apperrors.Unavailable("Session store unavailable", err))
		return
	}
	if userID != claims.UserID {
		h.respondError(c, apperrors.Authentication("Invalid refresh token", nil))
		return
	}

	user, err := h.lookupUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.respondError(c, apperrors.Authentication("User not found", err))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	accessToken, err := h.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		h.respondError(c, apperrors.Internal("Error generating token", err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(h.tokens.AccessTTL().Seconds()),
	})
}

// Logout revokes a refresh token.
func (h *Handler) Logout(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}

	if h.sessions != nil {
		if err := h.sessions.Revoke(c.Request.Context(), input.RefreshToken); err != nil {
			h.respondError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// DeleteMe deletes the authenticated user and everything it owns.
func (h *Handler) DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := database.DeleteUser(c.Request.Context(), h.db, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.respondError(c, apperrors.NotFound("User not found", err))
			return
		}
		h.respondError(c, err)
		return
	}

	h.log.Info().Uint("user_id", user.ID).Msg("user deleted")
	c.Status(http.StatusNoContent)
}
