package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuditLogger records login and logout outcomes.
type AuditLogger interface {
	LogAuth(userID uint, action, description string, opErr error)
}

// Handlers exposes the authentication HTTP endpoints.
type Handlers struct {
	service        *Service
	sessionManager *SessionManager
	audit          AuditLogger
}

// NewHandlers creates authentication handlers. The audit logger may be nil.
func NewHandlers(service *Service, sessionManager *SessionManager, audit AuditLogger) *Handlers {
	return &Handlers{
		service:        service,
		sessionManager: sessionManager,
		audit:          audit,
	}
}

// RegisterRoutes attaches the auth endpoints to the router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)
	router.GET("/api/auth/me", h.Me)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and opens a session.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		// Same message for a bad password and an unknown user
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidPassword) {
			h.logAuth(0, "auth.login", "failed login for "+req.Username, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if err := h.sessionManager.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	h.logAuth(user.ID, "auth.login", "user "+user.Username+" logged in", nil)
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout destroys the current session.
func (h *Handlers) Logout(c *gin.Context) {
	userID := h.sessionManager.GetUserID(c.Request)
	username := h.sessionManager.GetUsername(c.Request)

	if err := h.sessionManager.DestroySession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to destroy session"})
		return
	}

	if userID != 0 {
		h.logAuth(userID, "auth.logout", "user "+username+" logged out", nil)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the authenticated user's identity.
func (h *Handlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":       GetUserID(c),
		"username": GetUsername(c),
		"role":     GetUserRole(c),
	})
}

func (h *Handlers) logAuth(userID uint, action, description string, opErr error) {
	if h.audit == nil {
		return
	}
	h.audit.LogAuth(userID, action, description, opErr)
}
