package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invtrack/invtrack/internal/auth"
	"github.com/invtrack/invtrack/internal/domain"
	"github.com/invtrack/invtrack/pkg/metrics"
)

// AuthHandler holds dependencies
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.GET("/github", h.LoginWithGitHub)
}

// LoginWithGitHub exchanges a GitHub authorization code for a session token.
func (h *AuthHandler) LoginWithGitHub(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter is required"})
		return
	}

	authorized, err := h.svc.Login(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			metrics.LoginAttempts.WithLabelValues("invalid_code").Inc()
		} else {
			metrics.LoginAttempts.WithLabelValues("error").Inc()
		}
		writeError(c, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, authorized)
}
