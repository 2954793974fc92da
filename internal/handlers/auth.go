package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/annavdbeek/plantportal/internal/services"
	"github.com/annavdbeek/plantportal/pkg/metrics"
	"github.com/annavdbeek/plantportal/pkg/response"
)

// AuthHandler exposes the login flow.
type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.auth.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	response.OK(c, http.StatusOK, gin.H{"user": user})
}
