package api

import (
	"github.com/gin-gonic/gin"

	"github.com/annavdbeek/plantportal/internal/handlers"
)

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/login", h.Login)
}
