package api

import (
	"github.com/gin-gonic/gin"

	"github.com/annavdbeek/plantportal/internal/handlers"
)

func registerPermissionRoutes(api *gin.RouterGroup, h *handlers.PermissionHandler) {
	api.POST("/permissions", h.Resolve)
}
