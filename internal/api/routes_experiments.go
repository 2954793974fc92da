package api

import (
	"github.com/gin-gonic/gin"

	"github.com/annavdbeek/plantportal/internal/handlers"
)

func registerExperimentRoutes(api *gin.RouterGroup, h *handlers.ExperimentHandler) {
	experiments := api.Group("/experiments")
	{
		experiments.POST("/metadata", h.Metadata)
		experiments.POST("/data", h.Data)
	}
}
