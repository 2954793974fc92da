package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/annavdbeek/plantportal/internal/models"
	"github.com/annavdbeek/plantportal/internal/services"
	"github.com/annavdbeek/plantportal/pkg/response"
)

// PermissionHandler exposes grant resolution.
type PermissionHandler struct {
	permissions *services.PermissionService
}

func NewPermissionHandler(permissions *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

type resolvePermissionsRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/permissions
func (h *PermissionHandler) Resolve(c *gin.Context) {
	var req resolvePermissionsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	perms, err := h.permissions.ResolvePermissions(requestContext(c), strings.TrimSpace(req.Email))
	if err != nil {
		response.Error(c, err)
		return
	}
	if perms == nil {
		perms = []models.ResolvedPermission{}
	}

	response.OK(c, http.StatusOK, gin.H{"permissions": perms})
}
