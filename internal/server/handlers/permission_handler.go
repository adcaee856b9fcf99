package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/service/permissions"
)

// PermissionHandler serves the role x feature matrix.
type PermissionHandler struct {
	svc    *permissions.Service
	logger *zap.Logger
}

func NewPermissionHandler(svc *permissions.Service, logger *zap.Logger) *PermissionHandler {
	return &PermissionHandler{svc: svc, logger: nopIfNil(logger)}
}

type permissionRequest struct {
	Role    string `json:"role"`
	Feature string `json:"feature"`
	Allowed *bool  `json:"allowed"`
}

// List returns the stored cells, flat and grouped by role.
func (h *PermissionHandler) List(c *gin.Context) {
	perms, grouped, err := h.svc.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": perms, "groupedPermissions": grouped})
}

// Set upserts one cell.
func (h *PermissionHandler) Set(c *gin.Context) {
	var req permissionRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	perm, err := h.svc.Set(c.Request.Context(), req.Role, req.Feature, req.Allowed)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permission berhasil disimpan", "permission": perm})
}

// Reseed restores the default matrix.
func (h *PermissionHandler) Reseed(c *gin.Context) {
	if err := h.svc.ReseedDefaults(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default permissions berhasil diinisialisasi"})
}
