package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skabera/TaskManagementSystem/internal/transport/http/middleware"
	"github.com/skabera/TaskManagementSystem/internal/usecase"
)

// RoleHandler exposes role management endpoints. All routes are admin-only.
type RoleHandler struct {
	roles *usecase.RoleService
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(roles *usecase.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// RegisterRoutes binds role routes onto an authenticated group.
func (h *RoleHandler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	r.POST("/roles", adminOnly, h.create)
	r.GET("/roles", h.list)
	r.POST("/users/:id/roles", adminOnly, h.assign)
}

var roleErrorCases = []ErrorCase{
	{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "Role not found"},
	{Err: usecase.ErrRoleExists, Status: http.StatusConflict, Message: "Role already exists"},
	{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "User not found"},
}

func (h *RoleHandler) create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	role, err := h.roles.Create(c.Request.Context(), req.Name, req.Description, actorID)
	if err != nil {
		RespondWithMappedError(c, err, roleErrorCases, http.StatusInternalServerError, "failed to create role")
		return
	}

	c.JSON(http.StatusCreated, newRoleResponse(role))
}

func (h *RoleHandler) list(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, roleErrorCases, http.StatusInternalServerError, "failed to list roles")
		return
	}

	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, newRoleResponse(role))
	}

	c.JSON(http.StatusOK, out)
}

func (h *RoleHandler) assign(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role assignment payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	if err := h.roles.Assign(c.Request.Context(), c.Param("id"), req.Role, actorID); err != nil {
		RespondWithMappedError(c, err, roleErrorCases, http.StatusInternalServerError, "failed to assign role")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Role assigned"})
}
