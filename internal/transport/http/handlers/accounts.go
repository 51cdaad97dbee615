package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skabera/TaskManagementSystem/internal/core/port"
	"github.com/skabera/TaskManagementSystem/internal/transport/http/middleware"
	"github.com/skabera/TaskManagementSystem/internal/usecase"
)

// AccountHandler exposes account management endpoints.
type AccountHandler struct {
	accounts *usecase.AccountService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(accounts *usecase.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes binds account routes onto an authenticated group.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	r.GET("/users", h.list)
	r.GET("/users/:id", h.get)
	r.POST("/users", adminOnly, h.create)
	r.PUT("/users/:id", h.update)
}

func (h *AccountHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.accounts.List(c.Request.Context(), port.AccountFilter{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list accounts"))
		return
	}

	out := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, newAccountSummary(account, nil))
	}

	c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) get(c *gin.Context) {
	account, err := h.accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "Account not found"},
		}, http.StatusInternalServerError, "failed to load account")
		return
	}

	roles, err := h.accounts.RolesFor(c.Request.Context(), account.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load account roles"))
		return
	}

	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}

	c.JSON(http.StatusOK, newAccountSummary(*account, names))
}

func (h *AccountHandler) create(c *gin.Context) {
	var req AdminCreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid account payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)

	account, err := h.accounts.AdminCreate(c.Request.Context(), usecase.AdminCreateInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ActorID:   actorID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "Email is already registered"},
		}, http.StatusInternalServerError, "failed to create account")
		return
	}

	c.JSON(http.StatusCreated, newAccountSummary(account, nil))
}

func (h *AccountHandler) update(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid account payload"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedAccountID(c)
	id := c.Param("id")

	account, err := h.accounts.Update(c.Request.Context(), usecase.UpdateInput{
		ID:               id,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		TwoFactorEnabled: req.TwoFactorEnabled,
		IsActive:         req.IsActive,
		ActorID:          actorID,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "Account not found"},
		}, http.StatusInternalServerError, "failed to update account")
		return
	}

	if req.Password != nil {
		if err := h.accounts.ResetPassword(c.Request.Context(), id, *req.Password, actorID); err != nil {
			RespondWithMappedError(c, err, []ErrorCase{
				{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "Account not found"},
			}, http.StatusInternalServerError, "failed to reset password")
			return
		}
	}

	c.JSON(http.StatusOK, newAccountSummary(account, nil))
}
