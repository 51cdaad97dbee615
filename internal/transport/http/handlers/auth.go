package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skabera/TaskManagementSystem/internal/transport/http/middleware"
	"github.com/skabera/TaskManagementSystem/internal/usecase"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidOTP         = "Invalid or expired OTP"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds authentication routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/verify-otp", h.verifyOTP)
	r.POST("/refresh", h.refresh)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	reqCtx := middleware.GetRequestContext(c)

	_, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IP:        reqCtx.IP,
		UserAgent: reqCtx.UserAgent,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "Email is already registered"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Registration successful. Check your email for the verification code.",
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, msgInvalidCredentials))
		return
	}

	reqCtx := middleware.GetRequestContext(c)

	result, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        reqCtx.IP,
		UserAgent: reqCtx.UserAgent,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: msgInvalidCredentials},
			{Err: usecase.ErrInactiveAccount, Status: http.StatusForbidden, Message: "Account is not active"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	if result.ChallengeRequired {
		c.JSON(http.StatusOK, MessageResponse{
			Success: true,
			Message: "OTP sent to your email. Verify it to complete the login.",
		})
		return
	}

	c.JSON(http.StatusOK, AuthTokenResponse{
		Success:      true,
		Message:      "Login successful",
		Token:        result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		Expiration:   result.Tokens.ExpiresAt,
	})
}

func (h *AuthHandler) verifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, msgInvalidOTP))
		return
	}

	reqCtx := middleware.GetRequestContext(c)

	result, err := h.auth.VerifyOTP(c.Request.Context(), usecase.VerifyOTPInput{
		Email:     req.Email,
		Code:      req.Code,
		IP:        reqCtx.IP,
		UserAgent: reqCtx.UserAgent,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOTP, Status: http.StatusUnauthorized, Message: msgInvalidOTP},
			{Err: usecase.ErrInactiveAccount, Status: http.StatusForbidden, Message: "Account is not active"},
		}, http.StatusInternalServerError, "verification failed")
		return
	}

	c.JSON(http.StatusOK, AuthTokenResponse{
		Success:      true,
		Message:      "Login successful",
		Token:        result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		Expiration:   result.Tokens.ExpiresAt,
	})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "Invalid refresh token"))
		return
	}

	reqCtx := middleware.GetRequestContext(c)

	result, err := h.auth.Refresh(c.Request.Context(), usecase.RefreshInput{
		RefreshToken: req.RefreshToken,
		IP:           reqCtx.IP,
		UserAgent:    reqCtx.UserAgent,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidRefreshToken, Status: http.StatusUnauthorized, Message: "Invalid refresh token"},
			{Err: usecase.ErrExpiredRefreshToken, Status: http.StatusUnauthorized, Message: "Refresh token expired"},
			{Err: usecase.ErrInactiveAccount, Status: http.StatusForbidden, Message: "Account is not active"},
		}, http.StatusInternalServerError, "token refresh failed")
		return
	}

	c.JSON(http.StatusOK, AuthTokenResponse{
		Success:      true,
		Message:      "Token refreshed",
		Token:        result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		Expiration:   result.Tokens.ExpiresAt,
	})
}
