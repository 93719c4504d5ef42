package handler

import (
	"net/http"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
	}
}

// Register creates a new account and issues the first token pair
// @Summary      Register a new account
// @Description  Creates a user, assigns a referral code and returns access/refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.RegisterRequest  true  "Registration payload"
// @Success      201   {object}  response.Response{data=service.AuthResponse}
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, result.Token.AccessToken, result.Token.RefreshToken)
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// Login authenticates an account
// @Summary      Log in
// @Description  Verifies credentials, advances the daily streak and returns tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.LoginRequest  true  "Login payload"
// @Success      200   {object}  response.Response{data=service.AuthResponse}
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, result.Token.AccessToken, result.Token.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Refresh rotates a refresh token for a new token pair
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.RefreshRequest  true  "Refresh payload"
// @Success      200   {object}  response.Response{data=service.TokenResponse}
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	// Cookie first, body as fallback for non-browser clients
	refreshToken, _ := c.Cookie("refresh_token")
	if refreshToken == "" {
		var req service.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Refresh token is missing"))
			return
		}
		refreshToken = req.RefreshToken
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Logout revokes the refresh token and clears auth cookies
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie("refresh_token")
	if refreshToken == "" {
		var req service.RefreshRequest
		// Body is optional on logout; ignore bind errors
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}

	if refreshToken != "" {
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			respondError(c, err)
			return
		}
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out"}))
}
