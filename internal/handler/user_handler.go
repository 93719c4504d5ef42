package handler

import (
	"net/http"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/users")
	users.Use(middleware.RequireAuth())
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.GET("/me/stats", h.GetStats)
		users.DELETE("/me", h.DeleteAccount)
	}
}

// GetProfile returns the authenticated user's profile
// @Summary      Get profile
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Router       /api/users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// UpdateProfile updates the authenticated user's profile fields
// @Summary      Update profile
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.UpdateProfileRequest  true  "Profile fields"
// @Success      200   {object}  response.Response{data=service.UserResponse}
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// GetStats returns the financial dashboard: totals, tax position,
// compliance score and next deadline
// @Summary      Get account stats
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.UserStatsResponse}
// @Router       /api/users/me/stats [get]
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	stats, err := h.userService.GetStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// DeleteAccount soft-deletes the authenticated account
// @Summary      Delete account
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/users/me [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Account deleted"}))
}
