package handler

import (
	"net/http"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

type TINHandler struct {
	tinService service.TINService
}

func NewTINHandler(tinService service.TINService) *TINHandler {
	return &TINHandler{tinService: tinService}
}

func (h *TINHandler) RegisterRoutes(router *gin.RouterGroup) {
	tin := router.Group("/api/tin")
	tin.Use(middleware.RequireAuth())
	{
		tin.GET("/status", h.GetStatus)
		tin.POST("/apply", h.Apply)
		tin.POST("/verify", h.Verify)
	}
}

// GetStatus returns the user's TIN state and latest application
// @Summary      Get TIN status
// @Tags         tin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TINStatusResponse}
// @Router       /api/tin/status [get]
func (h *TINHandler) GetStatus(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	status, err := h.tinService.GetStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}

// Apply submits a new TIN application
// @Summary      Apply for a TIN
// @Tags         tin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.TINApplicationRequest  true  "Application payload"
// @Success      201   {object}  response.Response{data=service.TINApplicationResponse}
// @Router       /api/tin/apply [post]
func (h *TINHandler) Apply(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.TINApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	application, err := h.tinService.Apply(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, application))
}

// Verify registers an existing TIN on the account
// @Summary      Verify a TIN
// @Tags         tin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.TINVerifyRequest  true  "TIN payload"
// @Success      200   {object}  response.Response{data=service.TINVerifyResponse}
// @Router       /api/tin/verify [post]
func (h *TINHandler) Verify(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.TINVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.tinService.Verify(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
