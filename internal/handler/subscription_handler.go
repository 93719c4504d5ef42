package handler

import (
	"net/http"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	subscriptions := router.Group("/api/subscriptions")
	{
		// Plan catalog is public, the rest requires auth
		subscriptions.GET("/plans", h.GetPlans)

		authed := subscriptions.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("/me", h.GetCurrent)
			authed.POST("/upgrade", h.Upgrade)
			authed.POST("/cancel", h.Cancel)
		}
	}
}

// GetPlans returns the subscription plan catalog
// @Summary      List plans
// @Tags         subscriptions
// @Produce      json
// @Success      200  {object}  response.Response{data=service.SubscriptionPlansResponse}
// @Router       /api/subscriptions/plans [get]
func (h *SubscriptionHandler) GetPlans(c *gin.Context) {
	plans, err := h.subscriptionService.GetPlans(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, plans))
}

// GetCurrent returns the user's active subscription
// @Summary      Get current subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.CurrentSubscriptionResponse}
// @Router       /api/subscriptions/me [get]
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	current, err := h.subscriptionService.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, current))
}

// Upgrade moves the account onto a paid plan
// @Summary      Upgrade subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.UpgradeSubscriptionRequest  true  "Upgrade payload"
// @Success      201   {object}  response.Response{data=service.UpgradeSubscriptionResponse}
// @Router       /api/subscriptions/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.UpgradeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.subscriptionService.Upgrade(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// Cancel ends the paid subscription and reverts the account to free
// @Summary      Cancel subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.CancelSubscriptionResponse}
// @Router       /api/subscriptions/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	result, err := h.subscriptionService.Cancel(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
