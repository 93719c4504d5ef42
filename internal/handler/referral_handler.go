package handler

import (
	"net/http"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/pagination"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralService service.ReferralService
}

func NewReferralHandler(referralService service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

func (h *ReferralHandler) RegisterRoutes(router *gin.RouterGroup) {
	referrals := router.Group("/api/referrals")
	referrals.Use(middleware.RequireAuth())
	{
		referrals.GET("/me", h.GetInfo)
		referrals.GET("/history", h.GetHistory)
		referrals.POST("/apply", h.ApplyCode)
	}
}

// GetInfo returns the user's referral code and earnings summary
// @Summary      Get referral info
// @Tags         referrals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ReferralInfoResponse}
// @Router       /api/referrals/me [get]
func (h *ReferralHandler) GetInfo(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	info, err := h.referralService.GetInfo(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, info))
}

// GetHistory returns the referrals the user has made
// @Summary      Get referral history
// @Tags         referrals
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=service.ReferralHistoryResponse}
// @Router       /api/referrals/history [get]
func (h *ReferralHandler) GetHistory(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	params := pagination.Parse(c)

	history, err := h.referralService.GetHistory(c.Request.Context(), userID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, history, params.Meta(history.Total)))
}

// ApplyCode records another user's referral code against this account
// @Summary      Apply a referral code
// @Tags         referrals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.ApplyReferralRequest  true  "Referral code"
// @Success      200   {object}  response.Response{data=service.ApplyReferralResponse}
// @Router       /api/referrals/apply [post]
func (h *ReferralHandler) ApplyCode(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.ApplyReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.referralService.ApplyCode(c.Request.Context(), userID, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
