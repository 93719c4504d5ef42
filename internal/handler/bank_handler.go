package handler

import (
	"net/http"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/apperr"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BankHandler struct {
	bankService service.BankService
}

func NewBankHandler(bankService service.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

func (h *BankHandler) RegisterRoutes(router *gin.RouterGroup) {
	banks := router.Group("/api/bank-accounts")
	banks.Use(middleware.RequireAuth())
	{
		banks.GET("", h.ListAccounts)
		banks.POST("", h.LinkAccount)
		banks.POST("/:id/sync", h.SyncAccount)
		banks.DELETE("/:id", h.UnlinkAccount)
	}
}

// ListAccounts returns the user's linked bank accounts with masked numbers
// @Summary      List bank accounts
// @Tags         banks
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.BankAccountListResponse}
// @Router       /api/bank-accounts [get]
func (h *BankHandler) ListAccounts(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	accounts, err := h.bankService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, accounts))
}

// LinkAccount records a bank account connection from the aggregator
// @Summary      Link bank account
// @Tags         banks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.LinkBankAccountRequest  true  "Link payload"
// @Success      201   {object}  response.Response{data=service.BankAccountResponse}
// @Router       /api/bank-accounts [post]
func (h *BankHandler) LinkAccount(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.LinkBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.bankService.LinkAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, account))
}

// SyncAccount pulls fresh data for a linked account
// @Summary      Sync bank account
// @Tags         banks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Bank account ID"
// @Success      200  {object}  response.Response{data=service.BankAccountResponse}
// @Router       /api/bank-accounts/{id}/sync [post]
func (h *BankHandler) SyncAccount(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.BadRequest("invalid account id"))
		return
	}

	account, err := h.bankService.SyncAccount(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// UnlinkAccount removes a linked bank account
// @Summary      Unlink bank account
// @Tags         banks
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Bank account ID"
// @Success      200  {object}  response.Response
// @Router       /api/bank-accounts/{id} [delete]
func (h *BankHandler) UnlinkAccount(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.BadRequest("invalid account id"))
		return
	}

	if err := h.bankService.UnlinkAccount(c.Request.Context(), userID, accountID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Bank account unlinked"}))
}
