package handler

import (
	"net/http"
	"strconv"
	"time"

	"sabitax/internal/middleware"
	"sabitax/internal/repository"
	"sabitax/internal/service"
	"sabitax/pkg/pagination"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/api/transactions")
	transactions.Use(middleware.RequireAuth())
	{
		transactions.POST("", h.Create)
		transactions.GET("", h.List)
		transactions.GET("/summary", h.Summary)
		transactions.GET("/:id", h.GetByID)
		transactions.PUT("/:id", h.Update)
		transactions.DELETE("/:id", h.Delete)
	}
}

// Create records a manual income or expense entry
// @Summary      Create transaction
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.CreateTransactionRequest  true  "Transaction payload"
// @Success      201   {object}  response.Response{data=service.TransactionResponse}
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transaction, err := h.transactionService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, transaction))
}

// List returns the user's transactions with optional filters
// @Summary      List transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        type        query     string  false  "income or expense"
// @Param        category    query     string  false  "Category filter"
// @Param        start_date  query     string  false  "RFC3339 lower bound"
// @Param        end_date    query     string  false  "RFC3339 upper bound"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=service.TransactionListResponse}
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	params := pagination.Parse(c)

	filter := repository.TransactionFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "start_date must be RFC3339"))
			return
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "end_date must be RFC3339"))
			return
		}
		filter.EndDate = &t
	}

	list, err := h.transactionService.List(c.Request.Context(), userID, filter, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, list, params.Meta(list.Total)))
}

// Summary returns aggregated income, expense and category totals for a year
// @Summary      Transaction summary
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        year  query     int  false  "Year (default current)"
// @Success      200   {object}  response.Response{data=service.TransactionSummaryResponse}
// @Router       /api/transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))
	if year == 0 {
		year = time.Now().Year()
	}

	summary, err := h.transactionService.Summary(c.Request.Context(), userID, year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// GetByID returns a single transaction owned by the user
// @Summary      Get transaction
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response{data=service.TransactionResponse}
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	transaction, err := h.transactionService.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transaction))
}

// Update applies partial changes to a transaction
// @Summary      Update transaction
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                            true  "Transaction ID"
// @Param        body  body      service.UpdateTransactionRequest  true  "Fields to update"
// @Success      200   {object}  response.Response{data=service.TransactionResponse}
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	transaction, err := h.transactionService.Update(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, transaction))
}

// Delete removes a transaction
// @Summary      Delete transaction
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.transactionService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Transaction deleted"}))
}
