package handler

import (
	"net/http"
	"strconv"

	"sabitax/internal/middleware"
	"sabitax/internal/service"
	"sabitax/pkg/pagination"
	"sabitax/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService service.TaxService
}

func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/tax")
	tax.Use(middleware.RequireAuth())
	{
		tax.GET("/obligations", h.GetObligations)
		tax.GET("/estimate", h.GetEstimate)
		tax.POST("/file", h.FileTax)
		tax.GET("/filings", h.GetFilings)
		tax.GET("/optimization", h.GetOptimization)
	}
}

// GetObligations returns the user's outstanding tax obligations
// @Summary      Get tax obligations
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TaxObligationsResponse}
// @Router       /api/tax/obligations [get]
func (h *TaxHandler) GetObligations(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	obligations, err := h.taxService.GetObligations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, obligations))
}

// GetEstimate returns the current-year PIT estimate from recorded income
// @Summary      Get tax estimate
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TaxEstimateResponse}
// @Router       /api/tax/estimate [get]
func (h *TaxHandler) GetEstimate(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	estimate, err := h.taxService.GetEstimate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, estimate))
}

// FileTax submits a PIT or VAT filing for a tax year
// @Summary      File tax
// @Tags         tax
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.TaxFilingRequest  true  "Filing payload"
// @Success      201   {object}  response.Response{data=service.TaxFilingResponse}
// @Router       /api/tax/file [post]
func (h *TaxHandler) FileTax(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req service.TaxFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	filing, err := h.taxService.FileTax(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, filing))
}

// GetFilings returns the user's filing history
// @Summary      Get filing history
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Param        tax_type  query     string  false  "PIT or VAT"
// @Param        year      query     int     false  "Tax year filter"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=service.TaxFilingHistoryResponse}
// @Router       /api/tax/filings [get]
func (h *TaxHandler) GetFilings(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	params := pagination.Parse(c)

	year, _ := strconv.Atoi(c.DefaultQuery("year", "0"))

	filings, err := h.taxService.GetFilings(c.Request.Context(), userID, c.Query("tax_type"), year, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, filings, params.Meta(filings.Total)))
}

// GetOptimization returns personalized tax-saving suggestions
// @Summary      Get optimization suggestions
// @Tags         tax
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TaxOptimizationResponse}
// @Router       /api/tax/optimization [get]
func (h *TaxHandler) GetOptimization(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	suggestions, err := h.taxService.GetOptimization(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, suggestions))
}
