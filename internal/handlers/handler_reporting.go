package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// reportingHandler handles HTTP requests for dashboards and reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
	}
}

// registerReportingRoutes sets up the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	// Both reports are manager-and-admin only; the service enforces it.
	reports := rg.Group("/reports")
	{
		reports.GET("/kpis", h.getGlobalKPIs)
		reports.GET("/cashflow", h.getCashflow)
	}
}

// registerProjectSummaryRoute sets up the per-project ledger summary route.
func registerProjectSummaryRoute(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	rg.GET("/summary", h.getProjectSummary)
}

// getGlobalKPIs godoc
// @Summary Global dashboard numbers
// @Description Computes headline figures across all projects. Managers and admins only.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.GlobalKPIsResponse
// @Failure 403 {object} ErrorResponse
// @Router /reports/kpis [get]
func (h *reportingHandler) getGlobalKPIs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	kpis, err := h.reportingService.GetGlobalKPIs(c.Request.Context(), requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "compute global KPIs")
		return
	}

	c.JSON(http.StatusOK, dto.ToGlobalKPIsResponse(kpis))
}

// getCashflow godoc
// @Summary Monthly cashflow report
// @Description Computes per-month credit and debit totals over active entries. Managers and admins only.
// @Tags reports
// @Produce json
// @Param projectID query string false "Restrict to one project"
// @Param months query int false "How many months back" default(12)
// @Success 200 {object} dto.CashflowResponse
// @Failure 403 {object} ErrorResponse
// @Router /reports/cashflow [get]
func (h *reportingHandler) getCashflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.CashflowParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	buckets, err := h.reportingService.GetMonthlyCashflow(c.Request.Context(), requestingUserID, params)
	if err != nil {
		respondWithServiceError(c, logger, err, "compute monthly cashflow")
		return
	}

	c.JSON(http.StatusOK, dto.CashflowResponse{Buckets: buckets})
}

// getProjectSummary godoc
// @Summary Project ledger summary
// @Description Recomputes one project's active credit/debit sums next to its stored budget figures.
// @Tags reports
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectLedgerSummaryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/summary [get]
func (h *reportingHandler) getProjectSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := h.reportingService.GetProjectLedgerSummary(c.Request.Context(), projectID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "compute project ledger summary")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectLedgerSummaryResponse(summary))
}
