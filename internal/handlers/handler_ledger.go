package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// ledgerHandler handles HTTP requests for a project's financial ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ledgerService,
	}
}

// RegisterLedgerRoutes sets up the ledger routes nested under a project.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry) // Managers and admins
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/cancel", h.cancelEntry) // Managers and admins
	}
}

// createEntry godoc
// @Summary Record a ledger entry
// @Description Records a credit or debit against the project and applies it to the current budget.
// @Tags ledger
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param entry body dto.CreateLedgerEntryRequest true "Entry details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} ErrorResponse "Invalid amount, type or missing description"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /projects/{projectID}/entries [post]
func (h *ledgerHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	var req dto.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), projectID, req, creatorUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "record ledger entry")
		return
	}

	logger.Info("Ledger entry recorded",
		slog.String("project_id", projectID),
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_type", string(entry.EntryType)),
	)
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Retrieves the project's entries, active first then cancelled, newest first within each group. Includes the project's budget figures.
// @Tags ledger
// @Produce json
// @Param projectID path string true "Project ID"
// @Param status query string false "Filter: ACTIVE or CANCELLED"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), projectID, requestingUserID, params)
	if err != nil {
		respondWithServiceError(c, logger, err, "list ledger entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a ledger entry
// @Description Retrieves a single ledger entry.
// @Tags ledger
// @Produce json
// @Param projectID path string true "Project ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	entryID := c.Param("entryID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), projectID, entryID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "get ledger entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// cancelEntry godoc
// @Summary Cancel a ledger entry
// @Description Marks an active entry cancelled and reverses its budget effect. Cancelling twice is a conflict.
// @Tags ledger
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param entryID path string true "Entry ID"
// @Param cancellation body dto.CancelLedgerEntryRequest true "Cancellation reason"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry already cancelled"
// @Router /projects/{projectID}/entries/{entryID}/cancel [post]
func (h *ledgerHandler) cancelEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	entryID := c.Param("entryID")

	var req dto.CancelLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for cancelEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.CancelEntry(c.Request.Context(), projectID, entryID, req.Reason, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "cancel ledger entry")
		return
	}

	logger.Info("Ledger entry cancelled",
		slog.String("project_id", projectID),
		slog.String("entry_id", entryID),
	)
	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}
