package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// auditHandler handles HTTP requests over the audit trail.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// newAuditHandler creates a new auditHandler.
func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{
		auditService: auditService,
	}
}

// registerAuditRoutes sets up the audit trail routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := rg.Group("/audit")
	{
		audit.GET("", h.listAll)                                             // Admin only
		audit.GET("/resources/:resourceKind/:resourceID", h.listForResource) // Managers and admins
		audit.GET("/actors/:actorID", h.listForActor)                        // Managers and admins
	}
}

// listAll godoc
// @Summary Global audit feed
// @Description Retrieves the global audit trail, newest first. Admin only.
// @Tags audit
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Opaque pagination cursor"
// @Success 200 {object} dto.ListAuditRecordsResponse
// @Failure 400 {object} ErrorResponse "Malformed pagination token"
// @Failure 403 {object} ErrorResponse
// @Router /audit [get]
func (h *auditHandler) listAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAuditRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.auditService.ListAll(c.Request.Context(), requestingUserID, params)
	if err != nil {
		respondWithServiceError(c, logger, err, "list audit records")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listForResource godoc
// @Summary Resource history
// @Description Retrieves one resource's audit history, newest first.
// @Tags audit
// @Produce json
// @Param resourceKind path string true "Resource kind, e.g. project or ledger_entry"
// @Param resourceID path string true "Resource ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Opaque pagination cursor"
// @Success 200 {object} dto.ListAuditRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /audit/resources/{resourceKind}/{resourceID} [get]
func (h *auditHandler) listForResource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	resourceKind := c.Param("resourceKind")
	resourceID := c.Param("resourceID")

	var params dto.ListAuditRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.auditService.ListResourceHistory(c.Request.Context(), resourceKind, resourceID, requestingUserID, params)
	if err != nil {
		respondWithServiceError(c, logger, err, "list resource history")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listForActor godoc
// @Summary Actor history
// @Description Retrieves the actions performed by one user, newest first.
// @Tags audit
// @Produce json
// @Param actorID path string true "Actor user ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Opaque pagination cursor"
// @Success 200 {object} dto.ListAuditRecordsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown actor"
// @Router /audit/actors/{actorID} [get]
func (h *auditHandler) listForActor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID := c.Param("actorID")

	var params dto.ListAuditRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.auditService.ListActorHistory(c.Request.Context(), actorID, requestingUserID, params)
	if err != nil {
		respondWithServiceError(c, logger, err, "list actor history")
		return
	}

	c.JSON(http.StatusOK, resp)
}
