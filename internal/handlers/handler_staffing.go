package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// staffingHandler handles HTTP requests for a project's staff assignments.
type staffingHandler struct {
	staffingService portssvc.StaffingSvcFacade
}

// newStaffingHandler creates a new staffingHandler.
func newStaffingHandler(staffingService portssvc.StaffingSvcFacade) *staffingHandler {
	return &staffingHandler{
		staffingService: staffingService,
	}
}

// registerStaffingRoutes sets up the staffing routes nested under a project.
func registerStaffingRoutes(rg *gin.RouterGroup, staffingService portssvc.StaffingSvcFacade) {
	h := newStaffingHandler(staffingService)

	staff := rg.Group("/staff")
	{
		staff.POST("", h.createAssignment)
		staff.GET("", h.listAssignments)
		staff.PUT("/:assignmentID", h.updateAssignment)
		staff.DELETE("/:assignmentID", h.deleteAssignment)
	}
}

// createAssignment godoc
// @Summary Assign a worker to a project
// @Description Assigns a registered user or an unregistered worker (by name) to the project.
// @Tags staffing
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param assignment body dto.CreateStaffAssignmentRequest true "Assignment details"
// @Success 201 {object} dto.StaffAssignmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/staff [post]
func (h *staffingHandler) createAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	var req dto.CreateStaffAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAssignment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	assignment, err := h.staffingService.CreateAssignment(c.Request.Context(), projectID, req, creatorUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "create staff assignment")
		return
	}

	logger.Info("Staff assignment created", slog.String("assignment_id", assignment.AssignmentID))
	c.JSON(http.StatusCreated, dto.ToStaffAssignmentResponse(assignment, time.Now()))
}

// listAssignments godoc
// @Summary List a project's staff
// @Description Retrieves the project's staff assignments with derived payment status.
// @Tags staffing
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.ListStaffAssignmentsResponse
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/staff [get]
func (h *staffingHandler) listAssignments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	assignments, err := h.staffingService.ListAssignments(c.Request.Context(), projectID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "list staff assignments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListStaffAssignmentsResponse(assignments, time.Now()))
}

// updateAssignment godoc
// @Summary Update a staff assignment
// @Description Updates wage, role title or payment fields of an assignment.
// @Tags staffing
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param assignmentID path string true "Assignment ID"
// @Param assignment body dto.UpdateStaffAssignmentRequest true "Fields to update"
// @Success 200 {object} dto.StaffAssignmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/staff/{assignmentID} [put]
func (h *staffingHandler) updateAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	assignmentID := c.Param("assignmentID")

	var req dto.UpdateStaffAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateAssignment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	assignment, err := h.staffingService.UpdateAssignment(c.Request.Context(), projectID, assignmentID, req, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "update staff assignment")
		return
	}

	c.JSON(http.StatusOK, dto.ToStaffAssignmentResponse(assignment, time.Now()))
}

// deleteAssignment godoc
// @Summary Remove a worker from a project
// @Description Deletes a staff assignment.
// @Tags staffing
// @Produce json
// @Param projectID path string true "Project ID"
// @Param assignmentID path string true "Assignment ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/staff/{assignmentID} [delete]
func (h *staffingHandler) deleteAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	assignmentID := c.Param("assignmentID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.staffingService.DeleteAssignment(c.Request.Context(), projectID, assignmentID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "delete staff assignment")
		return
	}

	logger.Info("Staff assignment deleted", slog.String("assignment_id", assignmentID))
	c.Status(http.StatusNoContent)
}
