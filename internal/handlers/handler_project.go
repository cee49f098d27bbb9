package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// projectHandler handles HTTP requests related to projects.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

// newProjectHandler creates a new projectHandler.
func newProjectHandler(projectService portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{
		projectService: projectService,
	}
}

// registerProjectRoutes sets up the routes for projects and their nested resources.
func registerProjectRoutes(
	rg *gin.RouterGroup,
	projectService portssvc.ProjectSvcFacade,
	ledgerService portssvc.LedgerSvcFacade,
	staffingService portssvc.StaffingSvcFacade,
	checklistService portssvc.ChecklistSvcFacade,
	inventoryService portssvc.InventorySvcFacade,
	reportingService portssvc.ReportingSvcFacade,
) {
	h := newProjectHandler(projectService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject) // Managers and admins
		projects.GET("", h.listProjects)
	}

	projectSpecific := rg.Group("/projects/:projectID")
	{
		projectSpecific.GET("", h.getProject)
		projectSpecific.PUT("", h.updateProject)
		projectSpecific.DELETE("", h.deleteProject) // Admin only

		// -- NESTED LEDGER ROUTES --
		RegisterLedgerRoutes(projectSpecific, ledgerService)

		// -- NESTED STAFFING ROUTES --
		registerStaffingRoutes(projectSpecific, staffingService)

		// -- NESTED CHECKLIST ROUTES --
		registerChecklistRoutes(projectSpecific, checklistService)

		// Per-project inventory listing; mutations live at the top level
		// because items move between projects.
		registerProjectInventoryRoutes(projectSpecific, inventoryService)

		// Per-project ledger summary
		registerProjectSummaryRoute(projectSpecific, reportingService)
	}
}

// createProject godoc
// @Summary Create a new project
// @Description Creates a project with its initial budget. Managers and admins only.
// @Tags projects
// @Accept json
// @Produce json
// @Param project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "create project")
		return
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID))
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Description Retrieves projects visible to the requesting user. Contractors only see assigned projects.
// @Tags projects
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListProjectsResponse
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListProjectsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), requestingUserID, params)
	if err != nil {
		respondWithServiceError(c, logger, err, "list projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToListProjectsResponse(projects))
}

// getProject godoc
// @Summary Get a project
// @Description Retrieves a single project with its budget figures.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	project, err := h.projectService.GetProjectByID(c.Request.Context(), projectID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "get project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// updateProject godoc
// @Summary Update a project
// @Description Updates project details. A status change must carry a statusReason.
// @Tags projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param project body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID} [put]
func (h *projectHandler) updateProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), projectID, req, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "update project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// deleteProject godoc
// @Summary Delete a project
// @Description Removes a project and everything under it. Admin only.
// @Tags projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID} [delete]
func (h *projectHandler) deleteProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "delete project")
		return
	}

	logger.Info("Project deleted", slog.String("project_id", projectID))
	c.Status(http.StatusNoContent)
}
