package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// checklistHandler handles HTTP requests for a project's checklist.
type checklistHandler struct {
	checklistService portssvc.ChecklistSvcFacade
}

// newChecklistHandler creates a new checklistHandler.
func newChecklistHandler(checklistService portssvc.ChecklistSvcFacade) *checklistHandler {
	return &checklistHandler{
		checklistService: checklistService,
	}
}

// registerChecklistRoutes sets up the checklist routes nested under a project.
func registerChecklistRoutes(rg *gin.RouterGroup, checklistService portssvc.ChecklistSvcFacade) {
	h := newChecklistHandler(checklistService)

	checklist := rg.Group("/checklist")
	{
		checklist.POST("", h.createItem)
		checklist.GET("", h.listItems)
		checklist.PUT("/:itemID", h.updateItem)
		checklist.DELETE("/:itemID", h.deleteItem)
		checklist.POST("/:itemID/attachments", h.addAttachment)
		checklist.GET("/:itemID/attachments", h.listAttachments)
		checklist.GET("/:itemID/attachments/:attachmentID", h.downloadAttachment)
		checklist.DELETE("/:itemID/attachments/:attachmentID", h.removeAttachment)
	}
}

// createItem godoc
// @Summary Add a checklist task
// @Description Adds a task to the project's checklist, optionally with assignee and deadline.
// @Tags checklist
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param task body dto.CreateChecklistItemRequest true "Task details"
// @Success 201 {object} dto.ChecklistItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/checklist [post]
func (h *checklistHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	var req dto.CreateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.checklistService.CreateItem(c.Request.Context(), projectID, req, creatorUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "create checklist task")
		return
	}

	logger.Info("Checklist task created", slog.String("item_id", item.ItemID))
	c.JSON(http.StatusCreated, dto.ToChecklistItemResponse(item, time.Now()))
}

// listItems godoc
// @Summary List checklist tasks
// @Description Retrieves the project's checklist, pending tasks first.
// @Tags checklist
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.ListChecklistItemsResponse
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/checklist [get]
func (h *checklistHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	items, err := h.checklistService.ListItems(c.Request.Context(), projectID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "list checklist tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToListChecklistItemsResponse(items, time.Now()))
}

// updateItem godoc
// @Summary Update a checklist task
// @Description Updates a task. Marking it DONE stamps the completion time; reopening clears it.
// @Tags checklist
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Param itemID path string true "Task ID"
// @Param task body dto.UpdateChecklistItemRequest true "Fields to update"
// @Success 200 {object} dto.ChecklistItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/checklist/{itemID} [put]
func (h *checklistHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	itemID := c.Param("itemID")

	var req dto.UpdateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.checklistService.UpdateItem(c.Request.Context(), projectID, itemID, req, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "update checklist task")
		return
	}

	c.JSON(http.StatusOK, dto.ToChecklistItemResponse(item, time.Now()))
}

// deleteItem godoc
// @Summary Delete a checklist task
// @Description Removes a task from the project's checklist.
// @Tags checklist
// @Produce json
// @Param projectID path string true "Project ID"
// @Param itemID path string true "Task ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/checklist/{itemID} [delete]
func (h *checklistHandler) deleteItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	itemID := c.Param("itemID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.checklistService.DeleteItem(c.Request.Context(), projectID, itemID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "delete checklist task")
		return
	}

	logger.Info("Checklist task deleted", slog.String("item_id", itemID))
	c.Status(http.StatusNoContent)
}

// addAttachment godoc
// @Summary Attach a photo to a task
// @Description Stores a photo on a checklist task as completion evidence.
// @Tags checklist
// @Accept multipart/form-data
// @Produce json
// @Param projectID path string true "Project ID"
// @Param itemID path string true "Task ID"
// @Param photo formData file true "Image content"
// @Success 201 {object} dto.ChecklistAttachmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/checklist/{itemID}/attachments [post]
func (h *checklistHandler) addAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	itemID := c.Param("itemID")

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		logger.Warn("Missing photo part in upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 'photo' form field is required"})
		return
	}

	uploaderUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded photo", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	attachment, err := h.checklistService.AddAttachment(c.Request.Context(), projectID, itemID, filepath.Base(fileHeader.Filename), file, uploaderUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "attach photo")
		return
	}

	logger.Info("Checklist attachment added", slog.String("item_id", itemID), slog.String("attachment_id", attachment.AttachmentID))
	c.JSON(http.StatusCreated, dto.ToChecklistAttachmentResponse(attachment))
}

// listAttachments godoc
// @Summary List a task's attachments
// @Description Retrieves the photos attached to a checklist task.
// @Tags checklist
// @Produce json
// @Param projectID path string true "Project ID"
// @Param itemID path string true "Task ID"
// @Success 200 {object} dto.ListChecklistAttachmentsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/checklist/{itemID}/attachments [get]
func (h *checklistHandler) listAttachments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	itemID := c.Param("itemID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	attachments, err := h.checklistService.ListAttachments(c.Request.Context(), projectID, itemID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "list attachments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListChecklistAttachmentsResponse(attachments))
}

// downloadAttachment godoc
// @Summary Download an attachment
// @Description Streams one stored attachment image inline.
// @Tags checklist
// @Produce octet-stream
// @Param projectID path string true "Project ID"
// @Param itemID path string true "Task ID"
// @Param attachmentID path string true "Attachment ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/checklist/{itemID}/attachments/{attachmentID} [get]
func (h *checklistHandler) downloadAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	itemID := c.Param("itemID")
	attachmentID := c.Param("attachmentID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	attachment, content, err := h.checklistService.OpenAttachment(c.Request.Context(), projectID, itemID, attachmentID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "download attachment")
		return
	}
	streamImage(c, logger, attachment.Filename, content)
}

// removeAttachment godoc
// @Summary Remove an attachment
// @Description Removes one attachment and its stored file.
// @Tags checklist
// @Produce json
// @Param projectID path string true "Project ID"
// @Param itemID path string true "Task ID"
// @Param attachmentID path string true "Attachment ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID}/checklist/{itemID}/attachments/{attachmentID} [delete]
func (h *checklistHandler) removeAttachment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")
	itemID := c.Param("itemID")
	attachmentID := c.Param("attachmentID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.checklistService.RemoveAttachment(c.Request.Context(), projectID, itemID, attachmentID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "remove attachment")
		return
	}

	logger.Info("Checklist attachment removed", slog.String("attachment_id", attachmentID))
	c.Status(http.StatusNoContent)
}
