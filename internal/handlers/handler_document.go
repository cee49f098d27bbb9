package handlers

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// documentHandler handles HTTP requests for project and company documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(documentService portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: documentService,
	}
}

// registerDocumentRoutes sets up the document routes.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.uploadDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:documentID/download", h.downloadDocument)
		documents.DELETE("/:documentID", h.deleteDocument)
	}
}

// uploadDocument godoc
// @Summary Upload a document
// @Description Stores an uploaded file and registers its metadata. Omit projectID for a company-wide document.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File content"
// @Param projectID formData string false "Owning project"
// @Param kind formData string false "Free-form tag: contract, blueprint, invoice"
// @Param visibility formData string false "EVERYONE or MANAGERS" default(EVERYONE)
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /documents [post]
func (h *documentHandler) uploadDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Missing file part in upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 'file' form field is required"})
		return
	}

	req := dto.CreateDocumentRequest{
		Filename:   filepath.Base(fileHeader.Filename),
		Kind:       c.PostForm("kind"),
		Visibility: c.PostForm("visibility"),
	}
	if projectID := c.PostForm("projectID"); projectID != "" {
		req.ProjectID = &projectID
	}

	uploaderUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	doc, err := h.documentService.SaveDocument(c.Request.Context(), req, file, uploaderUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "upload document")
		return
	}

	logger.Info("Document uploaded", slog.String("document_id", doc.DocumentID))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves documents for a project, or company-wide documents when projectID is omitted. Manager-only documents are filtered by role.
// @Tags documents
// @Produce json
// @Param projectID query string false "Owning project"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 403 {object} ErrorResponse
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var projectID *string
	if id := c.Query("projectID"); id != "" {
		projectID = &id
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), projectID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "list documents")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDocumentsResponse(docs))
}

// downloadDocument godoc
// @Summary Download a document
// @Description Streams the stored file content. Every download lands in the audit trail.
// @Tags documents
// @Produce octet-stream
// @Param documentID path string true "Document ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{documentID}/download [get]
func (h *documentHandler) downloadDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	doc, content, err := h.documentService.OpenDocument(c.Request.Context(), documentID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "download document")
		return
	}
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(doc.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, content); err != nil {
		// Headers are already written, all we can do is log.
		logger.Error("Failed streaming document content", slog.String("document_id", documentID), slog.String("error", err.Error()))
	}
}

// deleteDocument godoc
// @Summary Delete a document
// @Description Removes a document's metadata and stored content.
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{documentID} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), documentID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "delete document")
		return
	}

	logger.Info("Document deleted", slog.String("document_id", documentID))
	c.Status(http.StatusNoContent)
}
