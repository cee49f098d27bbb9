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

// listingHandler handles HTTP requests for the property marketplace.
type listingHandler struct {
	listingService portssvc.ListingSvcFacade
}

// newListingHandler creates a new listingHandler.
func newListingHandler(listingService portssvc.ListingSvcFacade) *listingHandler {
	return &listingHandler{
		listingService: listingService,
	}
}

// registerListingRoutes sets up the marketplace routes.
func registerListingRoutes(rg *gin.RouterGroup, listingService portssvc.ListingSvcFacade) {
	h := newListingHandler(listingService)

	listings := rg.Group("/listings")
	{
		listings.POST("", h.createListing)
		listings.GET("", h.listListings)
		listings.GET("/:listingID", h.getListing)
		listings.PUT("/:listingID", h.updateListing)
		listings.DELETE("/:listingID", h.deleteListing)
		listings.GET("/:listingID/cover", h.downloadCover)
		listings.POST("/:listingID/photos", h.addPhoto)
		listings.GET("/:listingID/photos/:photoID", h.downloadPhoto)
		listings.DELETE("/:listingID/photos/:photoID", h.removePhoto)
	}
}

// streamImage writes stored image bytes inline with the right content type.
func streamImage(c *gin.Context, logger *slog.Logger, filename string, content io.ReadCloser) {
	defer content.Close()

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, content); err != nil {
		logger.Error("Failed streaming image content", slog.String("filename", filename), slog.String("error", err.Error()))
	}
}

// createListing godoc
// @Summary Publish a property listing
// @Description Publishes a property on the marketplace. Fields arrive as multipart form data so a cover image can ride along.
// @Tags marketplace
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Listing title"
// @Param address formData string false "Street address"
// @Param district formData string false "District"
// @Param streetNumber formData string false "Street number"
// @Param postalCode formData string false "Postal code"
// @Param area formData string false "Property area"
// @Param ownerName formData string false "Owner's name"
// @Param notes formData string false "Free-form notes"
// @Param status formData string false "FOR_SALE, RESERVED or SOLD" default(FOR_SALE)
// @Param cover formData file false "Cover image"
// @Success 201 {object} dto.ListingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /listings [post]
func (h *listingHandler) createListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateListingRequest{
		Title:        c.PostForm("title"),
		Address:      c.PostForm("address"),
		District:     c.PostForm("district"),
		StreetNumber: c.PostForm("streetNumber"),
		PostalCode:   c.PostForm("postalCode"),
		Area:         c.PostForm("area"),
		OwnerName:    c.PostForm("ownerName"),
		Notes:        c.PostForm("notes"),
		Status:       c.PostForm("status"),
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var coverFilename string
	var coverContent io.Reader
	if fileHeader, err := c.FormFile("cover"); err == nil {
		coverFilename = filepath.Base(fileHeader.Filename)
		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded cover", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
			return
		}
		defer file.Close()
		coverContent = file
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), req, coverFilename, coverContent, creatorUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "create listing")
		return
	}

	logger.Info("Listing published", slog.String("listing_id", listing.ListingID))
	c.JSON(http.StatusCreated, listing)
}

// listListings godoc
// @Summary List property listings
// @Description Retrieves every marketplace listing with its gallery, newest first.
// @Tags marketplace
// @Produce json
// @Success 200 {object} dto.ListListingsResponse
// @Router /listings [get]
func (h *listingHandler) listListings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.listingService.ListListings(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, logger, err, "list listings")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getListing godoc
// @Summary Get a property listing
// @Description Retrieves one listing with its gallery.
// @Tags marketplace
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 200 {object} dto.ListingResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{listingID} [get]
func (h *listingHandler) getListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")

	listing, err := h.listingService.GetListingByID(c.Request.Context(), listingID)
	if err != nil {
		respondWithServiceError(c, logger, err, "get listing")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// updateListing godoc
// @Summary Update a property listing
// @Description Applies partial updates to a listing.
// @Tags marketplace
// @Accept json
// @Produce json
// @Param listingID path string true "Listing ID"
// @Param listing body dto.UpdateListingRequest true "Fields to update"
// @Success 200 {object} dto.ListingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{listingID} [put]
func (h *listingHandler) updateListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")

	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateListing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	listing, err := h.listingService.UpdateListing(c.Request.Context(), listingID, req, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "update listing")
		return
	}

	c.JSON(http.StatusOK, listing)
}

// deleteListing godoc
// @Summary Delete a property listing
// @Description Removes a listing, its gallery and the stored images.
// @Tags marketplace
// @Produce json
// @Param listingID path string true "Listing ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{listingID} [delete]
func (h *listingHandler) deleteListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.listingService.DeleteListing(c.Request.Context(), listingID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "delete listing")
		return
	}

	logger.Info("Listing deleted", slog.String("listing_id", listingID))
	c.Status(http.StatusNoContent)
}

// downloadCover godoc
// @Summary Download a listing's cover image
// @Description Streams the stored cover image inline.
// @Tags marketplace
// @Produce octet-stream
// @Param listingID path string true "Listing ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /listings/{listingID}/cover [get]
func (h *listingHandler) downloadCover(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")

	filename, content, err := h.listingService.OpenCover(c.Request.Context(), listingID)
	if err != nil {
		respondWithServiceError(c, logger, err, "download listing cover")
		return
	}
	streamImage(c, logger, filename, content)
}

// addPhoto godoc
// @Summary Add a gallery photo
// @Description Stores a gallery image on a listing.
// @Tags marketplace
// @Accept multipart/form-data
// @Produce json
// @Param listingID path string true "Listing ID"
// @Param photo formData file true "Image content"
// @Success 201 {object} dto.ListingPhotoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{listingID}/photos [post]
func (h *listingHandler) addPhoto(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")

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

	photo, err := h.listingService.AddPhoto(c.Request.Context(), listingID, filepath.Base(fileHeader.Filename), file, uploaderUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "add listing photo")
		return
	}

	logger.Info("Listing photo added", slog.String("listing_id", listingID), slog.String("photo_id", photo.PhotoID))
	c.JSON(http.StatusCreated, photo)
}

// downloadPhoto godoc
// @Summary Download a gallery photo
// @Description Streams one stored gallery image inline.
// @Tags marketplace
// @Produce octet-stream
// @Param listingID path string true "Listing ID"
// @Param photoID path string true "Photo ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /listings/{listingID}/photos/{photoID} [get]
func (h *listingHandler) downloadPhoto(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")
	photoID := c.Param("photoID")

	filename, content, err := h.listingService.OpenPhoto(c.Request.Context(), listingID, photoID)
	if err != nil {
		respondWithServiceError(c, logger, err, "download listing photo")
		return
	}
	streamImage(c, logger, filename, content)
}

// removePhoto godoc
// @Summary Remove a gallery photo
// @Description Removes one gallery image and its stored file.
// @Tags marketplace
// @Produce json
// @Param listingID path string true "Listing ID"
// @Param photoID path string true "Photo ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /listings/{listingID}/photos/{photoID} [delete]
func (h *listingHandler) removePhoto(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("listingID")
	photoID := c.Param("photoID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.listingService.RemovePhoto(c.Request.Context(), listingID, photoID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "remove listing photo")
		return
	}

	logger.Info("Listing photo removed", slog.String("listing_id", listingID), slog.String("photo_id", photoID))
	c.Status(http.StatusNoContent)
}
