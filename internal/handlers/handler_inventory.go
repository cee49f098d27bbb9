package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
	"github.com/buildtrack-app/buildtrack-backend/internal/middleware"
)

// inventoryHandler handles HTTP requests for tools and material batches.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// newInventoryHandler creates a new inventoryHandler.
func newInventoryHandler(inventoryService portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{
		inventoryService: inventoryService,
	}
}

// registerInventoryRoutes sets up the top-level inventory routes. Creation
// and movement live here rather than under a project because items change
// projects over their lifetime.
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	inventory := rg.Group("/inventory")
	{
		inventory.POST("", h.createItem)
		inventory.PUT("/:itemID", h.updateItem)
		inventory.POST("/:itemID/move", h.moveItem)
		inventory.DELETE("/:itemID", h.deleteItem)
	}
}

// registerProjectInventoryRoutes sets up the per-project inventory listing.
func registerProjectInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	rg.GET("/inventory", h.listItems)
}

// createItem godoc
// @Summary Register an inventory item
// @Description Registers a tool or material batch. Without a projectID the item lands in central stock.
// @Tags inventory
// @Accept json
// @Produce json
// @Param item body dto.CreateInventoryItemRequest true "Item details"
// @Success 201 {object} dto.InventoryItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /inventory [post]
func (h *inventoryHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInventoryItemRequest
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

	item, err := h.inventoryService.CreateItem(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "create inventory item")
		return
	}

	logger.Info("Inventory item created", slog.String("item_id", item.ItemID))
	c.JSON(http.StatusCreated, dto.ToInventoryItemResponse(item))
}

// listItems godoc
// @Summary List a project's inventory
// @Description Retrieves the tools and material batches currently at the project.
// @Tags inventory
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} dto.ListInventoryItemsResponse
// @Failure 403 {object} ErrorResponse
// @Router /projects/{projectID}/inventory [get]
func (h *inventoryHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	items, err := h.inventoryService.ListItems(c.Request.Context(), projectID, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "list inventory items")
		return
	}

	c.JSON(http.StatusOK, dto.ToListInventoryItemsResponse(items))
}

// updateItem godoc
// @Summary Update an inventory item
// @Description Updates an item's details or movement status.
// @Tags inventory
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID"
// @Param item body dto.UpdateInventoryItemRequest true "Fields to update"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{itemID} [put]
func (h *inventoryHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	var req dto.UpdateInventoryItemRequest
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

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), itemID, req, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "update inventory item")
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

// moveItem godoc
// @Summary Move an inventory item
// @Description Transfers an item to another project. Requires write access to both projects.
// @Tags inventory
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID"
// @Param move body dto.MoveInventoryItemRequest true "Target project"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 400 {object} ErrorResponse "Target equals current project"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{itemID}/move [post]
func (h *inventoryHandler) moveItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	var req dto.MoveInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for moveItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.inventoryService.MoveItem(c.Request.Context(), itemID, req, requestingUserID)
	if err != nil {
		respondWithServiceError(c, logger, err, "move inventory item")
		return
	}

	logger.Info("Inventory item moved",
		slog.String("item_id", itemID),
		slog.String("target_project_id", req.TargetProjectID),
	)
	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

// deleteItem godoc
// @Summary Delete an inventory item
// @Description Removes an item from inventory.
// @Tags inventory
// @Produce json
// @Param itemID path string true "Item ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /inventory/{itemID} [delete]
func (h *inventoryHandler) deleteItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), itemID, requestingUserID); err != nil {
		respondWithServiceError(c, logger, err, "delete inventory item")
		return
	}

	logger.Info("Inventory item deleted", slog.String("item_id", itemID))
	c.Status(http.StatusNoContent)
}
