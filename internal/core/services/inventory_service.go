package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// inventoryService tracks tools and material batches across projects.
// Items created without a project land in the default stock project.
type inventoryService struct {
	BaseService
	inventoryRepo portsrepo.InventoryRepositoryFacade
	projectRepo   portsrepo.ProjectReader
	access        portssvc.AccessGate
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade, projectRepo portsrepo.ProjectReader, access portssvc.AccessGate) portssvc.InventorySvcFacade {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		projectRepo:   projectRepo,
		access:        access,
	}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// CreateItem registers a tool or material batch.
func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest, creatorUserID string) (*domain.InventoryItem, error) {
	kind := domain.InventoryKind(strings.ToUpper(req.Kind))
	if kind != domain.InventoryTool && kind != domain.InventoryMaterial {
		return nil, fmt.Errorf("%w: %q is not an inventory kind", apperrors.ErrInvalidType, req.Kind)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrInvalidAmount)
	}
	if req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost cannot be negative", apperrors.ErrInvalidAmount)
	}

	var project *domain.Project
	var err error
	if req.ProjectID != nil && *req.ProjectID != "" {
		project, err = s.projectRepo.FindProjectByID(ctx, *req.ProjectID)
	} else {
		project, err = s.projectRepo.FindDefaultStockProject(ctx)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: destination project", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve destination project: %w", err)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, creatorUserID, project.ProjectID); err != nil {
		return nil, err
	}

	status := domain.MovementInStock
	if !project.IsStockDefault {
		status = domain.MovementOnSite
	}

	now := time.Now().UTC()
	item := domain.InventoryItem{
		ItemID:         uuid.NewString(),
		ProjectID:      project.ProjectID,
		Kind:           kind,
		Name:           req.Name,
		Description:    req.Description,
		Quantity:       req.Quantity,
		UnitCost:       req.UnitCost,
		MovementStatus: status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &creatorUserID,
		ActionKind:   domain.ActionCreate,
		ResourceKind: domain.ResourceInventoryItem,
		ResourceID:   item.ItemID,
		Details: map[string]any{
			"projectID": item.ProjectID,
			"kind":      string(kind),
			"name":      req.Name,
			"quantity":  req.Quantity,
			"unitCost":  req.UnitCost.String(),
		},
		Timestamp: now,
	}

	if err := s.inventoryRepo.SaveItem(ctx, item, audit); err != nil {
		s.LogError(ctx, err, "failed to save inventory item", slog.String("project_id", item.ProjectID))
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}

	s.LogInfo(ctx, "inventory item created", slog.String("item_id", item.ItemID), slog.String("project_id", item.ProjectID))
	return &item, nil
}

func (s *inventoryService) fetchItem(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: inventory item %s", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to fetch inventory item: %w", err)
	}
	return item, nil
}

// UpdateItem applies partial updates to an item's details.
func (s *inventoryService) UpdateItem(ctx context.Context, itemID string, req dto.UpdateInventoryItemRequest, requestingUserID string) (*domain.InventoryItem, error) {
	item, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, item.ProjectID); err != nil {
		return nil, err
	}

	before := map[string]any{}
	after := map[string]any{}
	updated := *item

	if req.Name != nil && *req.Name != item.Name {
		before["name"] = item.Name
		after["name"] = *req.Name
		updated.Name = *req.Name
	}
	if req.Description != nil && *req.Description != item.Description {
		before["description"] = item.Description
		after["description"] = *req.Description
		updated.Description = *req.Description
	}
	if req.Quantity != nil && *req.Quantity != item.Quantity {
		if *req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrInvalidAmount)
		}
		before["quantity"] = item.Quantity
		after["quantity"] = *req.Quantity
		updated.Quantity = *req.Quantity
	}
	if req.UnitCost != nil && !req.UnitCost.Equal(item.UnitCost) {
		if req.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit cost cannot be negative", apperrors.ErrInvalidAmount)
		}
		before["unitCost"] = item.UnitCost.String()
		after["unitCost"] = req.UnitCost.String()
		updated.UnitCost = *req.UnitCost
	}
	if req.MovementStatus != nil {
		newStatus := domain.MovementStatus(strings.ToUpper(*req.MovementStatus))
		switch newStatus {
		case domain.MovementInStock, domain.MovementOnSite, domain.MovementInUse:
		default:
			return nil, fmt.Errorf("%w: %q is not a movement status", apperrors.ErrValidation, *req.MovementStatus)
		}
		if newStatus != item.MovementStatus {
			before["movementStatus"] = string(item.MovementStatus)
			after["movementStatus"] = string(newStatus)
			updated.MovementStatus = newStatus
		}
	}

	if len(after) == 0 {
		return item, nil
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceInventoryItem,
		ResourceID:   itemID,
		Details: map[string]any{
			"before": before,
			"after":  after,
		},
		Timestamp: now,
	}

	if err := s.inventoryRepo.UpdateItem(ctx, updated, audit); err != nil {
		s.LogError(ctx, err, "failed to update inventory item", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return &updated, nil
}

// MoveItem transfers an item between projects. The actor needs write access
// on both ends.
func (s *inventoryService) MoveItem(ctx context.Context, itemID string, req dto.MoveInventoryItemRequest, requestingUserID string) (*domain.InventoryItem, error) {
	item, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	target, err := s.projectRepo.FindProjectByID(ctx, req.TargetProjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, req.TargetProjectID)
		}
		return nil, fmt.Errorf("failed to fetch target project: %w", err)
	}
	if target.ProjectID == item.ProjectID {
		return nil, fmt.Errorf("%w: item is already on that project", apperrors.ErrValidation)
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, item.ProjectID); err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, target.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := *item
	updated.ProjectID = target.ProjectID
	if target.IsStockDefault {
		updated.MovementStatus = domain.MovementInStock
	} else {
		updated.MovementStatus = domain.MovementOnSite
	}
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceInventoryItem,
		ResourceID:   itemID,
		Details: map[string]any{
			"before": map[string]any{"projectID": item.ProjectID, "movementStatus": string(item.MovementStatus)},
			"after":  map[string]any{"projectID": updated.ProjectID, "movementStatus": string(updated.MovementStatus)},
		},
		Timestamp: now,
	}

	if err := s.inventoryRepo.UpdateItem(ctx, updated, audit); err != nil {
		s.LogError(ctx, err, "failed to move inventory item", slog.String("item_id", itemID))
		return nil, fmt.Errorf("failed to move inventory item: %w", err)
	}

	s.LogInfo(ctx, "inventory item moved",
		slog.String("item_id", itemID),
		slog.String("from_project", item.ProjectID),
		slog.String("to_project", updated.ProjectID))
	return &updated, nil
}

// DeleteItem removes an item.
func (s *inventoryService) DeleteItem(ctx context.Context, itemID string, requestingUserID string) error {
	item, err := s.fetchItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.access.AuthorizeProjectWrite(ctx, requestingUserID, item.ProjectID); err != nil {
		return err
	}

	now := time.Now().UTC()
	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceInventoryItem,
		ResourceID:   itemID,
		Details: map[string]any{
			"projectID": item.ProjectID,
			"kind":      string(item.Kind),
			"name":      item.Name,
			"quantity":  item.Quantity,
		},
		Timestamp: now,
	}

	if err := s.inventoryRepo.DeleteItem(ctx, itemID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete inventory item", slog.String("item_id", itemID))
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}

// ListItems returns a project's inventory.
func (s *inventoryService) ListItems(ctx context.Context, projectID string, requestingUserID string) ([]domain.InventoryItem, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	if err := s.access.AuthorizeProjectRead(ctx, requestingUserID, projectID); err != nil {
		return nil, err
	}
	items, err := s.inventoryRepo.FindItemsByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "failed to list inventory items", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return items, nil
}
