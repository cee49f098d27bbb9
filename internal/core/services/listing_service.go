package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	portssvc "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/services"
	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// listingImageExts are the image formats accepted for covers and gallery
// photos.
var listingImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// listingService manages the company marketplace of properties for sale.
// Every authenticated user can browse; managing roles publish and edit.
type listingService struct {
	BaseService
	listingRepo portsrepo.ListingRepositoryFacade
	access      portssvc.AccessGate
	uploadDir   string
}

// NewListingService creates a new ListingService storing images under
// uploadDir.
func NewListingService(listingRepo portsrepo.ListingRepositoryFacade, access portssvc.AccessGate, uploadDir string) portssvc.ListingSvcFacade {
	return &listingService{
		listingRepo: listingRepo,
		access:      access,
		uploadDir:   filepath.Join(uploadDir, "marketplace"),
	}
}

var _ portssvc.ListingSvcFacade = (*listingService)(nil)

// storeImage writes content to disk under the marketplace directory and
// returns the storage path. The stored name is id plus the original
// extension.
func (s *listingService) storeImage(id string, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !listingImageExts[ext] {
		return "", fmt.Errorf("%w: %q is not an accepted image type", apperrors.ErrValidation, ext)
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare upload directory: %w", err)
	}
	storagePath := filepath.Join(s.uploadDir, id+ext)
	f, err := os.Create(storagePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(storagePath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(storagePath)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return storagePath, nil
}

func (s *listingService) toResponse(ctx context.Context, listing *domain.Listing) (*dto.ListingResponse, error) {
	photos, err := s.listingRepo.FindPhotosByListing(ctx, listing.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing photos: %w", err)
	}
	resp := dto.ToListingResponse(listing, photos)
	return &resp, nil
}

// CreateListing publishes a property. An invalid cover image rejects the
// whole request before anything is stored.
func (s *listingService) CreateListing(ctx context.Context, req dto.CreateListingRequest, coverFilename string, coverContent io.Reader, creatorUserID string) (*dto.ListingResponse, error) {
	if err := s.access.AuthorizeManager(ctx, creatorUserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrMissingField)
	}
	status := domain.ListingForSale
	if req.Status != "" {
		if !domain.IsValidListingStatus(req.Status) {
			return nil, fmt.Errorf("%w: %q is not a listing status", apperrors.ErrValidation, req.Status)
		}
		status = domain.ListingStatus(req.Status)
	}

	now := time.Now().UTC()
	listing := domain.Listing{
		ListingID:    uuid.NewString(),
		Title:        req.Title,
		Address:      req.Address,
		District:     req.District,
		StreetNumber: req.StreetNumber,
		PostalCode:   req.PostalCode,
		Area:         req.Area,
		OwnerName:    req.OwnerName,
		Notes:        req.Notes,
		Status:       status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if coverContent != nil {
		coverPath, err := s.storeImage("cover_"+listing.ListingID, coverFilename, coverContent)
		if err != nil {
			return nil, err
		}
		listing.CoverPath = &coverPath
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &creatorUserID,
		ActionKind:   domain.ActionCreate,
		ResourceKind: domain.ResourceListing,
		ResourceID:   listing.ListingID,
		Details: map[string]any{
			"title":  req.Title,
			"status": string(status),
		},
		Timestamp: now,
	}

	if err := s.listingRepo.SaveListing(ctx, listing, audit); err != nil {
		if listing.CoverPath != nil {
			os.Remove(*listing.CoverPath)
		}
		s.LogError(ctx, err, "failed to save listing", slog.String("listing_id", listing.ListingID))
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	s.LogInfo(ctx, "listing published", slog.String("listing_id", listing.ListingID), slog.String("title", listing.Title))
	resp := dto.ToListingResponse(&listing, nil)
	return &resp, nil
}

// UpdateListing applies partial updates and audits the touched fields.
func (s *listingService) UpdateListing(ctx context.Context, listingID string, req dto.UpdateListingRequest, requestingUserID string) (*dto.ListingResponse, error) {
	if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return nil, err
	}
	listing, err := s.listingRepo.FindListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: listing %s", apperrors.ErrNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}

	now := time.Now().UTC()
	before := map[string]any{}
	after := map[string]any{}
	updated := *listing

	applyString := func(field string, current string, incoming *string, set func(string)) {
		if incoming == nil || *incoming == current {
			return
		}
		before[field] = current
		after[field] = *incoming
		set(*incoming)
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrMissingField)
	}
	applyString("title", listing.Title, req.Title, func(v string) { updated.Title = v })
	applyString("address", listing.Address, req.Address, func(v string) { updated.Address = v })
	applyString("district", listing.District, req.District, func(v string) { updated.District = v })
	applyString("streetNumber", listing.StreetNumber, req.StreetNumber, func(v string) { updated.StreetNumber = v })
	applyString("postalCode", listing.PostalCode, req.PostalCode, func(v string) { updated.PostalCode = v })
	applyString("area", listing.Area, req.Area, func(v string) { updated.Area = v })
	applyString("ownerName", listing.OwnerName, req.OwnerName, func(v string) { updated.OwnerName = v })
	applyString("notes", listing.Notes, req.Notes, func(v string) { updated.Notes = v })
	if req.Status != nil {
		if !domain.IsValidListingStatus(*req.Status) {
			return nil, fmt.Errorf("%w: %q is not a listing status", apperrors.ErrValidation, *req.Status)
		}
		newStatus := domain.ListingStatus(*req.Status)
		if newStatus != listing.Status {
			before["status"] = string(listing.Status)
			after["status"] = string(newStatus)
			updated.Status = newStatus
		}
	}

	if len(after) == 0 {
		return s.toResponse(ctx, listing)
	}

	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceListing,
		ResourceID:   listingID,
		Details: map[string]any{
			"before": before,
			"after":  after,
		},
		Timestamp: now,
	}

	if err := s.listingRepo.UpdateListing(ctx, updated, audit); err != nil {
		s.LogError(ctx, err, "failed to update listing", slog.String("listing_id", listingID))
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	return s.toResponse(ctx, &updated)
}

// DeleteListing removes the listing row, its gallery rows and then the
// stored image files. Leftover files after a failed remove are logged, not
// fatal.
func (s *listingService) DeleteListing(ctx context.Context, listingID string, requestingUserID string) error {
	if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return err
	}
	listing, err := s.listingRepo.FindListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: listing %s", apperrors.ErrNotFound, listingID)
		}
		return fmt.Errorf("failed to fetch listing: %w", err)
	}
	photos, err := s.listingRepo.FindPhotosByListing(ctx, listingID)
	if err != nil {
		return fmt.Errorf("failed to fetch listing photos: %w", err)
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionDelete,
		ResourceKind: domain.ResourceListing,
		ResourceID:   listingID,
		Details: map[string]any{
			"title":      listing.Title,
			"status":     string(listing.Status),
			"photoCount": len(photos),
		},
		Timestamp: time.Now().UTC(),
	}

	if err := s.listingRepo.DeleteListing(ctx, listingID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete listing", slog.String("listing_id", listingID))
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if listing.CoverPath != nil {
		if err := os.Remove(*listing.CoverPath); err != nil && !os.IsNotExist(err) {
			s.LogWarn(ctx, "failed to remove cover file", slog.String("path", *listing.CoverPath), slog.String("error", err.Error()))
		}
	}
	for _, photo := range photos {
		if err := os.Remove(photo.StoragePath); err != nil && !os.IsNotExist(err) {
			s.LogWarn(ctx, "failed to remove photo file", slog.String("path", photo.StoragePath), slog.String("error", err.Error()))
		}
	}
	return nil
}

// AddPhoto stores a gallery image and registers its row.
func (s *listingService) AddPhoto(ctx context.Context, listingID string, filename string, content io.Reader, uploaderUserID string) (*dto.ListingPhotoResponse, error) {
	if err := s.access.AuthorizeManager(ctx, uploaderUserID); err != nil {
		return nil, err
	}
	if _, err := s.listingRepo.FindListingByID(ctx, listingID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: listing %s", apperrors.ErrNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}

	now := time.Now().UTC()
	photo := domain.ListingPhoto{
		PhotoID:    uuid.NewString(),
		ListingID:  listingID,
		Filename:   filepath.Base(filename),
		UploadedBy: uploaderUserID,
		UploadedAt: now,
	}
	storagePath, err := s.storeImage("gallery_"+photo.PhotoID, filename, content)
	if err != nil {
		return nil, err
	}
	photo.StoragePath = storagePath

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &uploaderUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceListing,
		ResourceID:   listingID,
		Details: map[string]any{
			"photoID":  photo.PhotoID,
			"filename": photo.Filename,
		},
		Timestamp: now,
	}

	if err := s.listingRepo.SavePhoto(ctx, photo, audit); err != nil {
		os.Remove(storagePath)
		s.LogError(ctx, err, "failed to save listing photo", slog.String("listing_id", listingID))
		return nil, fmt.Errorf("failed to save listing photo: %w", err)
	}

	resp := dto.ToListingPhotoResponse(&photo)
	return &resp, nil
}

// RemovePhoto removes one gallery image and its stored file.
func (s *listingService) RemovePhoto(ctx context.Context, listingID string, photoID string, requestingUserID string) error {
	if err := s.access.AuthorizeManager(ctx, requestingUserID); err != nil {
		return err
	}
	photo, err := s.listingRepo.FindPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: photo %s", apperrors.ErrNotFound, photoID)
		}
		return fmt.Errorf("failed to fetch listing photo: %w", err)
	}
	if photo.ListingID != listingID {
		return fmt.Errorf("%w: photo %s", apperrors.ErrNotFound, photoID)
	}

	audit := domain.AuditRecord{
		RecordID:     uuid.NewString(),
		ActorID:      &requestingUserID,
		ActionKind:   domain.ActionUpdate,
		ResourceKind: domain.ResourceListing,
		ResourceID:   listingID,
		Details: map[string]any{
			"removedPhotoID": photoID,
			"filename":       photo.Filename,
		},
		Timestamp: time.Now().UTC(),
	}

	if err := s.listingRepo.DeletePhoto(ctx, photoID, audit); err != nil {
		s.LogError(ctx, err, "failed to delete listing photo", slog.String("photo_id", photoID))
		return fmt.Errorf("failed to delete listing photo: %w", err)
	}
	if err := os.Remove(photo.StoragePath); err != nil && !os.IsNotExist(err) {
		s.LogWarn(ctx, "failed to remove photo file", slog.String("path", photo.StoragePath), slog.String("error", err.Error()))
	}
	return nil
}

// ListListings returns every listing with its gallery, newest first.
func (s *listingService) ListListings(ctx context.Context) (*dto.ListListingsResponse, error) {
	listings, err := s.listingRepo.FindListings(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to list listings")
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	resp := &dto.ListListingsResponse{
		Listings: make([]dto.ListingResponse, len(listings)),
	}
	for i := range listings {
		photos, err := s.listingRepo.FindPhotosByListing(ctx, listings[i].ListingID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listing photos: %w", err)
		}
		resp.Listings[i] = dto.ToListingResponse(&listings[i], photos)
	}
	return resp, nil
}

// GetListingByID returns one listing with its gallery.
func (s *listingService) GetListingByID(ctx context.Context, listingID string) (*dto.ListingResponse, error) {
	listing, err := s.listingRepo.FindListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: listing %s", apperrors.ErrNotFound, listingID)
		}
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	return s.toResponse(ctx, listing)
}

// OpenCover streams the stored cover image.
func (s *listingService) OpenCover(ctx context.Context, listingID string) (string, io.ReadCloser, error) {
	listing, err := s.listingRepo.FindListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: listing %s", apperrors.ErrNotFound, listingID)
		}
		return "", nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if listing.CoverPath == nil {
		return "", nil, fmt.Errorf("%w: listing %s has no cover", apperrors.ErrNotFound, listingID)
	}
	f, err := os.Open(*listing.CoverPath)
	if err != nil {
		s.LogError(ctx, err, "stored cover missing", slog.String("listing_id", listingID), slog.String("path", *listing.CoverPath))
		return "", nil, fmt.Errorf("%w: stored file unavailable", apperrors.ErrInternal)
	}
	return filepath.Base(*listing.CoverPath), f, nil
}

// OpenPhoto streams one stored gallery image.
func (s *listingService) OpenPhoto(ctx context.Context, listingID string, photoID string) (string, io.ReadCloser, error) {
	photo, err := s.listingRepo.FindPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: photo %s", apperrors.ErrNotFound, photoID)
		}
		return "", nil, fmt.Errorf("failed to fetch listing photo: %w", err)
	}
	if photo.ListingID != listingID {
		return "", nil, fmt.Errorf("%w: photo %s", apperrors.ErrNotFound, photoID)
	}
	f, err := os.Open(photo.StoragePath)
	if err != nil {
		s.LogError(ctx, err, "stored photo missing", slog.String("photo_id", photoID), slog.String("path", photo.StoragePath))
		return "", nil, fmt.Errorf("%w: stored file unavailable", apperrors.ErrInternal)
	}
	return photo.Filename, f, nil
}
