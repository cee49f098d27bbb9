package services

import (
	"context"
	"io"

	"github.com/buildtrack-app/buildtrack-backend/internal/dto"
)

// ListingReaderSvc defines read operations for marketplace listings.
// Reads are open to every authenticated user.
type ListingReaderSvc interface {
	// ListListings retrieves all listings with their galleries, newest first.
	ListListings(ctx context.Context) (*dto.ListListingsResponse, error)

	// GetListingByID retrieves one listing with its gallery.
	GetListingByID(ctx context.Context, listingID string) (*dto.ListingResponse, error)

	// OpenCover streams a listing's stored cover image.
	OpenCover(ctx context.Context, listingID string) (string, io.ReadCloser, error)

	// OpenPhoto streams one gallery photo.
	OpenPhoto(ctx context.Context, listingID string, photoID string) (string, io.ReadCloser, error)
}

// ListingWriterSvc defines write operations for marketplace listings.
// Writes require a managing role.
type ListingWriterSvc interface {
	// CreateListing publishes a property, optionally storing a cover image.
	// coverContent may be nil when no cover was uploaded.
	CreateListing(ctx context.Context, req dto.CreateListingRequest, coverFilename string, coverContent io.Reader, creatorUserID string) (*dto.ListingResponse, error)

	// UpdateListing applies partial updates to a listing.
	UpdateListing(ctx context.Context, listingID string, req dto.UpdateListingRequest, requestingUserID string) (*dto.ListingResponse, error)

	// DeleteListing removes a listing, its gallery rows and the stored images.
	DeleteListing(ctx context.Context, listingID string, requestingUserID string) error

	// AddPhoto stores a gallery image on a listing.
	AddPhoto(ctx context.Context, listingID string, filename string, content io.Reader, uploaderUserID string) (*dto.ListingPhotoResponse, error)

	// RemovePhoto removes one gallery image.
	RemovePhoto(ctx context.Context, listingID string, photoID string, requestingUserID string) error
}

// ListingSvcFacade combines all listing-related service interfaces
type ListingSvcFacade interface {
	ListingReaderSvc
	ListingWriterSvc
}
