package repositories

import (
	"context"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// ListingReader defines read operations for marketplace listings
type ListingReader interface {
	// FindListingByID retrieves a specific listing by its ID.
	FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error)

	// FindListings retrieves all listings, newest first.
	FindListings(ctx context.Context) ([]domain.Listing, error)

	// FindPhotoByID retrieves a specific gallery photo by its ID.
	FindPhotoByID(ctx context.Context, photoID string) (*domain.ListingPhoto, error)

	// FindPhotosByListing retrieves a listing's gallery photos.
	FindPhotosByListing(ctx context.Context, listingID string) ([]domain.ListingPhoto, error)
}

// ListingWriter defines write operations for marketplace listings.
// Mutations persist the audit record in the same transaction.
type ListingWriter interface {
	// SaveListing persists a new listing.
	SaveListing(ctx context.Context, listing domain.Listing, audit domain.AuditRecord) error

	// UpdateListing updates an existing listing.
	UpdateListing(ctx context.Context, listing domain.Listing, audit domain.AuditRecord) error

	// DeleteListing removes a listing; gallery photo rows go with it.
	DeleteListing(ctx context.Context, listingID string, audit domain.AuditRecord) error

	// SavePhoto persists a new gallery photo.
	SavePhoto(ctx context.Context, photo domain.ListingPhoto, audit domain.AuditRecord) error

	// DeletePhoto removes a gallery photo.
	DeletePhoto(ctx context.Context, photoID string, audit domain.AuditRecord) error
}

// ListingRepositoryFacade combines all listing-related repository interfaces
type ListingRepositoryFacade interface {
	ListingReader
	ListingWriter
}
