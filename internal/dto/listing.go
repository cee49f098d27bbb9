package dto

import (
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
)

// --- Marketplace listing DTOs ---

// CreateListingRequest defines data for publishing a property on the
// marketplace. The cover image arrives as a separate multipart field.
type CreateListingRequest struct {
	Title        string `json:"title" binding:"required"`
	Address      string `json:"address"`
	District     string `json:"district"`
	StreetNumber string `json:"streetNumber"`
	PostalCode   string `json:"postalCode"`
	Area         string `json:"area"`
	OwnerName    string `json:"ownerName"`
	Notes        string `json:"notes"`
	Status       string `json:"status" binding:"omitempty,oneof=FOR_SALE RESERVED SOLD"`
}

// UpdateListingRequest defines data for updating a listing. Pointers signal
// which fields to touch.
type UpdateListingRequest struct {
	Title        *string `json:"title"`
	Address      *string `json:"address"`
	District     *string `json:"district"`
	StreetNumber *string `json:"streetNumber"`
	PostalCode   *string `json:"postalCode"`
	Area         *string `json:"area"`
	OwnerName    *string `json:"ownerName"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status" binding:"omitempty,oneof=FOR_SALE RESERVED SOLD"`
}

// ListingPhotoResponse defines data returned for one gallery photo.
type ListingPhotoResponse struct {
	PhotoID    string    `json:"photoID"`
	Filename   string    `json:"filename"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ToListingPhotoResponse converts domain.ListingPhoto to DTO. The storage
// path stays server-side.
func ToListingPhotoResponse(p *domain.ListingPhoto) ListingPhotoResponse {
	return ListingPhotoResponse{
		PhotoID:    p.PhotoID,
		Filename:   p.Filename,
		UploadedBy: p.UploadedBy,
		UploadedAt: p.UploadedAt,
	}
}

// ListingResponse defines data returned for a listing.
type ListingResponse struct {
	ListingID    string                 `json:"listingID"`
	Title        string                 `json:"title"`
	Address      string                 `json:"address,omitempty"`
	District     string                 `json:"district,omitempty"`
	StreetNumber string                 `json:"streetNumber,omitempty"`
	PostalCode   string                 `json:"postalCode,omitempty"`
	Area         string                 `json:"area,omitempty"`
	OwnerName    string                 `json:"ownerName,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	Status       string                 `json:"status"`
	HasCover     bool                   `json:"hasCover"`
	Photos       []ListingPhotoResponse `json:"photos,omitempty"`
	CreatedBy    string                 `json:"createdBy"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// ToListingResponse converts domain.Listing to DTO, embedding its gallery.
func ToListingResponse(l *domain.Listing, photos []domain.ListingPhoto) ListingResponse {
	photoResponses := make([]ListingPhotoResponse, len(photos))
	for i, p := range photos {
		photoResponses[i] = ToListingPhotoResponse(&p)
	}
	return ListingResponse{
		ListingID:    l.ListingID,
		Title:        l.Title,
		Address:      l.Address,
		District:     l.District,
		StreetNumber: l.StreetNumber,
		PostalCode:   l.PostalCode,
		Area:         l.Area,
		OwnerName:    l.OwnerName,
		Notes:        l.Notes,
		Status:       string(l.Status),
		HasCover:     l.CoverPath != nil,
		Photos:       photoResponses,
		CreatedBy:    l.CreatedBy,
		CreatedAt:    l.CreatedAt,
	}
}

// ListListingsResponse wraps the list of marketplace listings.
type ListListingsResponse struct {
	Listings []ListingResponse `json:"listings"`
}
