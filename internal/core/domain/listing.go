package domain

import "time"

// ListingStatus is the sale state of a marketplace property.
type ListingStatus string

const (
	ListingForSale  ListingStatus = "FOR_SALE"
	ListingReserved ListingStatus = "RESERVED"
	ListingSold     ListingStatus = "SOLD"
)

// IsValidListingStatus checks whether s names a known listing status.
func IsValidListingStatus(s string) bool {
	switch ListingStatus(s) {
	case ListingForSale, ListingReserved, ListingSold:
		return true
	}
	return false
}

// Listing is a property offered on the company marketplace, independent of
// any construction project. Visible to every authenticated user; only
// managing roles mutate it.
type Listing struct {
	ListingID    string        `json:"listingID" db:"listing_id"`
	Title        string        `json:"title" db:"title"`
	Address      string        `json:"address" db:"address"`
	District     string        `json:"district" db:"district"`
	StreetNumber string        `json:"streetNumber" db:"street_number"`
	PostalCode   string        `json:"postalCode" db:"postal_code"`
	Area         string        `json:"area" db:"area"` // free-form, e.g. "120m2"
	OwnerName    string        `json:"ownerName" db:"owner_name"`
	Notes        string        `json:"notes" db:"notes"`
	Status       ListingStatus `json:"status" db:"status"`
	CoverPath    *string       `json:"-" db:"cover_path"` // stored cover image, nil when none was uploaded
	AuditFields
}

// ListingPhoto is one gallery image attached to a listing.
type ListingPhoto struct {
	PhotoID     string    `json:"photoID" db:"photo_id"`
	ListingID   string    `json:"listingID" db:"listing_id"`
	Filename    string    `json:"filename" db:"filename"`
	StoragePath string    `json:"-" db:"storage_path"`
	UploadedBy  string    `json:"uploadedBy" db:"uploaded_by"`
	UploadedAt  time.Time `json:"uploadedAt" db:"uploaded_at"`
}
