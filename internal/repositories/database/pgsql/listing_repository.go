package pgsql

import (
	"context"
	"errors"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxListingRepository struct {
	BaseRepository
}

// newPgxListingRepository creates a new repository for marketplace listings.
func newPgxListingRepository(pool *pgxpool.Pool) portsrepo.ListingRepositoryFacade {
	return &PgxListingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ListingRepositoryFacade = (*PgxListingRepository)(nil)

var FULL_LISTING_SELECT_QUERY = `
SELECT
	l.listing_id, l.title, l.address, l.district, l.street_number,
	l.postal_code, l.area, l.owner_name, l.notes, l.status, l.cover_path,
	l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
FROM listings l
`

var FULL_LISTING_PHOTO_SELECT_QUERY = `
SELECT
	p.photo_id, p.listing_id, p.filename, p.storage_path, p.uploaded_by,
	p.uploaded_at
FROM listing_photos p
`

func (r *PgxListingRepository) getListings(ctx context.Context, filterQuery string, args ...any) ([]domain.Listing, error) {
	query := FULL_LISTING_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query listings", err)
	}
	defer rows.Close()
	listings, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Listing])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Listing{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect listing rows", err)
	}
	return listings, nil
}

func (r *PgxListingRepository) getPhotos(ctx context.Context, filterQuery string, args ...any) ([]domain.ListingPhoto, error) {
	query := FULL_LISTING_PHOTO_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query listing photos", err)
	}
	defer rows.Close()
	photos, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ListingPhoto])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.ListingPhoto{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect listing photo rows", err)
	}
	return photos, nil
}

// FindListingByID retrieves a single listing.
func (r *PgxListingRepository) FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	listings, err := r.getListings(ctx, `WHERE l.listing_id = $1`, listingID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &listings[0], nil
}

// FindListings lists every marketplace listing, newest first.
func (r *PgxListingRepository) FindListings(ctx context.Context) ([]domain.Listing, error) {
	return r.getListings(ctx, `ORDER BY l.created_at DESC`)
}

// FindPhotoByID retrieves a single gallery photo.
func (r *PgxListingRepository) FindPhotoByID(ctx context.Context, photoID string) (*domain.ListingPhoto, error) {
	photos, err := r.getPhotos(ctx, `WHERE p.photo_id = $1`, photoID)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &photos[0], nil
}

// FindPhotosByListing lists a listing's gallery in upload order.
func (r *PgxListingRepository) FindPhotosByListing(ctx context.Context, listingID string) ([]domain.ListingPhoto, error) {
	return r.getPhotos(ctx, `WHERE p.listing_id = $1 ORDER BY p.uploaded_at ASC`, listingID)
}

// SaveListing inserts a listing plus its audit record in one transaction.
func (r *PgxListingRepository) SaveListing(ctx context.Context, listing domain.Listing, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO listings (
			listing_id, title, address, district, street_number, postal_code,
			area, owner_name, notes, status, cover_path,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		listing.ListingID,
		listing.Title,
		listing.Address,
		listing.District,
		listing.StreetNumber,
		listing.PostalCode,
		listing.Area,
		listing.OwnerName,
		listing.Notes,
		string(listing.Status),
		listing.CoverPath,
		listing.CreatedAt,
		listing.CreatedBy,
		listing.LastUpdatedAt,
		listing.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert listing "+listing.ListingID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateListing updates a listing plus its audit record in one transaction.
func (r *PgxListingRepository) UpdateListing(ctx context.Context, listing domain.Listing, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE listings
		SET title = $2, address = $3, district = $4, street_number = $5,
			postal_code = $6, area = $7, owner_name = $8, notes = $9,
			status = $10, cover_path = $11,
			last_updated_at = $12, last_updated_by = $13
		WHERE listing_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		listing.ListingID,
		listing.Title,
		listing.Address,
		listing.District,
		listing.StreetNumber,
		listing.PostalCode,
		listing.Area,
		listing.OwnerName,
		listing.Notes,
		string(listing.Status),
		listing.CoverPath,
		listing.LastUpdatedAt,
		listing.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update listing "+listing.ListingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteListing removes a listing plus writes its audit record in one
// transaction. Gallery rows go via the foreign key cascade.
func (r *PgxListingRepository) DeleteListing(ctx context.Context, listingID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM listings WHERE listing_id = $1`, listingID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete listing "+listingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SavePhoto inserts a gallery photo plus its audit record in one
// transaction.
func (r *PgxListingRepository) SavePhoto(ctx context.Context, photo domain.ListingPhoto, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO listing_photos (
			photo_id, listing_id, filename, storage_path, uploaded_by, uploaded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, query,
		photo.PhotoID,
		photo.ListingID,
		photo.Filename,
		photo.StoragePath,
		photo.UploadedBy,
		photo.UploadedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert listing photo "+photo.PhotoID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeletePhoto removes a gallery photo plus writes its audit record in one
// transaction.
func (r *PgxListingRepository) DeletePhoto(ctx context.Context, photoID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM listing_photos WHERE photo_id = $1`, photoID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete listing photo "+photoID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
