package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/buildtrack-app/buildtrack-backend/internal/apperrors"
	"github.com/buildtrack-app/buildtrack-backend/internal/core/domain"
	portsrepo "github.com/buildtrack-app/buildtrack-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

var FULL_USER_SELECT_QUERY = `
SELECT
	u.user_id, u.username, u.name, u.email, u.phone, u.role, u.password_hash,
	u.created_at, u.created_by, u.last_updated_at, u.last_updated_by, u.deleted_at
FROM users u
`

func (r *PgxUserRepository) getUsers(ctx context.Context, filterQuery string, args ...any) ([]domain.User, error) {
	query := FULL_USER_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.User{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect user rows", err)
	}
	return users, nil
}

// FindUserByID retrieves a user including soft-deleted ones; callers decide
// whether a deleted user still counts.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	users, err := r.getUsers(ctx, `WHERE u.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &users[0], nil
}

// FindUserByUsername retrieves a live user by username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.getUsers(ctx, `WHERE u.username = $1 AND u.deleted_at IS NULL`, username)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &users[0], nil
}

// FindUsers lists live users.
func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	return r.getUsers(ctx, `WHERE u.deleted_at IS NULL ORDER BY u.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// SaveUser inserts a new user plus its audit record in one transaction.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO users (
			user_id, username, name, email, phone, role, password_hash,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.Name,
		user.Email,
		user.Phone,
		string(user.Role),
		user.PasswordHash,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("username " + user.Username + " already exists")
		}
		return apperrors.NewAppError(500, "failed to insert user "+user.UserID, err)
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateUser updates a user's details plus its audit record in one
// transaction.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE users
		SET name = $2, email = $3, phone = $4, role = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := tx.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Email,
		user.Phone,
		string(user.Role),
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update user "+user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// MarkUserDeleted soft-deletes a user plus its audit record in one
// transaction. The user's audit records stay behind.
func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE users
		SET deleted_at = $2, last_updated_at = $2
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := tx.Exec(ctx, query, userID, deletedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark user deleted "+userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := insertAuditRecordTx(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
