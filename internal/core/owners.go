package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carowners/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ownerColumns = "id, name, age, email, created_at"

// OwnerRepo provides CRUD and existence-check operations for owners.
// Every call fetches from storage; no state is cached in process.
type OwnerRepo struct {
	pool *pgxpool.Pool
}

// NewOwnerRepo creates an owner repository backed by the given pool.
func NewOwnerRepo(pool *pgxpool.Pool) *OwnerRepo {
	return &OwnerRepo{pool: pool}
}

// List returns all owners in id order.
func (r *OwnerRepo) List(ctx context.Context) ([]Owner, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+ownerColumns+" FROM car_owners ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	owners := []Owner{}
	for rows.Next() {
		var o Owner
		if err := rows.Scan(&o.ID, &o.Name, &o.Age, &o.Email, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

// GetByID returns the owner with the given id, or ErrOwnerNotFound.
func (r *OwnerRepo) GetByID(ctx context.Context, id int64) (Owner, error) {
	return getOwner(ctx, r.pool, id)
}

func getOwner(ctx context.Context, db store.DBTX, id int64) (Owner, error) {
	var o Owner
	err := db.QueryRow(ctx, "SELECT "+ownerColumns+" FROM car_owners WHERE id = $1", id).
		Scan(&o.ID, &o.Name, &o.Age, &o.Email, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Owner{}, ErrOwnerNotFound
	}
	if err != nil {
		return Owner{}, fmt.Errorf("get owner %d: %w", id, err)
	}
	return o, nil
}

// Exists reports whether an owner with the given id is present.
// It accepts a DBTX so callers can check inside their own transaction.
func (r *OwnerRepo) Exists(ctx context.Context, db store.DBTX, id int64) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM car_owners WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("owner exists %d: %w", id, err)
	}
	return exists, nil
}

// Create validates and inserts a new owner, assigning id and created_at.
// Returns ErrDuplicateEmail when the email is already registered.
func (r *OwnerRepo) Create(ctx context.Context, params NewOwner) (Owner, error) {
	if strings.TrimSpace(params.Name) == "" {
		return Owner{}, Malformed("name must not be empty", nil)
	}
	if strings.TrimSpace(params.Email) == "" {
		return Owner{}, Malformed("email must not be empty", nil)
	}

	var o Owner
	err := r.pool.QueryRow(ctx,
		"INSERT INTO car_owners (name, age, email) VALUES ($1, $2, $3) RETURNING "+ownerColumns,
		params.Name, params.Age, params.Email,
	).Scan(&o.ID, &o.Name, &o.Age, &o.Email, &o.CreatedAt)
	if isUniqueViolation(err) {
		return Owner{}, ErrDuplicateEmail
	}
	if err != nil {
		return Owner{}, fmt.Errorf("create owner: %w", err)
	}
	return o, nil
}

// Update applies a partial update: only fields present in u are written.
// An empty update returns the current owner without touching storage.
func (r *OwnerRepo) Update(ctx context.Context, id int64, u OwnerUpdate) (Owner, error) {
	if u.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	sb := NewSetBuilder()
	if u.Name != nil {
		sb.Set("name", *u.Name)
	}
	if u.Age != nil {
		sb.Set("age", *u.Age)
	}
	if u.Email != nil {
		sb.Set("email", *u.Email)
	}

	idArg := sb.Arg(id)
	setClause, args := sb.Build()

	var o Owner
	err := r.pool.QueryRow(ctx,
		"UPDATE car_owners "+setClause+" WHERE id = "+idArg+" RETURNING "+ownerColumns,
		args...,
	).Scan(&o.ID, &o.Name, &o.Age, &o.Email, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Owner{}, ErrOwnerNotFound
	}
	if isUniqueViolation(err) {
		return Owner{}, ErrDuplicateEmail
	}
	if err != nil {
		return Owner{}, fmt.Errorf("update owner %d: %w", id, err)
	}
	return o, nil
}

// Delete removes an owner, but only when no car references it. The
// dependents check and the delete run as one guarded statement, so no
// interleaved car creation can slip between them.
// Returns ErrOwnerHasCars or ErrOwnerNotFound when nothing was deleted.
func (r *OwnerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM car_owners WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM cars WHERE owner_id = $1)",
		id,
	)
	if err != nil {
		return fmt.Errorf("delete owner %d: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing deleted: classify for the caller.
	exists, err := r.Exists(ctx, r.pool, id)
	if err != nil {
		return err
	}
	if exists {
		return ErrOwnerHasCars
	}
	return ErrOwnerNotFound
}
