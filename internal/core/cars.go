package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const carColumns = "id, brand, model, year, color, owner_id, created_at"

// CarRepo provides CRUD operations for cars, enforcing the owner
// foreign-key relationship through the owner repository.
type CarRepo struct {
	pool   *pgxpool.Pool
	owners *OwnerRepo
}

// NewCarRepo creates a car repository backed by the given pool.
func NewCarRepo(pool *pgxpool.Pool, owners *OwnerRepo) *CarRepo {
	return &CarRepo{pool: pool, owners: owners}
}

// List returns all cars, or only those of one owner when ownerID is non-nil.
func (r *CarRepo) List(ctx context.Context, ownerID *int64) ([]Car, error) {
	query := "SELECT " + carColumns + " FROM cars ORDER BY id"
	args := []any{}
	if ownerID != nil {
		query = "SELECT " + carColumns + " FROM cars WHERE owner_id = $1 ORDER BY id"
		args = append(args, *ownerID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	cars := []Car{}
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// GetByID returns the car with the given id, or ErrCarNotFound.
func (r *CarRepo) GetByID(ctx context.Context, id int64) (Car, error) {
	var c Car
	err := r.pool.QueryRow(ctx, "SELECT "+carColumns+" FROM cars WHERE id = $1", id).
		Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.OwnerID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Car{}, ErrCarNotFound
	}
	if err != nil {
		return Car{}, fmt.Errorf("get car %d: %w", id, err)
	}
	return c, nil
}

// Create validates the owner reference and inserts a new car. The existence
// check and the insert share one transaction, so a failed validation
// persists nothing and a validated owner cannot vanish mid-insert.
// Returns ErrOwnerNotFound when owner_id does not resolve.
func (r *CarRepo) Create(ctx context.Context, params NewCar) (Car, error) {
	if strings.TrimSpace(params.Brand) == "" {
		return Car{}, Malformed("brand must not be empty", nil)
	}
	if strings.TrimSpace(params.Model) == "" {
		return Car{}, Malformed("model must not be empty", nil)
	}
	if strings.TrimSpace(params.Color) == "" {
		return Car{}, Malformed("color must not be empty", nil)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Car{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	exists, err := r.owners.Exists(ctx, tx, params.OwnerID)
	if err != nil {
		return Car{}, err
	}
	if !exists {
		return Car{}, ErrOwnerNotFound
	}

	var c Car
	err = tx.QueryRow(ctx,
		"INSERT INTO cars (brand, model, year, color, owner_id) VALUES ($1, $2, $3, $4, $5) RETURNING "+carColumns,
		params.Brand, params.Model, params.Year, params.Color, params.OwnerID,
	).Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		return Car{}, fmt.Errorf("create car: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Car{}, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

// Update applies a partial update with the same merge semantics as owner
// updates. When OwnerID is present it is revalidated inside the same
// transaction before any field is written; an invalid owner aborts the
// whole update with no partial application.
func (r *CarRepo) Update(ctx context.Context, id int64, u CarUpdate) (Car, error) {
	if u.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Car{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if u.OwnerID != nil {
		exists, err := r.owners.Exists(ctx, tx, *u.OwnerID)
		if err != nil {
			return Car{}, err
		}
		if !exists {
			return Car{}, ErrOwnerNotFound
		}
	}

	sb := NewSetBuilder()
	if u.Brand != nil {
		sb.Set("brand", *u.Brand)
	}
	if u.Model != nil {
		sb.Set("model", *u.Model)
	}
	if u.Year != nil {
		sb.Set("year", *u.Year)
	}
	if u.Color != nil {
		sb.Set("color", *u.Color)
	}
	if u.OwnerID != nil {
		sb.Set("owner_id", *u.OwnerID)
	}
	idArg := sb.Arg(id)
	setClause, args := sb.Build()

	var c Car
	err = tx.QueryRow(ctx,
		"UPDATE cars "+setClause+" WHERE id = "+idArg+" RETURNING "+carColumns,
		args...,
	).Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.OwnerID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Car{}, ErrCarNotFound
	}
	if err != nil {
		return Car{}, fmt.Errorf("update car %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Car{}, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}

// Delete removes a car. Deletion is idempotent: deleting an absent id
// still reports success.
func (r *CarRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM cars WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete car %d: %w", id, err)
	}
	return nil
}
