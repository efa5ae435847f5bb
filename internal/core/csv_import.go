package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Importer drives bulk CSV ingestion. Each import runs inside a single
// transaction: a batch-level fault rolls back every row already written,
// while the designed per-row skips leave the rest of the batch intact.
type Importer struct {
	pool   *pgxpool.Pool
	owners *OwnerRepo
}

// NewImporter creates an importer backed by the given pool.
func NewImporter(pool *pgxpool.Pool, owners *OwnerRepo) *Importer {
	return &Importer{pool: pool, owners: owners}
}

// ImportOwners parses CSV bytes and inserts owners row by row.
//
// Rows missing name or email are skipped. Email collisions are silently
// skipped via insert-ignore-on-conflict. A non-integer age or undecodable
// input aborts the whole import with nothing committed. Imported counts
// rows actually inserted, not rows attempted.
func (im *Importer) ImportOwners(ctx context.Context, data []byte) (ImportSummary, error) {
	idx, records, err := decodeCSV(data)
	if err != nil {
		return ImportSummary{}, err
	}

	tx, err := im.pool.Begin(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	imported := 0
	for i, record := range records {
		if isBlankRow(record) {
			continue
		}

		params, skip, err := ownerRowParams(record, idx)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("line %d: %w", i+2, err)
		}
		if skip {
			continue
		}

		tag, err := tx.Exec(ctx,
			"INSERT INTO car_owners (name, age, email) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
			params.Name, params.Age, params.Email,
		)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("line %d: insert owner: %w", i+2, err)
		}
		imported += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportSummary{}, fmt.Errorf("commit: %w", err)
	}

	return ImportSummary{
		ImportID:   uuid.NewString(),
		Message:    fmt.Sprintf("Imported %d car owners", imported),
		Imported:   imported,
		UploadedAt: time.Now(),
	}, nil
}

// ImportCars parses CSV bytes and inserts cars row by row.
//
// Rows whose owner does not exist are skipped. A non-integer year or
// owner_id aborts the whole import with nothing committed; this fail-fast
// behavior is deliberate and differs from the per-row tolerance of the
// owner import.
func (im *Importer) ImportCars(ctx context.Context, data []byte) (ImportSummary, error) {
	idx, records, err := decodeCSV(data)
	if err != nil {
		return ImportSummary{}, err
	}

	tx, err := im.pool.Begin(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	imported := 0
	for i, record := range records {
		if isBlankRow(record) {
			continue
		}

		params, err := carRowParams(record, idx)
		if err != nil {
			return ImportSummary{}, fmt.Errorf("line %d: %w", i+2, err)
		}

		exists, err := im.owners.Exists(ctx, tx, params.OwnerID)
		if err != nil {
			return ImportSummary{}, err
		}
		if !exists {
			continue
		}

		if _, err := tx.Exec(ctx,
			"INSERT INTO cars (brand, model, year, color, owner_id) VALUES ($1, $2, $3, $4, $5)",
			params.Brand, params.Model, params.Year, params.Color, params.OwnerID,
		); err != nil {
			return ImportSummary{}, fmt.Errorf("line %d: insert car: %w", i+2, err)
		}
		imported++
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportSummary{}, fmt.Errorf("commit: %w", err)
	}

	return ImportSummary{
		ImportID:   uuid.NewString(),
		Message:    fmt.Sprintf("Imported %d cars", imported),
		Imported:   imported,
		UploadedAt: time.Now(),
	}, nil
}
