package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog/indexer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IndexRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveIndex(ctx context.Context, index *domain.CatalogIndex) error
	GetBucket(ctx context.Context, source, categoryID string) ([]string, error)
	GetIndex(ctx context.Context, source string) (*domain.CatalogIndex, error)
}

type indexRepository struct {
	db *pgxpool.Pool
}

func NewIndexRepository(db *pgxpool.Pool) IndexRepository {
	return &indexRepository{
		db: db,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS catalog_index (
	source      TEXT        PRIMARY KEY,
	fingerprint TEXT        NOT NULL,
	item_count  INTEGER     NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_bucket (
	source      TEXT  NOT NULL REFERENCES catalog_index (source) ON DELETE CASCADE,
	category_id TEXT  NOT NULL,
	item_ids    JSONB NOT NULL,
	PRIMARY KEY (source, category_id)
);`

func (r *indexRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create index schema: %w", err)
	}
	return nil
}

// SaveIndex replaces everything stored for the index's source in one transaction
func (r *indexRepository) SaveIndex(ctx context.Context, index *domain.CatalogIndex) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO catalog_index (source, fingerprint, item_count, updated_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (source)
	DO UPDATE SET fingerprint = $2, item_count = $3, updated_at = $4`,
		index.Source, index.Fingerprint, index.ItemCount, index.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save index header for %s: %w", index.Source, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM catalog_bucket WHERE source = $1`, index.Source); err != nil {
		return fmt.Errorf("failed to clear buckets for %s: %w", index.Source, err)
	}

	batch := &pgx.Batch{}
	for categoryID, itemIDs := range index.Categories {
		batch.Queue(`INSERT INTO catalog_bucket (source, category_id, item_ids) VALUES ($1, $2, $3)`,
			index.Source, categoryID, itemIDs)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save buckets for %s: %w", index.Source, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit index for %s: %w", index.Source, err)
	}

	return nil
}

// GetBucket returns the item ids of one bucket, empty when the bucket does not exist
func (r *indexRepository) GetBucket(ctx context.Context, source, categoryID string) ([]string, error) {
	var itemIDs []string
	err := r.db.QueryRow(ctx,
		`SELECT item_ids FROM catalog_bucket WHERE source = $1 AND category_id = $2`,
		source, categoryID).Scan(&itemIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to load bucket %s for %s: %w", categoryID, source, err)
	}

	return itemIDs, nil
}

// GetIndex loads a whole index, nil when the source was never indexed
func (r *indexRepository) GetIndex(ctx context.Context, source string) (*domain.CatalogIndex, error) {
	index := &domain.CatalogIndex{
		Source:     source,
		Categories: make(domain.CategorizedIDs),
	}

	err := r.db.QueryRow(ctx,
		`SELECT fingerprint, item_count, updated_at FROM catalog_index WHERE source = $1`,
		source).Scan(&index.Fingerprint, &index.ItemCount, &index.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load index for %s: %w", source, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT category_id, item_ids FROM catalog_bucket WHERE source = $1`, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load buckets for %s: %w", source, err)
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID string
		var itemIDs []string
		if err := rows.Scan(&categoryID, &itemIDs); err != nil {
			return nil, fmt.Errorf("failed to scan bucket for %s: %w", source, err)
		}
		index.Categories[categoryID] = itemIDs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read buckets for %s: %w", source, err)
	}

	return index, nil
}
