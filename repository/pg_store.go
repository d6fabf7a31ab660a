package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const schema = `
	CREATE TABLE IF NOT EXISTS collection_records (
		id         TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS collection_records_collection_idx
		ON collection_records (collection, created_at);
`

// PGStore keeps collections as JSONB rows in Postgres
type PGStore struct {
	db     *sql.DB
	logger *zap.Logger
	newID  func() string
}

// NewPGStore creates a store over an open database handle
func NewPGStore(db *sql.DB, logger *zap.Logger) *PGStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PGStore{db: db, logger: logger, newID: uuid.NewString}
}

var _ Store = (*PGStore)(nil)

// EnsureSchema creates the records table when missing
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		s.logger.Error("EnsureSchema: failed", zap.Error(err))
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get returns every record of the collection in insertion order
func (s *PGStore) Get(ctx context.Context, collection string) ([]Record, error) {
	query := `
		SELECT id, data
		FROM collection_records
		WHERE collection = $1
		ORDER BY created_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		s.logger.Error("Get: query failed", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", collection, err)
		}
		recs = append(recs, Record{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}
	return recs, nil
}

// GetByID returns one record or ErrNotFound
func (s *PGStore) GetByID(ctx context.Context, collection, id string) (Record, error) {
	query := `SELECT id, data FROM collection_records WHERE collection = $1 AND id = $2`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&id, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		s.logger.Error("GetByID: query failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return Record{}, fmt.Errorf("failed to fetch %s record: %w", collection, err)
	}
	return Record{ID: id, Data: data}, nil
}

// Add inserts the item and returns its new ID
func (s *PGStore) Add(ctx context.Context, collection string, item any) (string, error) {
	data, err := encode(item)
	if err != nil {
		return "", err
	}

	id := s.newID()
	query := `INSERT INTO collection_records (id, collection, data) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, id, collection, []byte(data)); err != nil {
		s.logger.Error("Add: insert failed", zap.String("collection", collection), zap.Error(err))
		return "", fmt.Errorf("failed to insert %s record: %w", collection, err)
	}
	s.logger.Debug("Add: inserted", zap.String("collection", collection), zap.String("id", id))
	return id, nil
}

// Update replaces the stored document. ErrNotFound when no row matches.
func (s *PGStore) Update(ctx context.Context, collection, id string, item any) error {
	data, err := encode(item)
	if err != nil {
		return err
	}

	query := `
		UPDATE collection_records
		SET data = $1, updated_at = NOW()
		WHERE collection = $2 AND id = $3
	`
	res, err := s.db.ExecContext(ctx, query, []byte(data), collection, id)
	if err != nil {
		s.logger.Error("Update: failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update %s record: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record, reporting whether it existed
func (s *PGStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	query := `DELETE FROM collection_records WHERE collection = $1 AND id = $2`
	res, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		s.logger.Error("Delete: failed", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete %s record: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
