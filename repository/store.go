package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names
const (
	CollectionQuotes  = "quotes"
	CollectionSales   = "sales"
	CollectionExports = "exports"
)

// ErrNotFound is returned when a record does not exist in its collection
var ErrNotFound = errors.New("record not found")

// Record is one stored JSON document of a collection
type Record struct {
	ID   string
	Data json.RawMessage
}

// Store is the generic collection store behind every repository.
// Add assigns the record ID; Delete reports whether anything was removed.
type Store interface {
	Get(ctx context.Context, collection string) ([]Record, error)
	GetByID(ctx context.Context, collection, id string) (Record, error)
	Add(ctx context.Context, collection string, item any) (string, error)
	Update(ctx context.Context, collection, id string, item any) error
	Delete(ctx context.Context, collection, id string) (bool, error)
}

func encode(item any) (json.RawMessage, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

// decodeAll unmarshals every record, stamping the record ID onto each value
func decodeAll[T any](recs []Record, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := decode(rec, setID)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func decode[T any](rec Record, setID func(*T, string)) (*T, error) {
	var v T
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", rec.ID, err)
	}
	setID(&v, rec.ID)
	return &v, nil
}
