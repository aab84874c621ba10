// Package postgres is the sqlx-backed Repository implementation. Maps and
// slices on the domain types are stored as JSONB columns via their
// Valuer/Scanner implementations.
package postgres

import (
	"errors"

	"github.com/lib/pq"

	"github.com/andresuchdata/shopstock/backend-go/internal/repository"
)

type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// translateErr maps driver-level failures onto the repository sentinels so
// callers never import pq.
func translateErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrConflict
	}
	return err
}
