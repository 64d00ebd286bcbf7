package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when an update raced with another writer.
	ErrVersionConflict = errors.New("record was modified concurrently")
	// ErrDuplicate is returned when a unique key already exists.
	ErrDuplicate = errors.New("record already exists")
)

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
