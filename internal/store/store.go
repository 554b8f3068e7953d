// Package store persists uploaded CSV files so that plot requests can refer
// back to them by ID.
//
// Two implementations are provided: [MemoryStore] for development and tests,
// and [PostgresStore] backed by a pgx connection pool.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no upload exists for an ID.
var ErrNotFound = errors.New("upload not found")

// Upload is a stored file with the request metadata it arrived with.
type Upload struct {
	ID         uuid.UUID
	FileName   string
	Content    string
	Size       int64
	RemoteAddr string
	UserAgent  string
	CreatedAt  time.Time
}

// Summary describes an upload without its content.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary returns the listing view of u.
func (u Upload) Summary() Summary {
	return Summary{
		ID:        u.ID,
		FileName:  u.FileName,
		Size:      u.Size,
		CreatedAt: u.CreatedAt,
	}
}
