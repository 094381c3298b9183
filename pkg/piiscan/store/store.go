package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
)

// Store persists analysis runs.
type Store interface {
	Close() error

	// SaveRun stores a run and its findings. Saving an existing ID fails
	// with internalerr.ErrDuplicate.
	SaveRun(ctx context.Context, r Run) error
	// GetRun returns internalerr.ErrNotFound for unknown IDs.
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is one analysis of one text. The text itself is never stored.
type Run struct {
	ID         string
	Language   string
	CreatedAt  time.Time
	TextLength int
	Entities   []string // requested entity types
	Findings   []Finding
}

// Finding is a stored recognizer result.
type Finding struct {
	EntityType  string
	Start       int
	End         int
	Score       float64
	Recognizer  string
	ContextWord string
}

// Validate checks the fields every backend relies on.
func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id is required: %w", internalerr.ErrInvalidInput)
	}
	for i, f := range r.Findings {
		if f.Start < 0 || f.End <= f.Start || f.End > r.TextLength {
			return fmt.Errorf("finding %d [%d,%d) outside text of length %d: %w", i, f.Start, f.End, r.TextLength, internalerr.ErrInvalidInput)
		}
	}
	return nil
}
