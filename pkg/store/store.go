// Package store persists analysis reports.
//
// Two backends implement [Store]:
//   - [FileStore] keeps one JSON file per report, for the CLI
//   - [MongoStore] keeps reports in a MongoDB collection, for the server
//
// Reports are addressed by their UUID. Listing returns [Summary] values,
// newest first, so callers can browse without loading full reports.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/bibnet/pkg/errors"
	"github.com/matzehuels/bibnet/pkg/pipeline"
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Store is the interface for report storage backends.
type Store interface {
	// Save inserts or replaces a report. A report without an ID is
	// assigned a fresh UUID.
	Save(ctx context.Context, r *pipeline.Report) error

	// Get returns the report with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*pipeline.Report, error)

	// List returns up to limit report summaries, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Summary is the listing view of a report.
type Summary struct {
	ID         string    `json:"id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	Vertices   int       `json:"vertices" bson:"vertices"`
	Edges      int       `json:"edges" bson:"edges"`
	Core       int       `json:"core" bson:"core"`
	Modularity float64   `json:"modularity" bson:"modularity"`
}

// Summarize extracts the listing view of r.
func Summarize(r *pipeline.Report) Summary {
	return Summary{
		ID:         r.ID,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		Vertices:   r.Vertices,
		Edges:      r.Edges,
		Core:       r.Core,
		Modularity: r.Modularity,
	}
}

// prepare assigns an ID and creation time where missing and validates the ID.
func prepare(r *pipeline.Report) error {
	if r == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nil report")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return validateID(r.ID)
}

func validateID(id string) error {
	return errs.ValidateReportID(id)
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "report %s not found", id)
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
