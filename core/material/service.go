package material

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNoneFound is returned when none of the requested materials resolve in
	// either the live store or the seed fixture.
	ErrNoneFound = errors.New("no materials found")
	ErrIDExists  = errors.New("a material with this ID already exists")
)

type (
	// Reader is the read-only view of the material collection used by the
	// public lookup and delivery paths.
	Reader interface {
		// GetByIDs fetches the given ids concurrently, drops misses and
		// returns the hits following the input order.
		GetByIDs(ctx context.Context, ids []string) ([]Material, error)
		// FilterActive returns all active materials belonging to any of the
		// given courses.
		FilterActive(ctx context.Context, courses []string) ([]Material, error)
	}

	// Repository is the full live-store surface used by the admin panel.
	Repository interface {
		Reader
		QueryAll(ctx context.Context) ([]Material, error)
		Create(ctx context.Context, mat Material) (Material, error)
		CreateMany(ctx context.Context, mats []Material) ([]Material, error)
		Update(ctx context.Context, id string, up UpdateMaterial) error
		Delete(ctx context.Context, id string) error
	}
)

// Summaries projects materials to their redacted response view.
func Summaries(mats []Material) []Summary {
	sums := make([]Summary, 0, len(mats))
	for _, m := range mats {
		sums = append(sums, m.Summary())
	}
	return sums
}
