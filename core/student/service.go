package student

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/somo/core/material"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
	ErrIDExists = errors.New("a student with this ID already exists")
)

type (
	// Reader is the read-only view of the student collection; it is what the
	// public lookup and delivery paths depend on, so the seed fixture backend
	// and the store-then-seed fallback wrapper can stand in for the live store.
	Reader interface {
		GetByID(ctx context.Context, id string) (Student, error)
	}

	// Repository is the full live-store surface used by the admin panel.
	Repository interface {
		Reader
		QueryAll(ctx context.Context) ([]Student, error)
		Create(ctx context.Context, std Student) (Student, error)
		Update(ctx context.Context, id string, up UpdateStudent) error
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		students  Reader
		materials material.Reader
	}
)

func NewService(students Reader, materials material.Reader) *Service {
	return &Service{students: students, materials: materials}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.students.GetByID(ctx, id)
}

// Lookup resolves a student and all active materials for their enrolled
// courses, newest upload first. Ties keep the backend's order (stable sort).
func (svc *Service) Lookup(ctx context.Context, id string) (Student, []material.Material, error) {
	std, err := svc.students.GetByID(ctx, id)
	if err != nil {
		return Student{}, nil, err
	}

	mats, err := svc.materials.FilterActive(ctx, std.Courses)
	if err != nil {
		return Student{}, nil, errors.Wrap(err, "filtering materials")
	}

	sort.SliceStable(mats, func(i, j int) bool {
		return mats[i].UploadedAt.After(mats[j].UploadedAt)
	})
	return std, mats, nil
}
