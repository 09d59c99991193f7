// Package storage composes the live document store with the embedded seed
// fixture so the public read paths keep answering when the store is down.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

// FallbackStudents reads from the live store first and falls back to the seed
// fixture when the store errors or has no record for the id.
type FallbackStudents struct {
	store student.Reader
	seed  student.Reader
	log   core.Logger
}

var _ student.Reader = (*FallbackStudents)(nil)

func NewFallbackStudents(store, seed student.Reader, log core.Logger) *FallbackStudents {
	return &FallbackStudents{store: store, seed: seed, log: log}
}

func (f *FallbackStudents) GetByID(ctx context.Context, id string) (student.Student, error) {
	std, err := f.store.GetByID(ctx, id)
	if err == nil {
		return std, nil
	}
	if errors.Cause(err) != student.ErrNotFound {
		f.log.Warn("student store unavailable, serving seed data", err)
	}
	return f.seed.GetByID(ctx, id)
}

// FallbackMaterials reads from the live store first and falls back to the
// seed fixture only when the store errors. An empty result from a healthy
// store is answered as-is.
type FallbackMaterials struct {
	store material.Reader
	seed  material.Reader
	log   core.Logger
}

var _ material.Reader = (*FallbackMaterials)(nil)

func NewFallbackMaterials(store, seed material.Reader, log core.Logger) *FallbackMaterials {
	return &FallbackMaterials{store: store, seed: seed, log: log}
}

func (f *FallbackMaterials) GetByIDs(ctx context.Context, ids []string) ([]material.Material, error) {
	mats, err := f.store.GetByIDs(ctx, ids)
	if err != nil {
		f.log.Warn("material store unavailable, serving seed data", err)
		return f.seed.GetByIDs(ctx, ids)
	}
	return mats, nil
}

func (f *FallbackMaterials) FilterActive(ctx context.Context, courses []string) ([]material.Material, error) {
	mats, err := f.store.FilterActive(ctx, courses)
	if err != nil {
		f.log.Warn("material store unavailable, serving seed data", err)
		return f.seed.FilterActive(ctx, courses)
	}
	return mats, nil
}
