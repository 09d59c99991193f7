package storage

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
	"github.com/trezcool/somo/storage/seed"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var errStoreDown = errors.New("store down")

type downStudents struct{}

func (downStudents) GetByID(context.Context, string) (student.Student, error) {
	return student.Student{}, errStoreDown
}

type downMaterials struct{}

func (downMaterials) GetByIDs(context.Context, []string) ([]material.Material, error) {
	return nil, errStoreDown
}
func (downMaterials) FilterActive(context.Context, []string) ([]material.Material, error) {
	return nil, errStoreDown
}

type healthyStudents map[string]student.Student

func (h healthyStudents) GetByID(_ context.Context, id string) (student.Student, error) {
	if std, ok := h[id]; ok {
		return std, nil
	}
	return student.Student{}, student.ErrNotFound
}

type healthyMaterials []material.Material

func (h healthyMaterials) GetByIDs(_ context.Context, ids []string) ([]material.Material, error) {
	mats := make([]material.Material, 0)
	for _, id := range ids {
		for _, mat := range h {
			if mat.ID == id {
				mats = append(mats, mat)
			}
		}
	}
	return mats, nil
}

func (h healthyMaterials) FilterActive(context.Context, []string) ([]material.Material, error) {
	return h, nil
}

func TestFallbackStudents(t *testing.T) {
	ctx := context.Background()

	t.Run("store error falls back to seed", func(t *testing.T) {
		f := NewFallbackStudents(downStudents{}, seed.NewStudentRepository(), nopLogger{})
		std, err := f.GetByID(ctx, "S101")
		require.NoError(t, err)
		assert.Equal(t, "S101", std.ID)
	})

	t.Run("store miss falls back to seed", func(t *testing.T) {
		f := NewFallbackStudents(healthyStudents{}, seed.NewStudentRepository(), nopLogger{})
		std, err := f.GetByID(ctx, "S101")
		require.NoError(t, err)
		assert.Equal(t, "S101", std.ID)
	})

	t.Run("store hit wins over seed", func(t *testing.T) {
		store := healthyStudents{"S101": {ID: "S101", Name: "Live Copy"}}
		f := NewFallbackStudents(store, seed.NewStudentRepository(), nopLogger{})
		std, err := f.GetByID(ctx, "S101")
		require.NoError(t, err)
		assert.Equal(t, "Live Copy", std.Name)
	})

	t.Run("missing everywhere is not found", func(t *testing.T) {
		f := NewFallbackStudents(healthyStudents{}, seed.NewStudentRepository(), nopLogger{})
		_, err := f.GetByID(ctx, "S999")
		assert.Equal(t, student.ErrNotFound, errors.Cause(err))
	})
}

func TestFallbackMaterials(t *testing.T) {
	ctx := context.Background()

	t.Run("store error falls back to seed", func(t *testing.T) {
		f := NewFallbackMaterials(downMaterials{}, seed.NewMaterialRepository(), nopLogger{})
		mats, err := f.GetByIDs(ctx, []string{"M001"})
		require.NoError(t, err)
		require.Len(t, mats, 1)
		assert.Equal(t, "M001", mats[0].ID)
	})

	t.Run("healthy store empty result is served as-is", func(t *testing.T) {
		f := NewFallbackMaterials(healthyMaterials{}, seed.NewMaterialRepository(), nopLogger{})
		mats, err := f.GetByIDs(ctx, []string{"M001"})
		require.NoError(t, err)
		assert.Empty(t, mats, "an empty result from a healthy store must not trigger the seed fallback")
	})

	t.Run("filter falls back on store error", func(t *testing.T) {
		f := NewFallbackMaterials(downMaterials{}, seed.NewMaterialRepository(), nopLogger{})
		mats, err := f.FilterActive(ctx, []string{"CS101"})
		require.NoError(t, err)
		assert.NotEmpty(t, mats)
		for _, mat := range mats {
			assert.Equal(t, "CS101", mat.Course)
			assert.True(t, mat.IsActive())
		}
	})
}
