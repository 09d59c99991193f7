package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/somo/core/material"
	"github.com/trezcool/somo/core/student"
)

func TestDataset(t *testing.T) {
	stds, mats := Dataset()
	assert.NotEmpty(t, stds)
	assert.NotEmpty(t, mats)

	// every student id matches the public identifier format
	for _, std := range stds {
		assert.Regexp(t, `^S\d+$`, std.ID)
	}

	// at least one material must be inactive so visibility filtering is testable
	var inactive bool
	for _, mat := range mats {
		if !mat.IsActive() {
			inactive = true
			break
		}
	}
	assert.True(t, inactive)
}

func TestStudentRepository_GetByID(t *testing.T) {
	repo := NewStudentRepository()

	std, err := repo.GetByID(context.Background(), "S101")
	require.NoError(t, err)
	assert.Equal(t, []string{"CS101", "MATH201"}, std.Courses)

	_, err = repo.GetByID(context.Background(), "S999")
	assert.Equal(t, student.ErrNotFound, err)
}

func TestMaterialRepository_GetByIDs(t *testing.T) {
	repo := NewMaterialRepository()

	// misses dropped, input order preserved
	mats, err := repo.GetByIDs(context.Background(), []string{"M003", "M999", "M001"})
	require.NoError(t, err)
	require.Len(t, mats, 2)
	assert.Equal(t, "M003", mats[0].ID)
	assert.Equal(t, "M001", mats[1].ID)
}

func TestMaterialRepository_FilterActive(t *testing.T) {
	repo := NewMaterialRepository()

	mats, err := repo.FilterActive(context.Background(), []string{"CS101"})
	require.NoError(t, err)
	assert.NotEmpty(t, mats)
	for _, mat := range mats {
		assert.Equal(t, "CS101", mat.Course)
		assert.Equal(t, material.VisibilityActive, mat.Visibility)
	}

	mats, err = repo.FilterActive(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, mats)
}
