package seed

import (
	"context"

	"github.com/trezcool/somo/core/material"
)

// MaterialRepository serves materials from the embedded fixture.
type MaterialRepository struct{}

var _ material.Reader = (*MaterialRepository)(nil)

func NewMaterialRepository() *MaterialRepository {
	load()
	return &MaterialRepository{}
}

func (repo *MaterialRepository) GetByIDs(_ context.Context, ids []string) ([]material.Material, error) {
	mats := make([]material.Material, 0, len(ids))
	for _, id := range ids {
		for _, mat := range data.Materials {
			if mat.ID == id {
				mats = append(mats, mat)
				break
			}
		}
	}
	return mats, nil
}

func (repo *MaterialRepository) FilterActive(_ context.Context, courses []string) ([]material.Material, error) {
	wanted := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		wanted[c] = struct{}{}
	}
	mats := make([]material.Material, 0)
	for _, mat := range data.Materials {
		if _, ok := wanted[mat.Course]; ok && mat.IsActive() {
			mats = append(mats, mat)
		}
	}
	return mats, nil
}
