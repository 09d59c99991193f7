package seed

import (
	"context"

	"github.com/trezcool/somo/core/student"
)

// StudentRepository serves students from the embedded fixture.
type StudentRepository struct{}

var _ student.Reader = (*StudentRepository)(nil)

func NewStudentRepository() *StudentRepository {
	load()
	return &StudentRepository{}
}

func (repo *StudentRepository) GetByID(_ context.Context, id string) (student.Student, error) {
	for _, std := range data.Students {
		if std.ID == id {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}
