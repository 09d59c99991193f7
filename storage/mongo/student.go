package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/somo/core/student"
)

type StudentRepository struct {
	col *mongo.Collection
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{col: db.Collection(studentsCollection)}
}

func (repo *StudentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	var std student.Student
	err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&std)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	return std, nil
}

func (repo *StudentRepository) QueryAll(ctx context.Context) ([]student.Student, error) {
	cur, err := repo.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	stds := make([]student.Student, 0)
	if err = cur.All(ctx, &stds); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	return stds, nil
}

func (repo *StudentRepository) Create(ctx context.Context, std student.Student) (student.Student, error) {
	if _, err := repo.col.InsertOne(ctx, std); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.Student{}, student.ErrIDExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *StudentRepository) Update(ctx context.Context, id string, up student.UpdateStudent) error {
	set := bson.M{}
	if up.Name != "" {
		set["name"] = up.Name
	}
	if up.Email != "" {
		set["email"] = up.Email
	}
	if up.Phone != "" {
		set["phone"] = up.Phone
	}
	if up.Courses != nil {
		set["courses"] = up.Courses
	}
	if up.Status != "" {
		set["status"] = up.Status
	}
	if len(set) == 0 {
		return nil
	}

	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":         set,
		"$currentDate": bson.M{"updatedAt": true},
	})
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	if res.MatchedCount == 0 {
		return student.ErrNotFound
	}
	return nil
}

func (repo *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if res.DeletedCount == 0 {
		return student.ErrNotFound
	}
	return nil
}
