package mongodb

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/somo/core/material"
)

type MaterialRepository struct {
	col *mongo.Collection
}

var _ material.Repository = (*MaterialRepository)(nil)

func NewMaterialRepository(db *mongo.Database) *MaterialRepository {
	return &MaterialRepository{col: db.Collection(materialsCollection)}
}

// GetByIDs fetches the given ids concurrently. Misses are dropped; hits come
// back in the input order.
func (repo *MaterialRepository) GetByIDs(ctx context.Context, ids []string) ([]material.Material, error) {
	found := make([]*material.Material, len(ids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			var mat material.Material
			err := repo.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mat)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return nil
				}
				return errors.Wrapf(err, "finding material %s", id)
			}
			mu.Lock()
			found[i] = &mat
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mats := make([]material.Material, 0, len(ids))
	for _, mat := range found {
		if mat != nil {
			mats = append(mats, *mat)
		}
	}
	return mats, nil
}

func (repo *MaterialRepository) FilterActive(ctx context.Context, courses []string) ([]material.Material, error) {
	if len(courses) == 0 {
		return []material.Material{}, nil
	}
	cur, err := repo.col.Find(ctx, bson.M{
		"course":     bson.M{"$in": courses},
		"visibility": material.VisibilityActive,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying materials")
	}
	mats := make([]material.Material, 0)
	if err = cur.All(ctx, &mats); err != nil {
		return nil, errors.Wrap(err, "decoding materials")
	}
	return mats, nil
}

func (repo *MaterialRepository) QueryAll(ctx context.Context) ([]material.Material, error) {
	cur, err := repo.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying materials")
	}
	mats := make([]material.Material, 0)
	if err = cur.All(ctx, &mats); err != nil {
		return nil, errors.Wrap(err, "decoding materials")
	}
	return mats, nil
}

func (repo *MaterialRepository) Create(ctx context.Context, mat material.Material) (material.Material, error) {
	if _, err := repo.col.InsertOne(ctx, mat); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return material.Material{}, material.ErrIDExists
		}
		return material.Material{}, errors.Wrap(err, "inserting material")
	}
	return mat, nil
}

func (repo *MaterialRepository) CreateMany(ctx context.Context, mats []material.Material) ([]material.Material, error) {
	docs := make([]interface{}, 0, len(mats))
	for _, mat := range mats {
		docs = append(docs, mat)
	}
	if _, err := repo.col.InsertMany(ctx, docs); err != nil {
		return nil, errors.Wrap(err, "inserting materials")
	}
	return mats, nil
}

func (repo *MaterialRepository) Update(ctx context.Context, id string, up material.UpdateMaterial) error {
	set := bson.M{}
	if up.Title != "" {
		set["title"] = up.Title
	}
	if up.Course != "" {
		set["course"] = up.Course
	}
	if up.Type != "" {
		set["type"] = up.Type
	}
	if up.FilePath != "" {
		set["filePath"] = up.FilePath
	}
	if up.Size != "" {
		set["size"] = up.Size
	}
	if up.Visibility != "" {
		set["visibility"] = up.Visibility
	}
	if len(set) == 0 {
		return nil
	}

	res, err := repo.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":         set,
		"$currentDate": bson.M{"updatedAt": true},
	})
	if err != nil {
		return errors.Wrap(err, "updating material")
	}
	if res.MatchedCount == 0 {
		return material.ErrNoneFound
	}
	return nil
}

func (repo *MaterialRepository) Delete(ctx context.Context, id string) error {
	res, err := repo.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting material")
	}
	if res.DeletedCount == 0 {
		return material.ErrNoneFound
	}
	return nil
}
