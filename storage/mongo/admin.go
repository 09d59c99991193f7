package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/somo/core"
	"github.com/trezcool/somo/core/admin"
)

type AdminRepository struct {
	col *mongo.Collection
}

var _ admin.Repository = (*AdminRepository)(nil)

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{col: db.Collection(adminsCollection)}
}

func (repo *AdminRepository) GetByEmail(ctx context.Context, email string) (admin.Admin, error) {
	var adm admin.Admin
	err := repo.col.FindOne(ctx, bson.M{"email": core.CleanString(email, true)}).Decode(&adm)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, errors.Wrap(err, "finding admin")
	}
	return adm, nil
}

func (repo *AdminRepository) UpdateOrCreate(ctx context.Context, adm admin.Admin) (admin.Admin, error) {
	adm.Email = core.CleanString(adm.Email, true)
	if adm.ID == "" {
		adm.ID = uuid.NewString()
	}
	filter := bson.M{"email": adm.Email}
	update := bson.M{"$set": bson.M{
		"name":         adm.Name,
		"email":        adm.Email,
		"passwordHash": adm.PasswordHash,
		"isActive":     adm.IsActive,
	}, "$setOnInsert": bson.M{
		"_id":       adm.ID,
		"createdAt": adm.CreatedAt,
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.col.UpdateOne(ctx, filter, update, opts); err != nil {
		return admin.Admin{}, errors.Wrap(err, "upserting admin")
	}
	return repo.GetByEmail(ctx, adm.Email)
}
