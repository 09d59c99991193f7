package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/somo/core/delivery"
)

type DeliveryRepository struct {
	col *mongo.Collection
}

var _ delivery.Appender = (*DeliveryRepository)(nil)

func NewDeliveryRepository(db *mongo.Database) *DeliveryRepository {
	return &DeliveryRepository{col: db.Collection(deliveriesCollection)}
}

func (repo *DeliveryRepository) Append(ctx context.Context, entry delivery.AuditEntry) error {
	if _, err := repo.col.InsertOne(ctx, entry); err != nil {
		return errors.Wrap(err, "inserting audit entry")
	}
	return nil
}
