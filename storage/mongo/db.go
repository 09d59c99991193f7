package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/somo/core"
)

// collection names
const (
	studentsCollection   = "students"
	materialsCollection  = "materials"
	deliveriesCollection = "deliveries"
	adminsCollection     = "admins"
)

// Open connects to the configured MongoDB deployment and pings it. The
// returned close func disconnects the underlying client.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, func() error, error) {
	ctx, cancel := context.WithTimeout(ctx, conf.Mongo.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Mongo.URI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to mongo")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(err, "pinging mongo")
	}

	closeFn := func() error {
		return client.Disconnect(context.Background())
	}
	return client.Database(conf.Mongo.Database), closeFn, nil
}
