package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore wraps a driver connection to a single MongoDB database.
// Collections obtained from it implement the store.Collection contract.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client against uri and binds it to the named database.
// The connection is verified with a ping before it is returned.
func Connect(ctx context.Context, uri string, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Collection returns a handle for the named collection.
func (ms *MongoStore) Collection(name string) *MongoCollection {
	return &MongoCollection{coll: ms.db.Collection(name)}
}

// CollectionNames lists the collections in the bound database.
func (ms *MongoStore) CollectionNames(ctx context.Context) ([]string, error) {
	return ms.db.ListCollectionNames(ctx, bson.M{})
}

// Close disconnects the underlying client.
func (ms *MongoStore) Close(ctx context.Context) error {
	return ms.client.Disconnect(ctx)
}
