package mongo

import (
	"context"
	"errors"

	"github.com/sputier/docbrowse/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoCollection adapts a driver collection to the store.Collection
// contract. Filters are flat bson documents; driver errors propagate
// unchanged except for the no-document case, which maps to
// store.ErrNoDocuments.
type MongoCollection struct {
	coll *mongo.Collection
}

func (mc *MongoCollection) Name() string {
	return mc.coll.Name()
}

func (mc *MongoCollection) Find(ctx context.Context, filter store.Document) (store.Cursor, error) {
	cur, err := mc.coll.Find(ctx, toFilter(filter))
	if err != nil {
		return nil, err
	}

	return &mongoCursor{cur: cur}, nil
}

func (mc *MongoCollection) FindOne(ctx context.Context, filter store.Document) (store.Document, error) {
	var doc bson.M
	if err := mc.coll.FindOne(ctx, toFilter(filter)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNoDocuments
		}
		return nil, err
	}

	return store.Document(doc), nil
}

func (mc *MongoCollection) InsertOne(ctx context.Context, doc store.Document) (store.Document, error) {
	res, err := mc.coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, err
	}

	stored := make(store.Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	stored[store.IDField] = res.InsertedID

	return stored, nil
}

func (mc *MongoCollection) InsertMany(ctx context.Context, docs []store.Document) ([]store.Document, error) {
	payload := make([]any, len(docs))
	for i, doc := range docs {
		payload[i] = bson.M(doc)
	}

	res, err := mc.coll.InsertMany(ctx, payload)
	if err != nil {
		return nil, err
	}

	inserted := make([]store.Document, len(docs))
	for i, doc := range docs {
		stored := make(store.Document, len(doc)+1)
		for k, v := range doc {
			stored[k] = v
		}
		if i < len(res.InsertedIDs) {
			stored[store.IDField] = res.InsertedIDs[i]
		}
		inserted[i] = stored
	}

	return inserted, nil
}

func (mc *MongoCollection) ReplaceOne(ctx context.Context, filter store.Document, doc store.Document) (store.Document, error) {
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var replaced bson.M
	err := mc.coll.FindOneAndReplace(ctx, toFilter(filter), bson.M(doc), opts).Decode(&replaced)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNoDocuments
		}
		return nil, err
	}

	return store.Document(replaced), nil
}

func (mc *MongoCollection) DeleteOne(ctx context.Context, filter store.Document) (int64, error) {
	res, err := mc.coll.DeleteOne(ctx, toFilter(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (mc *MongoCollection) DeleteMany(ctx context.Context, filter store.Document) (int64, error) {
	res, err := mc.coll.DeleteMany(ctx, toFilter(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (mc *MongoCollection) Count(ctx context.Context, filter store.Document) (int64, error) {
	return mc.coll.CountDocuments(ctx, toFilter(filter))
}

func (mc *MongoCollection) Drop(ctx context.Context) error {
	return mc.coll.Drop(ctx)
}

func (mc *MongoCollection) BulkWrite(ctx context.Context, ops []store.WriteOp) (*store.BulkResult, error) {
	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		switch op.Type {
		case store.OpInsert:
			models = append(models, mongo.NewInsertOneModel().
				SetDocument(bson.M(op.Document)))
		case store.OpReplace:
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(toFilter(op.Filter)).
				SetReplacement(bson.M(op.Document)))
		case store.OpDelete:
			models = append(models, mongo.NewDeleteManyModel().
				SetFilter(toFilter(op.Filter)))
		}
	}

	res, err := mc.coll.BulkWrite(ctx, models)
	if err != nil {
		return nil, err
	}

	return &store.BulkResult{
		InsertedCount: res.InsertedCount,
		ModifiedCount: res.ModifiedCount,
		DeletedCount:  res.DeletedCount,
	}, nil
}

// toFilter converts a store filter into a driver filter.
// The driver rejects nil filters, so nil maps to match-all.
func toFilter(filter store.Document) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}

// mongoCursor adapts the driver cursor's advance-then-decode protocol
// to the HasNext/Next contract by buffering one decoded document.
type mongoCursor struct {
	cur    *mongo.Cursor
	peeked store.Document
	primed bool
}

func (c *mongoCursor) HasNext(ctx context.Context) (bool, error) {
	if c.primed {
		return true, nil
	}

	if !c.cur.Next(ctx) {
		if err := c.cur.Err(); err != nil {
			return false, err
		}
		return false, nil
	}

	var doc bson.M
	if err := c.cur.Decode(&doc); err != nil {
		return false, err
	}

	c.peeked = store.Document(doc)
	c.primed = true
	return true, nil
}

func (c *mongoCursor) Next(ctx context.Context) (store.Document, error) {
	if !c.primed {
		ok, err := c.HasNext(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, store.ErrNoDocuments
		}
	}

	doc := c.peeked
	c.peeked = nil
	c.primed = false
	return doc, nil
}

func (c *mongoCursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}
