package services

import (
	"context"

	"github.com/joaobaungartner/goncalves-backend/core/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BaseServiceMongo is a generic service over one collection. The
// domain services embed it for the plain CRUD-ish operations and add
// their aggregation logic on top.
type BaseServiceMongo[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo creates the base service for a collection.
func NewBaseServiceMongo[T any](collection *mongo.Collection) BaseServiceMongo[T] {
	return BaseServiceMongo[T]{collection: collection}
}

// Collection exposes the underlying handle for aggregations.
func (s *BaseServiceMongo[T]) Collection() *mongo.Collection {
	return s.collection
}

// InsertOne inserts a document.
func (s *BaseServiceMongo[T]) InsertOne(ctx context.Context, doc T) error {
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// InsertMany inserts a batch of documents.
func (s *BaseServiceMongo[T]) InsertMany(ctx context.Context, docs []T) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	payload := make([]interface{}, len(docs))
	for i, d := range docs {
		payload[i] = d
	}
	res, err := s.collection.InsertMany(ctx, payload)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return len(res.InsertedIDs), nil
}

// FindOne returns the first document matching the filter.
func (s *BaseServiceMongo[T]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (T, error) {
	var result T
	err := s.collection.FindOne(ctx, filter, opts...).Decode(&result)
	if err != nil {
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find returns every document matching the filter.
func (s *BaseServiceMongo[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := s.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// CountDocuments counts documents matching the filter.
func (s *BaseServiceMongo[T]) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// DeleteMany removes every document matching the filter and returns
// the removed count.
func (s *BaseServiceMongo[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return res.DeletedCount, nil
}

// Distinct returns the distinct values of the field under the filter.
func (s *BaseServiceMongo[T]) Distinct(ctx context.Context, field string, filter bson.M) ([]interface{}, error) {
	values, err := s.collection.Distinct(ctx, field, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return values, nil
}

// aggregate runs the pipeline on a collection and decodes every
// result row into a bson.M.
func aggregate(ctx context.Context, collection *mongo.Collection, pipeline mongo.Pipeline) ([]bson.M, error) {
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}
