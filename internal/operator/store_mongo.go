package operator

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists the whitelist in the operators collection, keyed by
// eppn with a unique index.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore constructs a MongoDB-backed whitelist store.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the unique eppn index. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eppn", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create operators index: %w", err)
	}
	return nil
}

func (s *MongoStore) IsWhitelisted(ctx context.Context, eppn string) (bool, error) {
	if eppn == "" {
		return false, nil
	}
	count, err := s.coll.CountDocuments(ctx, bson.M{"eppn": eppn})
	if err != nil {
		return false, fmt.Errorf("check whitelist: %w", err)
	}
	return count > 0, nil
}

func (s *MongoStore) UpdateProfile(ctx context.Context, op Operator) error {
	// ReplaceOne without upsert: a profile refresh must never create
	// whitelist membership.
	_, err := s.coll.ReplaceOne(ctx, bson.M{"eppn": op.EPPN}, op)
	if err != nil {
		return fmt.Errorf("update operator profile: %w", err)
	}
	return nil
}

func (s *MongoStore) Add(ctx context.Context, eppn string) error {
	_, err := s.coll.InsertOne(ctx, Operator{EPPN: eppn})
	if mongo.IsDuplicateKeyError(err) {
		// Concurrent adds race to the unique index; already whitelisted
		// is not an error.
		return nil
	}
	if err != nil {
		return fmt.Errorf("add operator: %w", err)
	}
	return nil
}
