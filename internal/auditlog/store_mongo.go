package auditlog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"selegra/internal/proofing"
	pkgerrors "selegra/pkg/errors"
)

// MongoStore appends proofing records to the proofing_log collection. The
// collection handle must carry majority write concern: a proofing decision is
// compliance-sensitive and must survive single-node loss before the relay may
// run.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore constructs a MongoDB-backed proofing log. Pass a collection
// opened with majority write concern.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Append(ctx context.Context, rec proofing.Record) error {
	// Refuse invalid records; the pipeline validates at construction, so a
	// failure here is a programmer error, not user input.
	if err := rec.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, "invalid proofing record", err)
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("append proofing record: %w", err)
	}
	return nil
}
