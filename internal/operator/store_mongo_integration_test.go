//go:build integration

package operator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"selegra/internal/operator"
	"selegra/pkg/testutil/containers"
)

type MongoStoreSuite struct {
	suite.Suite
	mongo *containers.MongoContainer
	coll  *mongo.Collection
	store *operator.MongoStore
}

func TestMongoStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoStoreSuite))
}

func (s *MongoStoreSuite) SetupSuite() {
	s.mongo = containers.NewMongoContainer(s.T())
	s.coll = s.mongo.Client.Database("se_leg_ra_test").Collection("operators")
	s.store = operator.NewMongoStore(s.coll)
}

func (s *MongoStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.mongo.DropDatabase(ctx, "se_leg_ra_test"))
	s.Require().NoError(s.store.EnsureIndexes(ctx))
}

func (s *MongoStoreSuite) TestAddAndLookup() {
	ctx := context.Background()

	whitelisted, err := s.store.IsWhitelisted(ctx, "op@example.org")
	s.Require().NoError(err)
	s.False(whitelisted)

	s.Require().NoError(s.store.Add(ctx, "op@example.org"))

	whitelisted, err = s.store.IsWhitelisted(ctx, "op@example.org")
	s.Require().NoError(err)
	s.True(whitelisted)
}

func (s *MongoStoreSuite) TestDuplicateAddIsNotAnError() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, "op@example.org"))
	s.Require().NoError(s.store.Add(ctx, "op@example.org"))

	count, err := s.coll.CountDocuments(ctx, bson.M{"eppn": "op@example.org"})
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *MongoStoreSuite) TestUpdateProfileRefreshesAttributes() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, "op@example.org"))

	s.Require().NoError(s.store.UpdateProfile(ctx, operator.Operator{
		EPPN:        "op@example.org",
		GivenName:   "Test",
		Surname:     "User",
		DisplayName: "Test User",
	}))

	var got operator.Operator
	s.Require().NoError(s.coll.FindOne(ctx, bson.M{"eppn": "op@example.org"}).Decode(&got))
	s.Equal("Test", got.GivenName)
	s.Equal("Test User", got.DisplayName)
}

func (s *MongoStoreSuite) TestUpdateProfileNeverCreatesMembership() {
	ctx := context.Background()

	s.Require().NoError(s.store.UpdateProfile(ctx, operator.Operator{
		EPPN:      "ghost@example.org",
		GivenName: "Ghost",
	}))

	whitelisted, err := s.store.IsWhitelisted(ctx, "ghost@example.org")
	s.Require().NoError(err)
	s.False(whitelisted)
}

func (s *MongoStoreSuite) TestEmptyEppnIsNeverWhitelisted() {
	whitelisted, err := s.store.IsWhitelisted(context.Background(), "")
	s.Require().NoError(err)
	s.False(whitelisted)
}
