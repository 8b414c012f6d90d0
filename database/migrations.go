package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunMigrations ensures the indexes the queries depend on. The geospatial
// indexes are required: nearby lookups run against them.
func RunMigrations(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "currentLocation", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "availabilityStatus", Value: 1}, {Key: "lastLocationUpdate", Value: -1}},
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return err
	}

	emergencies := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "location.point", Value: "2dsphere"}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "createdBy", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "responders.userId", Value: 1}},
		},
	}
	if _, err := db.Collection("emergencies").Indexes().CreateMany(ctx, emergencies); err != nil {
		return err
	}

	notifications := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	if _, err := db.Collection("notifications").Indexes().CreateMany(ctx, notifications); err != nil {
		return err
	}

	logrus.Info("Database indexes ensured")
	return nil
}
