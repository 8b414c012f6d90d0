package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"helpnet/models"
	"helpnet/utils"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (ur *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	user.IsActive = true

	_, err := ur.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewConflictError("email is already registered")
	}
	return err
}

func (ur *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := ur.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	result, err := ur.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("user")
	}
	return nil
}

func (ur *UserRepository) UpdateLocation(ctx context.Context, id primitive.ObjectID, point *models.GeoPoint, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"currentLocation":    point,
			"lastLocationUpdate": at,
			"updatedAt":          time.Now(),
		},
	}

	result, err := ur.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("user")
	}
	return nil
}

func (ur *UserRepository) AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.M{
		"$addToSet": bson.M{"deviceTokens": token},
		"$set":      bson.M{"updatedAt": time.Now()},
	}

	result, err := ur.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("user")
	}
	return nil
}

func (ur *UserRepository) RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.M{
		"$pull": bson.M{"deviceTokens": token},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	result, err := ur.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("user")
	}
	return nil
}

// FindNearby returns active users inside the given radius. Users without a
// stored location never match because currentLocation is absent from their
// documents. Availability and freshness filters are optional so callers can
// progressively relax the search.
func (ur *UserRepository) FindNearby(ctx context.Context, q models.NearbyUsersQuery) ([]*models.User, error) {
	filter := bson.M{
		"isActive": true,
		"currentLocation": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{q.Longitude, q.Latitude},
					utils.MetersToRadians(q.RadiusMeters),
				},
			},
		},
	}

	if q.RequireAvailability {
		filter["availabilityStatus"] = true
	}
	if !q.UpdatedSince.IsZero() {
		filter["lastLocationUpdate"] = bson.M{"$gte": q.UpdatedSince}
	}
	if q.ExcludeUserID != "" {
		if excludeID, err := primitive.ObjectIDFromHex(q.ExcludeUserID); err == nil {
			filter["_id"] = bson.M{"$ne": excludeID}
		}
	}

	cursor, err := ur.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
