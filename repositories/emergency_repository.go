package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"helpnet/models"
	"helpnet/utils"
)

var terminalStatuses = []string{
	models.EmergencyStatusResolved,
	models.EmergencyStatusCancelled,
}

type EmergencyRepository struct {
	collection *mongo.Collection
}

func NewEmergencyRepository(db *mongo.Database) *EmergencyRepository {
	return &EmergencyRepository{
		collection: db.Collection("emergencies"),
	}
}

func (er *EmergencyRepository) Create(ctx context.Context, emergency *models.Emergency) error {
	emergency.ID = primitive.NewObjectID()
	emergency.CreatedAt = time.Now()
	emergency.UpdatedAt = emergency.CreatedAt
	if emergency.Status == "" {
		emergency.Status = models.EmergencyStatusActive
	}
	if emergency.Responders == nil {
		emergency.Responders = []models.Responder{}
	}

	_, err := er.collection.InsertOne(ctx, emergency)
	return err
}

func (er *EmergencyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Emergency, error) {
	var emergency models.Emergency
	err := er.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&emergency)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("emergency")
		}
		return nil, err
	}

	return &emergency, nil
}

func (er *EmergencyRepository) List(ctx context.Context, q models.ListEmergenciesQuery) ([]*models.Emergency, int64, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Type != "" {
		filter["emergencyType"] = q.Type
	}

	total, err := er.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := er.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var emergencies []*models.Emergency
	if err := cursor.All(ctx, &emergencies); err != nil {
		return nil, 0, err
	}
	return emergencies, total, nil
}

// ListActive returns open emergencies, newest first.
func (er *EmergencyRepository) ListActive(ctx context.Context) ([]*models.Emergency, error) {
	filter := bson.M{
		"status": bson.M{"$in": []string{
			models.EmergencyStatusActive,
			models.EmergencyStatusResponding,
		}},
	}

	cursor, err := er.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var emergencies []*models.Emergency
	if err := cursor.All(ctx, &emergencies); err != nil {
		return nil, err
	}
	return emergencies, nil
}

func (er *EmergencyRepository) FindNearby(ctx context.Context, lng, lat, radiusMeters float64, statuses []string) ([]*models.Emergency, error) {
	filter := bson.M{
		"location.point": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{lng, lat},
					utils.MetersToRadians(radiusMeters),
				},
			},
		},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	cursor, err := er.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var emergencies []*models.Emergency
	if err := cursor.All(ctx, &emergencies); err != nil {
		return nil, err
	}
	return emergencies, nil
}

// SaveResponderState writes the responders slice and lifecycle status in one
// update. The filter excludes terminal emergencies so a concurrent resolve
// cannot be overwritten; callers treat a zero match on an existing document
// as a terminal-state conflict.
func (er *EmergencyRepository) SaveResponderState(ctx context.Context, id primitive.ObjectID, responders []models.Responder, emergencyStatus string) error {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$nin": terminalStatuses},
	}
	update := bson.M{
		"$set": bson.M{
			"responders": responders,
			"status":     emergencyStatus,
			"updatedAt":  time.Now(),
		},
	}

	result, err := er.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return er.conflictOrNotFound(ctx, id)
	}
	return nil
}

// UpdateStatus transitions the lifecycle status with the same terminal-state
// precondition as SaveResponderState.
func (er *EmergencyRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, resolvedAt *time.Time) error {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$nin": terminalStatuses},
	}
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}
	if resolvedAt != nil {
		set["resolvedAt"] = *resolvedAt
	}

	result, err := er.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return er.conflictOrNotFound(ctx, id)
	}
	return nil
}

func (er *EmergencyRepository) SetResponderETA(ctx context.Context, id, userID primitive.ObjectID, eta *models.ResponderETA) error {
	filter := bson.M{
		"_id":               id,
		"responders.userId": userID,
	}
	update := bson.M{
		"$set": bson.M{
			"responders.$.eta": eta,
			"updatedAt":        time.Now(),
		},
	}

	_, err := er.collection.UpdateOne(ctx, filter, update)
	return err
}

func (er *EmergencyRepository) conflictOrNotFound(ctx context.Context, id primitive.ObjectID) error {
	existing, err := er.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return utils.NewTerminalStateError(existing.Status)
}
