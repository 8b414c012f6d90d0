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

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

func (nr *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	if n.Status == "" {
		n.Status = models.NotificationStatusUnread
	}

	_, err := nr.collection.InsertOne(ctx, n)
	return err
}

func (nr *NotificationRepository) List(ctx context.Context, userID primitive.ObjectID, q models.ListNotificationsQuery) ([]*models.Notification, int64, error) {
	filter := bson.M{"userId": userID}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}

	total, err := nr.collection.CountDocuments(ctx, filter)
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

	cursor, err := nr.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkAsRead flips an unread notification to read. Repeated calls return the
// notification unchanged with its original readAt, so the operation is
// idempotent.
func (nr *NotificationRepository) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	now := time.Now()
	filter := bson.M{
		"_id":    id,
		"userId": userID,
		"status": models.NotificationStatusUnread,
	}
	update := bson.M{
		"$set": bson.M{
			"status": models.NotificationStatusRead,
			"readAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	err := nr.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n)
	if err == nil {
		return &n, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Either already read or not this user's notification.
	err = nr.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("notification")
		}
		return nil, err
	}
	return &n, nil
}

func (nr *NotificationRepository) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"userId": userID,
		"status": models.NotificationStatusUnread,
	}
	update := bson.M{
		"$set": bson.M{
			"status": models.NotificationStatusRead,
			"readAt": time.Now(),
		},
	}

	result, err := nr.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (nr *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return nr.collection.CountDocuments(ctx, bson.M{
		"userId": userID,
		"status": models.NotificationStatusUnread,
	})
}
