package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/models"
)

// =================== STORAGE INTERFACES ===================

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLocation(ctx context.Context, id primitive.ObjectID, point *models.GeoPoint, at time.Time) error
	AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
	RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error
	FindNearby(ctx context.Context, q models.NearbyUsersQuery) ([]*models.User, error)
}

type EmergencyStore interface {
	Create(ctx context.Context, emergency *models.Emergency) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Emergency, error)
	List(ctx context.Context, q models.ListEmergenciesQuery) ([]*models.Emergency, int64, error)
	ListActive(ctx context.Context) ([]*models.Emergency, error)
	FindNearby(ctx context.Context, lng, lat, radiusMeters float64, statuses []string) ([]*models.Emergency, error)
	// SaveResponderState persists the full responders slice. The write is
	// rejected when the emergency has meanwhile reached a terminal status.
	SaveResponderState(ctx context.Context, id primitive.ObjectID, responders []models.Responder, emergencyStatus string) error
	// UpdateStatus transitions the lifecycle status. The write is rejected
	// when the emergency has meanwhile reached a terminal status.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, resolvedAt *time.Time) error
	SetResponderETA(ctx context.Context, id, userID primitive.ObjectID, eta *models.ResponderETA) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID primitive.ObjectID, q models.ListNotificationsQuery) ([]*models.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// =================== REALTIME ===================

// RealtimeBus fans events out to connected websocket clients. Emits never
// block: slow consumers are dropped, not waited on.
type RealtimeBus interface {
	EmitToUser(userID string, event string, data interface{})
	EmitToEmergency(emergencyID string, event string, data interface{})
	EmitToAll(event string, data interface{})
}

// =================== EXTERNAL SERVICES ===================

// AddressResolver turns coordinates into a human-readable address.
type AddressResolver interface {
	ReverseGeocode(ctx context.Context, lng, lat float64) (string, error)
}

// RouteEstimator computes travel time between two points.
type RouteEstimator interface {
	EstimateDuration(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (time.Duration, error)
}

type PushSender interface {
	SendToTokens(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}
