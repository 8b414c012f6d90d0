package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Phone    string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Password string             `json:"-" bson:"password"` // Never include in JSON responses

	Role string `json:"role" bson:"role"` // requester, responder, admin

	// Availability & Location
	AvailabilityStatus bool      `json:"availabilityStatus" bson:"availabilityStatus"`
	CurrentLocation    *GeoPoint `json:"currentLocation,omitempty" bson:"currentLocation,omitempty"`
	LastLocationUpdate time.Time `json:"lastLocationUpdate,omitempty" bson:"lastLocationUpdate,omitempty"`

	// Notifications
	NotificationPreferences NotificationPreferences `json:"notificationPreferences" bson:"notificationPreferences"`
	DeviceTokens            []string                `json:"-" bson:"deviceTokens,omitempty"`

	IsActive  bool      `json:"isActive" bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// GeoPoint is a GeoJSON point stored as [longitude, latitude] so that it can
// be covered by a 2dsphere index. A user with no stored location has a nil
// CurrentLocation and is invisible to proximity queries.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(longitude, latitude float64) *GeoPoint {
	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

func (p *GeoPoint) Longitude() float64 {
	if p == nil || len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p *GeoPoint) Latitude() float64 {
	if p == nil || len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

type NotificationPreferences struct {
	EmergencyAlerts     bool `json:"emergencyAlerts" bson:"emergencyAlerts"`
	ResponseUpdates     bool `json:"responseUpdates" bson:"responseUpdates"`
	SystemNotifications bool `json:"systemNotifications" bson:"systemNotifications"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmergencyAlerts:     true,
		ResponseUpdates:     true,
		SystemNotifications: true,
	}
}

// WantsNotification reports whether the user has opted in to a notification
// type. Unknown types are never sent.
func (u *User) WantsNotification(notificationType string) bool {
	switch notificationType {
	case NotificationTypeEmergencyAlert, NotificationTypeEmergencyCreated:
		return u.NotificationPreferences.EmergencyAlerts
	case NotificationTypeResponseUpdate:
		return u.NotificationPreferences.ResponseUpdates
	case NotificationTypeSystem:
		return u.NotificationPreferences.SystemNotifications
	default:
		return false
	}
}

// User role constants
const (
	RoleRequester = "requester"
	RoleResponder = "responder"
	RoleAdmin     = "admin"
)

// =================== REQUEST/RESPONSE MODELS ===================

// UpdateLocationRequest carries a position update. No required tag on the
// coordinates: zero is a valid longitude and latitude.
type UpdateLocationRequest struct {
	Longitude float64 `json:"longitude" validate:"coordinate"`
	Latitude  float64 `json:"latitude" validate:"coordinate"`
}

type UpdateProfileRequest struct {
	Name                    *string                  `json:"name,omitempty"`
	Phone                   *string                  `json:"phone,omitempty"`
	AvailabilityStatus      *bool                    `json:"availabilityStatus,omitempty"`
	NotificationPreferences *NotificationPreferences `json:"notificationPreferences,omitempty"`
}

type DeviceTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// NearbyUsersQuery parameterizes a responder discovery query. The widening
// ladder in the emergency service issues the same query with progressively
// looser parameters.
type NearbyUsersQuery struct {
	Longitude           float64
	Latitude            float64
	RadiusMeters        float64
	UpdatedSince        time.Time
	RequireAvailability bool
	ExcludeUserID       string
}
