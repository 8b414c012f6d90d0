package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	EmergencyID primitive.ObjectID `json:"emergencyId,omitempty" bson:"emergencyId,omitempty"`

	Type     string `json:"type" bson:"type"`
	Title    string `json:"title" bson:"title"`
	Message  string `json:"message" bson:"message"`
	Priority string `json:"priority" bson:"priority"` // low, medium, high

	Status string     `json:"status" bson:"status"` // unread, read
	ReadAt *time.Time `json:"readAt,omitempty" bson:"readAt,omitempty"`

	ActionRequired bool   `json:"actionRequired" bson:"actionRequired"`
	ActionURL      string `json:"actionUrl,omitempty" bson:"actionUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Notification type constants
const (
	NotificationTypeEmergencyAlert   = "emergency_alert"
	NotificationTypeEmergencyCreated = "emergency_created"
	NotificationTypeResponseUpdate   = "response_update"
	NotificationTypeSystem           = "system"
)

// Notification priority constants
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityMedium = "medium"
	NotificationPriorityHigh   = "high"
)

// Notification delivery status constants
const (
	NotificationStatusUnread = "unread"
	NotificationStatusRead   = "read"
)

// NotificationPayload is what callers hand to the dispatcher. EmergencyID is
// optional; everything else is required for a deliverable notification.
type NotificationPayload struct {
	EmergencyID    primitive.ObjectID
	Type           string
	Title          string
	Message        string
	Priority       string
	ActionRequired bool
	ActionURL      string
}

type ListNotificationsQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
	Type   string `form:"type"`
}
