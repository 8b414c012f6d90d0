package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Emergency struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedBy     primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	EmergencyType string             `json:"emergencyType" bson:"emergencyType"`
	Description   string             `json:"description" bson:"description"`
	Location      EmergencyLocation  `json:"location" bson:"location"`
	Status        string             `json:"status" bson:"status"`
	Responders    []Responder        `json:"responders" bson:"responders"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
	ResolvedAt    *time.Time         `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
}

// EmergencyLocation is immutable after creation. Point is GeoJSON so nearby
// queries can run against the 2dsphere index; Address is the reverse-geocoded
// label, "Unknown location" when resolution failed.
type EmergencyLocation struct {
	Point   GeoPoint `json:"point" bson:"point"`
	Address string   `json:"address" bson:"address"`
}

// Responder tracks a single user's engagement with an emergency. At most one
// entry exists per user; Status only moves forward through the ladder.
type Responder struct {
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Status      string             `json:"status" bson:"status"`
	NotifiedAt  *time.Time         `json:"notifiedAt,omitempty" bson:"notifiedAt,omitempty"`
	RespondedAt *time.Time         `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
	ArrivedAt   *time.Time         `json:"arrivedAt,omitempty" bson:"arrivedAt,omitempty"`
	CompletedAt *time.Time         `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	ETA         *ResponderETA      `json:"eta,omitempty" bson:"eta,omitempty"`
}

type ResponderETA struct {
	Seconds   float64   `json:"seconds" bson:"seconds"`
	ArrivalAt time.Time `json:"arrivalAt" bson:"arrivalAt"`
}

// Emergency type constants
const (
	EmergencyTypeMedical  = "medical"
	EmergencyTypeFire     = "fire"
	EmergencyTypeAccident = "accident"
	EmergencyTypeSecurity = "security"
	EmergencyTypeOther    = "other"
)

// Emergency status constants
const (
	EmergencyStatusActive     = "active"
	EmergencyStatusResponding = "responding"
	EmergencyStatusResolved   = "resolved"
	EmergencyStatusCancelled  = "cancelled"
)

// Responder status constants
const (
	ResponderStatusNotified  = "notified"
	ResponderStatusEnRoute   = "en_route"
	ResponderStatusOnScene   = "on_scene"
	ResponderStatusCompleted = "completed"
)

// IsValidEmergencyStatus reports whether s is one of the four lifecycle
// statuses a caller may set.
func IsValidEmergencyStatus(s string) bool {
	switch s {
	case EmergencyStatusActive, EmergencyStatusResponding,
		EmergencyStatusResolved, EmergencyStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the emergency has reached resolved or cancelled.
// Terminal emergencies accept no further responder or status mutations.
func (e *Emergency) IsTerminal() bool {
	return e.Status == EmergencyStatusResolved || e.Status == EmergencyStatusCancelled
}

// NextResponderStatus returns the next step of the responder ladder
// notified -> en_route -> on_scene -> completed. ok is false when current is
// already completed (repeat calls are no-ops) or unrecognized.
func NextResponderStatus(current string) (string, bool) {
	switch current {
	case ResponderStatusNotified:
		return ResponderStatusEnRoute, true
	case ResponderStatusEnRoute:
		return ResponderStatusOnScene, true
	case ResponderStatusOnScene:
		return ResponderStatusCompleted, true
	default:
		return "", false
	}
}

// FindResponder returns the index of userID's entry in Responders, -1 if none.
func (e *Emergency) FindResponder(userID string) int {
	for i := range e.Responders {
		if e.Responders[i].UserID.Hex() == userID {
			return i
		}
	}
	return -1
}

func (e *Emergency) IsCreator(userID string) bool {
	return e.CreatedBy.Hex() == userID
}

// HasActiveResponder reports whether userID holds a responder entry currently
// en_route or on_scene, which is what authorizes status changes.
func (e *Emergency) HasActiveResponder(userID string) bool {
	i := e.FindResponder(userID)
	if i < 0 {
		return false
	}
	s := e.Responders[i].Status
	return s == ResponderStatusEnRoute || s == ResponderStatusOnScene
}

// =================== REQUEST/RESPONSE MODELS ===================

type CreateEmergencyRequest struct {
	EmergencyType string  `json:"emergencyType" validate:"required,emergency_type"`
	Description   string  `json:"description" validate:"required"`
	Longitude     float64 `json:"longitude" validate:"coordinate"`
	Latitude      float64 `json:"latitude" validate:"coordinate"`
}

type UpdateEmergencyStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ListEmergenciesQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
	Type   string `form:"type"`
}

type CreateEmergencyResponse struct {
	Emergency     *Emergency `json:"emergency"`
	NotifiedUsers int        `json:"notifiedUsers"`
}
