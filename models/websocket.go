package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WSMessage is the envelope for every frame sent over a websocket connection.
type WSMessage struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Events emitted by the server.
const (
	EventEmergencyCreated       = "emergencyCreated"
	EventNewEmergency           = "newEmergency"
	EventResponderAdded         = "responderAdded"
	EventResponderUpdated       = "responderUpdated"
	EventEmergencyStatusUpdated = "emergencyStatusUpdated"
	EventEmergencyResolved      = "emergencyResolved"
	EventNotificationReceived   = "notificationReceived"
)

// Events accepted from clients.
const (
	EventSubscribeEmergency   = "subscribeEmergency"
	EventUnsubscribeEmergency = "unsubscribeEmergency"
	EventPing                 = "ping"
	EventPong                 = "pong"
)

// SubscribeRequest is the payload of a subscribeEmergency /
// unsubscribeEmergency frame.
type SubscribeRequest struct {
	EmergencyID string `json:"emergencyId"`
}

// ResponderEventPayload accompanies responderAdded and responderUpdated.
type ResponderEventPayload struct {
	EmergencyID primitive.ObjectID `json:"emergencyId"`
	Responder   Responder          `json:"responder"`
}

// StatusEventPayload accompanies emergencyStatusUpdated.
type StatusEventPayload struct {
	EmergencyID primitive.ObjectID `json:"emergencyId"`
	Status      string             `json:"status"`
	UpdatedBy   primitive.ObjectID `json:"updatedBy"`
}

// EmergencyChannel returns the room name for a single emergency.
func EmergencyChannel(emergencyID string) string {
	return "emergency:" + emergencyID
}
