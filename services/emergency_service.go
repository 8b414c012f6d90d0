package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/interfaces"
	"helpnet/models"
	"helpnet/utils"
)

// locationFreshness bounds how stale a responder's last location update may
// be for the strict ladder stages.
const locationFreshness = 30 * time.Minute

// ladderStage is one rung of the widening responder search.
type ladderStage struct {
	radiusMeters float64
	strict       bool
}

// searchLadder widens the responder search until someone is found: nearby
// and strict first, then farther out, then dropping the availability and
// freshness requirements entirely.
var searchLadder = []ladderStage{
	{radiusMeters: 5000, strict: true},
	{radiusMeters: 20000, strict: true},
	{radiusMeters: 20000, strict: false},
	{radiusMeters: 50000, strict: false},
}

// EmergencyService orchestrates the emergency flows: it resolves addresses,
// discovers responders, fans out notifications and realtime events, and
// delegates lifecycle mutations to the registry.
type EmergencyService struct {
	registry     *EmergencyRegistry
	userStore    interfaces.UserStore
	notification *NotificationService
	bus          interfaces.RealtimeBus
	geocoder     interfaces.AddressResolver
	router       interfaces.RouteEstimator
	validator    *utils.ValidationService
}

func NewEmergencyService(
	registry *EmergencyRegistry,
	userStore interfaces.UserStore,
	notification *NotificationService,
	bus interfaces.RealtimeBus,
	geocoder interfaces.AddressResolver,
	router interfaces.RouteEstimator,
) *EmergencyService {
	return &EmergencyService{
		registry:     registry,
		userStore:    userStore,
		notification: notification,
		bus:          bus,
		geocoder:     geocoder,
		router:       router,
		validator:    utils.NewValidationService(),
	}
}

// CreateEmergency registers a new emergency, alerts nearby responders and
// confirms creation back to the reporter. Address resolution and responder
// discovery are best effort: their failure never fails the creation.
func (es *EmergencyService) CreateEmergency(ctx context.Context, userID primitive.ObjectID, req models.CreateEmergencyRequest) (*models.CreateEmergencyResponse, error) {
	if err := es.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	address := unknownLocation
	if es.geocoder != nil {
		resolved, err := es.geocoder.ReverseGeocode(ctx, req.Longitude, req.Latitude)
		if err != nil {
			logrus.Warnf("Reverse geocode failed for %f,%f: %v", req.Latitude, req.Longitude, err)
		} else {
			address = resolved
		}
	}

	emergency, err := es.registry.Create(ctx, userID, req, address)
	if err != nil {
		return nil, err
	}

	responders := es.findResponders(ctx, emergency)

	notified := es.notification.NotifyUsers(ctx, responders, models.NotificationPayload{
		EmergencyID:    emergency.ID,
		Type:           models.NotificationTypeEmergencyAlert,
		Title:          fmt.Sprintf("%s emergency nearby", emergency.EmergencyType),
		Message:        fmt.Sprintf("%s at %s", emergency.Description, emergency.Location.Address),
		Priority:       models.NotificationPriorityHigh,
		ActionRequired: true,
		ActionURL:      "/emergencies/" + emergency.ID.Hex(),
	})

	if _, err := es.notification.Notify(ctx, userID, models.NotificationPayload{
		EmergencyID: emergency.ID,
		Type:        models.NotificationTypeEmergencyCreated,
		Title:       "Emergency reported",
		Message:     fmt.Sprintf("Your %s emergency was created and %d responders were alerted", emergency.EmergencyType, notified),
		Priority:    models.NotificationPriorityMedium,
	}); err != nil {
		logrus.Errorf("Failed to notify creator %s: %v", userID.Hex(), err)
	}

	for _, responder := range responders {
		es.bus.EmitToUser(responder.ID.Hex(), models.EventNewEmergency, emergency)
	}
	es.bus.EmitToAll(models.EventEmergencyCreated, emergency)

	return &models.CreateEmergencyResponse{
		Emergency:     emergency,
		NotifiedUsers: len(responders),
	}, nil
}

// findResponders walks the widening ladder and returns the users matched by
// the first non-empty stage. The creator is always excluded.
func (es *EmergencyService) findResponders(ctx context.Context, emergency *models.Emergency) []*models.User {
	lng := emergency.Location.Point.Longitude()
	lat := emergency.Location.Point.Latitude()

	for _, stage := range searchLadder {
		q := models.NearbyUsersQuery{
			Longitude:           lng,
			Latitude:            lat,
			RadiusMeters:        stage.radiusMeters,
			RequireAvailability: stage.strict,
			ExcludeUserID:       emergency.CreatedBy.Hex(),
		}
		if stage.strict {
			q.UpdatedSince = time.Now().Add(-locationFreshness)
		}

		users, err := es.userStore.FindNearby(ctx, q)
		if err != nil {
			logrus.Errorf("Responder search failed at %.0fm: %v", stage.radiusMeters, err)
			continue
		}
		if len(users) > 0 {
			return users
		}
	}
	return nil
}

// Respond handles a user joining or advancing on an emergency. Events and
// the creator notification go out only when the call actually changed state.
func (es *EmergencyService) Respond(ctx context.Context, emergencyID, userID primitive.ObjectID) (*models.Emergency, error) {
	result, err := es.registry.AddOrAdvanceResponder(ctx, emergencyID, userID)
	if err != nil {
		return nil, err
	}
	if !result.Changed {
		return result.Emergency, nil
	}

	emergency := result.Emergency
	responder := result.Responder

	if result.Added {
		es.estimateETA(ctx, emergency, responder)
	}

	payload := models.ResponderEventPayload{
		EmergencyID: emergency.ID,
		Responder:   *responder,
	}
	// The creator hears about responder movement directly; they may not be
	// subscribed to their own emergency room.
	es.bus.EmitToUser(emergency.CreatedBy.Hex(), models.EventResponderAdded, payload)

	event := models.EventResponderUpdated
	if result.Added {
		event = models.EventResponderAdded
	}
	es.bus.EmitToEmergency(emergency.ID.Hex(), event, payload)

	if _, err := es.notification.Notify(ctx, emergency.CreatedBy, models.NotificationPayload{
		EmergencyID: emergency.ID,
		Type:        models.NotificationTypeResponseUpdate,
		Title:       "Responder update",
		Message:     fmt.Sprintf("A responder is now %s", responder.Status),
		Priority:    models.NotificationPriorityMedium,
	}); err != nil {
		logrus.Errorf("Failed to notify creator %s: %v", emergency.CreatedBy.Hex(), err)
	}

	return emergency, nil
}

// estimateETA computes a route estimate from the responder's last known
// location. Best effort: no stored location or a routing failure simply
// leaves the ETA unset.
func (es *EmergencyService) estimateETA(ctx context.Context, emergency *models.Emergency, responder *models.Responder) {
	if es.router == nil {
		return
	}

	user, err := es.userStore.GetByID(ctx, responder.UserID)
	if err != nil || user.CurrentLocation == nil {
		return
	}

	duration, err := es.router.EstimateDuration(ctx,
		user.CurrentLocation.Longitude(), user.CurrentLocation.Latitude(),
		emergency.Location.Point.Longitude(), emergency.Location.Point.Latitude())
	if err != nil {
		logrus.Warnf("ETA estimate failed for responder %s: %v", responder.UserID.Hex(), err)
		return
	}

	eta := &models.ResponderETA{
		Seconds:   duration.Seconds(),
		ArrivalAt: time.Now().Add(duration),
	}
	if err := es.registry.SetResponderETA(ctx, emergency.ID, responder.UserID, eta); err != nil {
		logrus.Errorf("Failed to store ETA for responder %s: %v", responder.UserID.Hex(), err)
		return
	}
	responder.ETA = eta
}

// UpdateStatus changes the emergency lifecycle status and fans the change
// out to the emergency room and everyone involved.
func (es *EmergencyService) UpdateStatus(ctx context.Context, emergencyID, userID primitive.ObjectID, status string) (*models.Emergency, error) {
	emergency, err := es.registry.SetStatus(ctx, emergencyID, userID, status)
	if err != nil {
		return nil, err
	}

	es.bus.EmitToEmergency(emergency.ID.Hex(), models.EventEmergencyStatusUpdated, models.StatusEventPayload{
		EmergencyID: emergency.ID,
		Status:      emergency.Status,
		UpdatedBy:   userID,
	})
	if emergency.Status == models.EmergencyStatusResolved {
		// A resolution interests everyone, not just the room subscribers.
		es.bus.EmitToAll(models.EventEmergencyResolved, emergency)
	}

	payload := models.NotificationPayload{
		EmergencyID: emergency.ID,
		Type:        models.NotificationTypeResponseUpdate,
		Title:       "Emergency status changed",
		Message:     fmt.Sprintf("Emergency is now %s", emergency.Status),
		Priority:    models.NotificationPriorityMedium,
	}
	recipients := map[string]primitive.ObjectID{
		emergency.CreatedBy.Hex(): emergency.CreatedBy,
	}
	for _, r := range emergency.Responders {
		recipients[r.UserID.Hex()] = r.UserID
	}
	delete(recipients, userID.Hex())
	for _, id := range recipients {
		if _, err := es.notification.Notify(ctx, id, payload); err != nil {
			logrus.Errorf("Failed to notify user %s: %v", id.Hex(), err)
		}
	}

	return emergency, nil
}

func (es *EmergencyService) GetEmergency(ctx context.Context, id primitive.ObjectID) (*models.Emergency, error) {
	return es.registry.Get(ctx, id)
}

func (es *EmergencyService) ListActive(ctx context.Context) ([]*models.Emergency, error) {
	return es.registry.ListActive(ctx)
}

func (es *EmergencyService) ListEmergencies(ctx context.Context, q models.ListEmergenciesQuery) ([]*models.Emergency, *models.MetaData, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	emergencies, total, err := es.registry.List(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	meta := &models.MetaData{
		Page:       q.Page,
		PageSize:   q.Limit,
		Total:      total,
		TotalPages: int((total + int64(q.Limit) - 1) / int64(q.Limit)),
	}
	return emergencies, meta, nil
}

func (es *EmergencyService) ListNearby(ctx context.Context, lng, lat, radiusMeters float64) ([]*models.Emergency, error) {
	if radiusMeters <= 0 {
		radiusMeters = 5000
	}
	return es.registry.ListNear(ctx, lng, lat, radiusMeters)
}
