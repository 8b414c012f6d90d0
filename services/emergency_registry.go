package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/interfaces"
	"helpnet/models"
	"helpnet/utils"
)

// EmergencyRegistry owns the emergency lifecycle: creation, the responder
// ladder and status transitions. All mutations of a single emergency are
// serialized through a per-emergency mutex, so interleaved requests observe
// each other's writes and the ladder never skips a step.
type EmergencyRegistry struct {
	store interfaces.EmergencyStore
	locks sync.Map // emergency ID hex -> *sync.Mutex
}

func NewEmergencyRegistry(store interfaces.EmergencyStore) *EmergencyRegistry {
	return &EmergencyRegistry{store: store}
}

func (r *EmergencyRegistry) lockFor(id primitive.ObjectID) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(id.Hex(), &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create validates and persists a new emergency. The address is expected to
// be resolved by the caller before Create runs.
func (r *EmergencyRegistry) Create(ctx context.Context, createdBy primitive.ObjectID, req models.CreateEmergencyRequest, address string) (*models.Emergency, error) {
	if !utils.IsValidCoordinate(req.Longitude, req.Latitude) {
		return nil, utils.NewValidationError("coordinates are out of range", nil)
	}

	emergency := &models.Emergency{
		CreatedBy:     createdBy,
		EmergencyType: req.EmergencyType,
		Description:   req.Description,
		Location: models.EmergencyLocation{
			Point:   *models.NewGeoPoint(req.Longitude, req.Latitude),
			Address: address,
		},
		Status:     models.EmergencyStatusActive,
		Responders: []models.Responder{},
	}

	if err := r.store.Create(ctx, emergency); err != nil {
		return nil, err
	}
	return emergency, nil
}

func (r *EmergencyRegistry) Get(ctx context.Context, id primitive.ObjectID) (*models.Emergency, error) {
	return r.store.GetByID(ctx, id)
}

func (r *EmergencyRegistry) List(ctx context.Context, q models.ListEmergenciesQuery) ([]*models.Emergency, int64, error) {
	return r.store.List(ctx, q)
}

// ListActive returns emergencies still open, newest first.
func (r *EmergencyRegistry) ListActive(ctx context.Context) ([]*models.Emergency, error) {
	return r.store.ListActive(ctx)
}

func (r *EmergencyRegistry) ListNear(ctx context.Context, lng, lat, radiusMeters float64) ([]*models.Emergency, error) {
	if !utils.IsValidCoordinate(lng, lat) {
		return nil, utils.NewValidationError("coordinates are out of range", nil)
	}
	statuses := []string{models.EmergencyStatusActive, models.EmergencyStatusResponding}
	return r.store.FindNearby(ctx, lng, lat, radiusMeters, statuses)
}

// RespondResult describes the outcome of a respond call.
type RespondResult struct {
	Emergency *models.Emergency
	Responder *models.Responder
	// Added is true when this call created the responder entry, false when
	// it advanced an existing one.
	Added bool
	// Changed is false for no-op calls (responder already completed).
	Changed bool
}

// AddOrAdvanceResponder registers userID on the emergency or moves their
// existing entry one step along the ladder notified -> en_route -> on_scene
// -> completed. A first-time respond enters directly at en_route with both
// notifiedAt and respondedAt stamped. Responding to a terminal emergency is
// a conflict; advancing past completed is a no-op.
func (r *EmergencyRegistry) AddOrAdvanceResponder(ctx context.Context, id, userID primitive.ObjectID) (*RespondResult, error) {
	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	emergency, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if emergency.IsTerminal() {
		return nil, utils.NewTerminalStateError(emergency.Status)
	}

	now := time.Now()
	i := emergency.FindResponder(userID.Hex())

	var added, changed bool
	if i < 0 {
		emergency.Responders = append(emergency.Responders, models.Responder{
			UserID:      userID,
			Status:      models.ResponderStatusEnRoute,
			NotifiedAt:  &now,
			RespondedAt: &now,
		})
		i = len(emergency.Responders) - 1
		added = true
		changed = true
	} else {
		responder := &emergency.Responders[i]
		next, ok := models.NextResponderStatus(responder.Status)
		if !ok {
			// Already completed; repeat calls change nothing.
			return &RespondResult{
				Emergency: emergency,
				Responder: responder,
			}, nil
		}
		responder.Status = next
		switch next {
		case models.ResponderStatusEnRoute:
			responder.RespondedAt = &now
		case models.ResponderStatusOnScene:
			responder.ArrivedAt = &now
		case models.ResponderStatusCompleted:
			responder.CompletedAt = &now
		}
		changed = true
	}

	if emergency.Status == models.EmergencyStatusActive && emergency.HasActiveResponder(userID.Hex()) {
		emergency.Status = models.EmergencyStatusResponding
	}

	if err := r.store.SaveResponderState(ctx, id, emergency.Responders, emergency.Status); err != nil {
		return nil, err
	}

	return &RespondResult{
		Emergency: emergency,
		Responder: &emergency.Responders[i],
		Added:     added,
		Changed:   changed,
	}, nil
}

// SetStatus transitions the emergency lifecycle status on behalf of userID.
// Only the creator or a responder currently en_route or on_scene may change
// the status. Terminal emergencies reject all changes; setting the current
// status again is accepted and changes nothing.
func (r *EmergencyRegistry) SetStatus(ctx context.Context, id, userID primitive.ObjectID, status string) (*models.Emergency, error) {
	if !models.IsValidEmergencyStatus(status) {
		return nil, utils.NewValidationError("invalid emergency status", map[string]string{"status": status})
	}

	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	emergency, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if emergency.IsTerminal() {
		return nil, utils.NewTerminalStateError(emergency.Status)
	}
	if !emergency.IsCreator(userID.Hex()) && !emergency.HasActiveResponder(userID.Hex()) {
		return nil, utils.NewAuthorizationError("not authorized to update this emergency")
	}

	if emergency.Status == status {
		return emergency, nil
	}

	var resolvedAt *time.Time
	if status == models.EmergencyStatusResolved {
		resolvedAt = nowPtr()
	}

	if err := r.store.UpdateStatus(ctx, id, status, resolvedAt); err != nil {
		return nil, err
	}

	emergency.Status = status
	emergency.ResolvedAt = resolvedAt
	emergency.UpdatedAt = time.Now()
	return emergency, nil
}

// SetResponderETA persists a route estimate for a responder. Best effort;
// ETA writes do not contend with the lifecycle lock.
func (r *EmergencyRegistry) SetResponderETA(ctx context.Context, id, userID primitive.ObjectID, eta *models.ResponderETA) error {
	return r.store.SetResponderETA(ctx, id, userID, eta)
}
