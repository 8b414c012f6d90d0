package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/models"
	"helpnet/utils"
)

// fakeEmergencyStore is an in-memory EmergencyStore that mirrors the
// repository's terminal-state preconditions.
type fakeEmergencyStore struct {
	mu          sync.Mutex
	emergencies map[primitive.ObjectID]*models.Emergency
}

func newFakeEmergencyStore() *fakeEmergencyStore {
	return &fakeEmergencyStore{
		emergencies: make(map[primitive.ObjectID]*models.Emergency),
	}
}

func copyEmergency(e *models.Emergency) *models.Emergency {
	c := *e
	c.Responders = make([]models.Responder, len(e.Responders))
	copy(c.Responders, e.Responders)
	return &c
}

func (s *fakeEmergencyStore) Create(ctx context.Context, e *models.Emergency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	if e.Status == "" {
		e.Status = models.EmergencyStatusActive
	}
	s.emergencies[e.ID] = copyEmergency(e)
	return nil
}

func (s *fakeEmergencyStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.emergencies[id]
	if !ok {
		return nil, utils.NewNotFoundError("emergency")
	}
	return copyEmergency(e), nil
}

func (s *fakeEmergencyStore) List(ctx context.Context, q models.ListEmergenciesQuery) ([]*models.Emergency, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Emergency
	for _, e := range s.emergencies {
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		if q.Type != "" && e.EmergencyType != q.Type {
			continue
		}
		out = append(out, copyEmergency(e))
	}
	return out, int64(len(out)), nil
}

func (s *fakeEmergencyStore) ListActive(ctx context.Context) ([]*models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Emergency
	for _, e := range s.emergencies {
		if !e.IsTerminal() {
			out = append(out, copyEmergency(e))
		}
	}
	return out, nil
}

func (s *fakeEmergencyStore) FindNearby(ctx context.Context, lng, lat, radiusMeters float64, statuses []string) ([]*models.Emergency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Emergency
	for _, e := range s.emergencies {
		d := utils.CalculateDistance(lat, lng, e.Location.Point.Latitude(), e.Location.Point.Longitude())
		if d > radiusMeters {
			continue
		}
		match := len(statuses) == 0
		for _, st := range statuses {
			if e.Status == st {
				match = true
			}
		}
		if match {
			out = append(out, copyEmergency(e))
		}
	}
	return out, nil
}

func (s *fakeEmergencyStore) SaveResponderState(ctx context.Context, id primitive.ObjectID, responders []models.Responder, emergencyStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.emergencies[id]
	if !ok {
		return utils.NewNotFoundError("emergency")
	}
	if e.IsTerminal() {
		return utils.NewTerminalStateError(e.Status)
	}
	e.Responders = make([]models.Responder, len(responders))
	copy(e.Responders, responders)
	e.Status = emergencyStatus
	e.UpdatedAt = time.Now()
	return nil
}

func (s *fakeEmergencyStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, resolvedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.emergencies[id]
	if !ok {
		return utils.NewNotFoundError("emergency")
	}
	if e.IsTerminal() {
		return utils.NewTerminalStateError(e.Status)
	}
	e.Status = status
	e.ResolvedAt = resolvedAt
	e.UpdatedAt = time.Now()
	return nil
}

func (s *fakeEmergencyStore) SetResponderETA(ctx context.Context, id, userID primitive.ObjectID, eta *models.ResponderETA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.emergencies[id]
	if !ok {
		return utils.NewNotFoundError("emergency")
	}
	for i := range e.Responders {
		if e.Responders[i].UserID == userID {
			e.Responders[i].ETA = eta
		}
	}
	return nil
}

// fakeUserStore keeps users in memory and answers FindNearby with haversine
// distances so ladder tests can place users at exact ranges.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) add(u *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.IsActive = true
	s.users[u.ID] = u
	return u
}

func (s *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	c := *u
	s.add(&c)
	u.ID = c.ID
	u.IsActive = c.IsActive
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("user")
	}
	c := *u
	return &c, nil
}

func (s *fakeUserStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, err := s.GetByID(ctx, id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, utils.NewNotFoundError("user")
}

func (s *fakeUserStore) Update(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return utils.NewNotFoundError("user")
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *fakeUserStore) UpdateLocation(ctx context.Context, id primitive.ObjectID, point *models.GeoPoint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	u.CurrentLocation = point
	u.LastLocationUpdate = at
	return nil
}

func (s *fakeUserStore) AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	for _, t := range u.DeviceTokens {
		if t == token {
			return nil
		}
	}
	u.DeviceTokens = append(u.DeviceTokens, token)
	return nil
}

func (s *fakeUserStore) RemoveDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return utils.NewNotFoundError("user")
	}
	out := u.DeviceTokens[:0]
	for _, t := range u.DeviceTokens {
		if t != token {
			out = append(out, t)
		}
	}
	u.DeviceTokens = out
	return nil
}

func (s *fakeUserStore) FindNearby(ctx context.Context, q models.NearbyUsersQuery) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.User
	for _, u := range s.users {
		if !u.IsActive || u.CurrentLocation == nil {
			continue
		}
		if q.ExcludeUserID != "" && u.ID.Hex() == q.ExcludeUserID {
			continue
		}
		if q.RequireAvailability && !u.AvailabilityStatus {
			continue
		}
		if !q.UpdatedSince.IsZero() && u.LastLocationUpdate.Before(q.UpdatedSince) {
			continue
		}
		d := utils.CalculateDistance(q.Latitude, q.Longitude, u.CurrentLocation.Latitude(), u.CurrentLocation.Longitude())
		if d <= q.RadiusMeters {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

// fakeNotificationStore records created notifications in order.
type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (s *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	if n.Status == "" {
		n.Status = models.NotificationStatusUnread
	}
	c := *n
	s.notifications = append(s.notifications, &c)
	return nil
}

func (s *fakeNotificationStore) List(ctx context.Context, userID primitive.ObjectID, q models.ListNotificationsQuery) ([]*models.Notification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if q.Status != "" && n.Status != q.Status {
			continue
		}
		if q.Type != "" && n.Type != q.Type {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (s *fakeNotificationStore) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == id && n.UserID == userID {
			if n.Status == models.NotificationStatusUnread {
				now := time.Now()
				n.Status = models.NotificationStatusRead
				n.ReadAt = &now
			}
			c := *n
			return &c, nil
		}
	}
	return nil, utils.NewNotFoundError("notification")
}

func (s *fakeNotificationStore) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	now := time.Now()
	for _, n := range s.notifications {
		if n.UserID == userID && n.Status == models.NotificationStatusUnread {
			n.Status = models.NotificationStatusRead
			n.ReadAt = &now
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && n.Status == models.NotificationStatusUnread {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) forUser(userID primitive.ObjectID) []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// fakeBus records emitted events.
type busEvent struct {
	Target string
	Event  string
	Data   interface{}
}

type fakeBus struct {
	mu     sync.Mutex
	events []busEvent
}

func (b *fakeBus) EmitToUser(userID string, event string, data interface{}) {
	b.record("user:"+userID, event, data)
}

func (b *fakeBus) EmitToEmergency(emergencyID string, event string, data interface{}) {
	b.record("emergency:"+emergencyID, event, data)
}

func (b *fakeBus) EmitToAll(event string, data interface{}) {
	b.record("broadcast", event, data)
}

func (b *fakeBus) record(target, event string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, busEvent{Target: target, Event: event, Data: data})
}

func (b *fakeBus) eventsNamed(event string) []busEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []busEvent
	for _, e := range b.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// fixed resolvers for orchestrator tests

type fakeGeocoder struct {
	address string
	err     error
}

func (g *fakeGeocoder) ReverseGeocode(ctx context.Context, lng, lat float64) (string, error) {
	return g.address, g.err
}

type fakeRouter struct {
	duration time.Duration
	err      error
}

func (r *fakeRouter) EstimateDuration(ctx context.Context, fromLng, fromLat, toLng, toLat float64) (time.Duration, error) {
	return r.duration, r.err
}
