package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/models"
)

func newNotificationFixture() (*NotificationService, *fakeUserStore, *fakeNotificationStore, *fakeBus) {
	users := newFakeUserStore()
	store := newFakeNotificationStore()
	bus := &fakeBus{}
	service := NewNotificationService(store, users, bus, nil, nil)
	return service, users, store, bus
}

func notifyPayload() models.NotificationPayload {
	return models.NotificationPayload{
		EmergencyID: primitive.NewObjectID(),
		Type:        models.NotificationTypeEmergencyAlert,
		Title:       "Medical emergency nearby",
		Message:     "Person collapsed at Trafalgar Square",
		Priority:    models.NotificationPriorityHigh,
	}
}

func TestNotifyStoresAndEmits(t *testing.T) {
	service, users, store, bus := newNotificationFixture()
	user := users.add(&models.User{
		Email:                   "a@example.com",
		NotificationPreferences: models.DefaultNotificationPreferences(),
	})

	n, err := service.Notify(context.Background(), user.ID, notifyPayload())
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.Equal(t, models.NotificationStatusUnread, n.Status)
	assert.Len(t, store.forUser(user.ID), 1)

	events := bus.eventsNamed(models.EventNotificationReceived)
	require.Len(t, events, 1)
	assert.Equal(t, "user:"+user.ID.Hex(), events[0].Target)
}

func TestNotifyRespectsOptOut(t *testing.T) {
	service, users, store, bus := newNotificationFixture()
	prefs := models.DefaultNotificationPreferences()
	prefs.EmergencyAlerts = false
	user := users.add(&models.User{
		Email:                   "optout@example.com",
		NotificationPreferences: prefs,
	})

	n, err := service.Notify(context.Background(), user.ID, notifyPayload())
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, store.forUser(user.ID))
	assert.Empty(t, bus.eventsNamed(models.EventNotificationReceived))
}

func TestNotifyUnknownTypeIsDropped(t *testing.T) {
	service, users, store, _ := newNotificationFixture()
	user := users.add(&models.User{
		Email:                   "b@example.com",
		NotificationPreferences: models.DefaultNotificationPreferences(),
	})

	payload := notifyPayload()
	payload.Type = "marketing"

	n, err := service.Notify(context.Background(), user.ID, payload)
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, store.forUser(user.ID))
}

func TestNotifyMissingUserIsSilentNoOp(t *testing.T) {
	service, _, store, bus := newNotificationFixture()
	ghost := primitive.NewObjectID()

	n, err := service.Notify(context.Background(), ghost, notifyPayload())
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, store.forUser(ghost))
	assert.Empty(t, bus.eventsNamed(models.EventNotificationReceived))
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	service, users, _, _ := newNotificationFixture()
	user := users.add(&models.User{
		Email:                   "c@example.com",
		NotificationPreferences: models.DefaultNotificationPreferences(),
	})

	n, err := service.Notify(context.Background(), user.ID, notifyPayload())
	require.NoError(t, err)

	first, err := service.MarkAsRead(context.Background(), n.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusRead, first.Status)
	require.NotNil(t, first.ReadAt)

	second, err := service.MarkAsRead(context.Background(), n.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusRead, second.Status)
	assert.Equal(t, first.ReadAt.Unix(), second.ReadAt.Unix())
}

func TestMarkAllAsReadAndUnreadCount(t *testing.T) {
	service, users, _, _ := newNotificationFixture()
	user := users.add(&models.User{
		Email:                   "d@example.com",
		NotificationPreferences: models.DefaultNotificationPreferences(),
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := service.Notify(ctx, user.ID, notifyPayload())
		require.NoError(t, err)
	}

	count, err := service.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	updated, err := service.MarkAllAsRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	count, err = service.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestListForUserClampsPagination(t *testing.T) {
	service, users, _, _ := newNotificationFixture()
	user := users.add(&models.User{
		Email:                   "e@example.com",
		NotificationPreferences: models.DefaultNotificationPreferences(),
	})

	_, meta, err := service.ListForUser(context.Background(), user.ID, models.ListNotificationsQuery{
		Page:  -3,
		Limit: 9999,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 100, meta.PageSize)
}
