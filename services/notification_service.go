package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/interfaces"
	"helpnet/models"
	"helpnet/utils"
)

// NotificationService persists notifications, honors per-user preferences and
// fans deliveries out over the realtime bus, push and SMS.
type NotificationService struct {
	notificationStore interfaces.NotificationStore
	userStore         interfaces.UserStore
	bus               interfaces.RealtimeBus
	push              interfaces.PushSender
	sms               interfaces.SMSSender
}

func NewNotificationService(
	notificationStore interfaces.NotificationStore,
	userStore interfaces.UserStore,
	bus interfaces.RealtimeBus,
	push interfaces.PushSender,
	sms interfaces.SMSSender,
) *NotificationService {
	return &NotificationService{
		notificationStore: notificationStore,
		userStore:         userStore,
		bus:               bus,
		push:              push,
		sms:               sms,
	}
}

// Notify creates a notification for one user. When the user has opted out of
// the notification's category, or does not exist at all, nothing is stored or
// delivered and Notify returns nil; neither case is an error.
func (ns *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, payload models.NotificationPayload) (*models.Notification, error) {
	user, err := ns.userStore.GetByID(ctx, userID)
	if err != nil {
		if se, ok := utils.GetServiceError(err); ok && se.Code == models.ErrCodeNotFound {
			return nil, nil
		}
		return nil, err
	}

	return ns.notifyUser(ctx, user, payload)
}

// NotifyUsers delivers the same payload to a batch of already-loaded users,
// returning how many notifications were actually created.
func (ns *NotificationService) NotifyUsers(ctx context.Context, users []*models.User, payload models.NotificationPayload) int {
	created := 0
	for _, user := range users {
		n, err := ns.notifyUser(ctx, user, payload)
		if err != nil {
			logrus.Errorf("Failed to notify user %s: %v", user.ID.Hex(), err)
			continue
		}
		if n != nil {
			created++
		}
	}
	return created
}

func (ns *NotificationService) notifyUser(ctx context.Context, user *models.User, payload models.NotificationPayload) (*models.Notification, error) {
	if !user.WantsNotification(payload.Type) {
		return nil, nil
	}

	notification := &models.Notification{
		UserID:         user.ID,
		EmergencyID:    payload.EmergencyID,
		Type:           payload.Type,
		Title:          payload.Title,
		Message:        payload.Message,
		Priority:       payload.Priority,
		Status:         models.NotificationStatusUnread,
		ActionRequired: payload.ActionRequired,
		ActionURL:      payload.ActionURL,
	}
	if notification.Priority == "" {
		notification.Priority = models.NotificationPriorityMedium
	}

	if err := ns.notificationStore.Create(ctx, notification); err != nil {
		return nil, err
	}

	ns.bus.EmitToUser(user.ID.Hex(), models.EventNotificationReceived, notification)

	// Out-of-band channels are best effort; a delivery failure never fails
	// the notification itself.
	if ns.push != nil && len(user.DeviceTokens) > 0 {
		data := map[string]string{"type": payload.Type}
		if !payload.EmergencyID.IsZero() {
			data["emergencyId"] = payload.EmergencyID.Hex()
		}
		if err := ns.push.SendToTokens(ctx, user.DeviceTokens, payload.Title, payload.Message, data); err != nil {
			logrus.Errorf("Push delivery failed for user %s: %v", user.ID.Hex(), err)
		}
	}
	if ns.sms != nil && payload.Priority == models.NotificationPriorityHigh && user.Phone != "" {
		if err := ns.sms.Send(ctx, user.Phone, payload.Title+": "+payload.Message); err != nil {
			logrus.Errorf("SMS delivery failed for user %s: %v", user.ID.Hex(), err)
		}
	}

	return notification, nil
}

func (ns *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID, q models.ListNotificationsQuery) ([]*models.Notification, *models.MetaData, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	notifications, total, err := ns.notificationStore.List(ctx, userID, q)
	if err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	meta := &models.MetaData{
		Page:       q.Page,
		PageSize:   q.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
	return notifications, meta, nil
}

func (ns *NotificationService) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	return ns.notificationStore.MarkAsRead(ctx, id, userID)
}

func (ns *NotificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return ns.notificationStore.MarkAllAsRead(ctx, userID)
}

func (ns *NotificationService) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return ns.notificationStore.CountUnread(ctx, userID)
}

// helper used by emergency flows to stamp a consistent created time into
// realtime payloads.
func nowPtr() *time.Time {
	t := time.Now()
	return &t
}
