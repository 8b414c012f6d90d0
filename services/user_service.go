package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/interfaces"
	"helpnet/models"
	"helpnet/utils"
)

type UserService struct {
	userStore interfaces.UserStore
	validator *utils.ValidationService
}

func NewUserService(userStore interfaces.UserStore) *UserService {
	return &UserService{
		userStore: userStore,
		validator: utils.NewValidationService(),
	}
}

func (us *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := us.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	if err := us.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := us.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.AvailabilityStatus != nil {
		user.AvailabilityStatus = *req.AvailabilityStatus
	}
	if req.NotificationPreferences != nil {
		user.NotificationPreferences = *req.NotificationPreferences
	}

	if err := us.userStore.Update(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// UpdateLocation stores the user's current position, which feeds responder
// discovery and ETA estimates.
func (us *UserService) UpdateLocation(ctx context.Context, userID primitive.ObjectID, req models.UpdateLocationRequest) error {
	if err := us.validator.ValidateStruct(req); err != nil {
		return err
	}

	point := models.NewGeoPoint(req.Longitude, req.Latitude)
	return us.userStore.UpdateLocation(ctx, userID, point, time.Now())
}

func (us *UserService) RegisterDeviceToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	if token == "" {
		return utils.NewValidationError("token is required", nil)
	}
	return us.userStore.AddDeviceToken(ctx, userID, token)
}

func (us *UserService) RemoveDeviceToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	if token == "" {
		return utils.NewValidationError("token is required", nil)
	}
	return us.userStore.RemoveDeviceToken(ctx, userID, token)
}
