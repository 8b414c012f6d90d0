package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"helpnet/interfaces"
	"helpnet/models"
	"helpnet/utils"
)

type AuthService struct {
	userStore  interfaces.UserStore
	jwtService *utils.JWTService
	validator  *utils.ValidationService
}

func NewAuthService(userStore interfaces.UserStore, jwtService *utils.JWTService) *AuthService {
	return &AuthService{
		userStore:  userStore,
		jwtService: jwtService,
		validator:  utils.NewValidationService(),
	}
}

func (as *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := as.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := as.userStore.GetByEmail(ctx, req.Email); err == nil {
		return nil, utils.NewConflictError("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleRequester
	}

	user := &models.User{
		Name:                    req.Name,
		Email:                   req.Email,
		Phone:                   req.Phone,
		Password:                string(hash),
		Role:                    role,
		NotificationPreferences: models.DefaultNotificationPreferences(),
	}

	if err := as.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	return as.issueTokens(user)
}

func (as *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := as.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := as.userStore.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.NewAuthenticationError("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, utils.NewAuthenticationError("invalid email or password")
	}
	if !user.IsActive {
		return nil, utils.NewAuthenticationError("account is deactivated")
	}

	return as.issueTokens(user)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (as *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	claims, err := as.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != utils.TokenTypeRefresh {
		return nil, utils.NewAuthenticationError("not a refresh token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, utils.NewAuthenticationError("invalid token subject")
	}

	user, err := as.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewAuthenticationError("user no longer exists")
	}

	return as.issueTokens(user)
}

func (as *AuthService) issueTokens(user *models.User) (*models.AuthResponse, error) {
	access, err := as.jwtService.GenerateAccessToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, utils.NewInternalError("failed to sign token", err)
	}
	refresh, err := as.jwtService.GenerateRefreshToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, utils.NewInternalError("failed to sign token", err)
	}

	user.Password = ""
	return &models.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(as.jwtService.AccessTTL().Seconds()),
	}, nil
}
