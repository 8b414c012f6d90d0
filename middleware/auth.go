package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/utils"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

type AuthMiddleware struct {
	jwtService *utils.JWTService
}

func NewAuthMiddleware(jwtService *utils.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth validates the bearer token and stores the caller's identity in
// the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := am.extractToken(c)
		if token == "" {
			utils.ErrorResponse(c, utils.NewAuthenticationError("authentication token required"))
			c.Abort()
			return
		}

		claims, err := am.jwtService.ValidateToken(token)
		if err != nil {
			logrus.Warnf("Invalid token: %v", err)
			utils.ErrorResponse(c, utils.NewAuthenticationError("invalid authentication token"))
			c.Abort()
			return
		}
		if claims.TokenType != utils.TokenTypeAccess {
			utils.ErrorResponse(c, utils.NewAuthenticationError("invalid token type"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Websocket clients pass the token as a query parameter.
	return c.Query("token")
}

// UserID returns the authenticated caller's ID from the request context.
func UserID(c *gin.Context) (primitive.ObjectID, error) {
	raw := c.GetString(ContextUserID)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, utils.NewAuthenticationError("invalid user identity")
	}
	return id, nil
}
