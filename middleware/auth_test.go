package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"helpnet/utils"
)

func setupAuthRouter(jwtService *utils.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	am := NewAuthMiddleware(jwtService)
	router.GET("/secure", am.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return router
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	jwtService := utils.NewJWTService("secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(jwtService)

	userID := primitive.NewObjectID().Hex()
	token, err := jwtService.GenerateAccessToken(userID, "responder")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, w.Body.String())
}

func TestRequireAuthAcceptsQueryToken(t *testing.T) {
	jwtService := utils.NewJWTService("secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(jwtService)

	token, err := jwtService.GenerateAccessToken(primitive.NewObjectID().Hex(), "requester")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure?token="+token, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	jwtService := utils.NewJWTService("secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(jwtService)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	jwtService := utils.NewJWTService("secret", time.Hour, 24*time.Hour)
	router := setupAuthRouter(jwtService)

	token, err := jwtService.GenerateRefreshToken(primitive.NewObjectID().Hex(), "requester")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
