package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"helpnet/middleware"
	"helpnet/utils"
	"helpnet/websocket"
)

type WebSocketController struct {
	hub *websocket.Hub
}

func NewWebSocketController(hub *websocket.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// Connect upgrades the request to a websocket connection for the
// authenticated user. The auth middleware has already validated the token
// (passed as a query parameter for browser clients).
func (wc *WebSocketController) Connect(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		utils.ErrorResponse(c, err)
		return
	}

	conn, err := websocket.Upgrade(c.Writer, c.Request)
	if err != nil {
		logrus.Errorf("WebSocket upgrade failed for user %s: %v", userID.Hex(), err)
		return
	}

	client := websocket.NewClient(conn, wc.hub, userID.Hex())
	client.Register()
}
