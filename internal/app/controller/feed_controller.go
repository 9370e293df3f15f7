package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/triorate/triorate-backend/internal/errors"
	"github.com/triorate/triorate-backend/internal/middleware"
	"github.com/triorate/triorate-backend/internal/websocket"
)

// FeedController attaches authenticated clients to the live review feed.
type FeedController struct {
	hub *websocket.Hub
}

func NewFeedController(hub *websocket.Hub) *FeedController {
	return &FeedController{hub: hub}
}

// Connect upgrades the request to a WebSocket subscribed to review events
// GET /api/v1/ws
func (ctrl *FeedController) Connect(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}
	websocket.ServeWS(ctrl.hub, c, userID)
}
