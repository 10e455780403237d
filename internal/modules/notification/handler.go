package notification

import (
	"net/http"

	"github.com/anthonykurieh/voice-facilitator/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler upgrades authenticated dashboard clients onto the event hub.
//
// Endpoint: GET /ws/events?token=JWT_TOKEN
// Authentication goes through a query parameter because browser
// WebSocket clients cannot set headers.
type Handler struct {
	hub *Hub
	jwt *jwt.Service
	log *zap.Logger
}

func NewHandler(hub *Hub, jwtService *jwt.Service, log *zap.Logger) *Handler {
	return &Handler{hub: hub, jwt: jwtService, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/events", h.HandleWebSocket)
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Token is required. Use ?token=YOUR_JWT_TOKEN",
		})
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.ServeWS(conn, claims.Subject)
}
