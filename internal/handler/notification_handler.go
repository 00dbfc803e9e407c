package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/internal/pkg/serverutils"
	"eop-planner-be/internal/service"
	internalWS "eop-planner-be/internal/websocket"
)

// NotificationHandler exposes the live-update surface: a per-session
// websocket for dashboard pushes and a REST endpoint for the persisted
// activity feed.
type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(svc *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/:session_id", h.ServeWs)
	r.Get("/notifications", serverutils.JwtMiddleware, h.GetFeed)
}

// ServeWs upgrades the connection and scopes it to the session so every
// proposal snapshot and activity event for that session is pushed to it.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *NotificationHandler) GetFeed(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	feed, err := h.service.GetFeed(c.UserContext(), sessionID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":   feed,
		"limit":  limit,
		"offset": offset,
	})
}
