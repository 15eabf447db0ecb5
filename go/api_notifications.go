package cartserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/adapters/ws"
	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/domain"
	notifports "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/ports"
)

// NotificationAPI wires HTTP transport with the notifications bounded context.
type NotificationAPI struct {
	service notifports.Service
	hub     *ws.Hub
}

// NewNotificationAPI creates a NotificationAPI backed by the provided service.
// The hub may be nil when live streaming is not configured.
func NewNotificationAPI(service notifports.Service, hub *ws.Hub) NotificationAPI {
	return NotificationAPI{service: service, hub: hub}
}

// NotificationView is the HTTP representation of a notification.
type NotificationView struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
	At      string `json:"at"`
}

// Get /v1/notifications/current
// Fetch the latest notification, 204 when none is active
func (api *NotificationAPI) GetCurrentNotification(c *gin.Context) {
	current, err := api.service.Current(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if current == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toNotificationView(*current))
}

// Delete /v1/notifications/current
// Dismiss the latest notification
func (api *NotificationAPI) ClearNotification(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/notifications/ws
// Upgrade to a websocket streaming notification transitions
func (api *NotificationAPI) StreamNotifications(c *gin.Context) {
	if api.hub == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	api.hub.Serve(c.Request.Context(), c.Writer, c.Request)
}

func toNotificationView(n domain.Notification) NotificationView {
	return NotificationView{
		ID:      n.ID,
		Status:  string(n.Status),
		Title:   n.Title,
		Message: n.Message,
		At:      n.At.UTC().Format(time.RFC3339Nano),
	}
}
