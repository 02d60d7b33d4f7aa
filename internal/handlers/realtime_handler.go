package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/roomcare/housekeeping-backend/internal/realtime"
	"github.com/roomcare/housekeeping-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// RealtimeHandler upgrades authenticated clients to the event websocket
type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

// NewRealtimeHandler creates a new RealtimeHandler accepting the given origins.
// "*" allows any origin.
func NewRealtimeHandler(hub *realtime.Hub, allowedOrigins []string, logger *logrus.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// Connect joins the caller's user room and, when set, its facility room
// GET /ws?token=
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userCtx.UserID).Warn("Websocket upgrade failed")
		return
	}

	rooms := []string{services.UserRoom(userCtx.UserID)}
	if userCtx.Facility != "" {
		rooms = append(rooms, services.FacilityRoom(userCtx.Facility))
	}

	client := h.hub.NewClient(userCtx.UserID, rooms...)
	h.hub.Serve(conn, client)
}
