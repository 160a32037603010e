package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"event-service/internal/models"
	"event-service/internal/observability"
	"event-service/internal/repositories"
	"event-service/internal/telemetry"
)

// PresenceHandler owns the socket endpoint: registration, presence
// broadcast, live message relay and typing signals.
type PresenceHandler struct {
	hub         *Hub
	userRepo    repositories.UserRepository
	messageRepo repositories.MessageRepository
	emitter     *telemetry.ActivityEmitter
}

// NewPresenceHandler constructs a PresenceHandler.
func NewPresenceHandler(hub *Hub, userRepo repositories.UserRepository, messageRepo repositories.MessageRepository, emitter *telemetry.ActivityEmitter) *PresenceHandler {
	return &PresenceHandler{hub: hub, userRepo: userRepo, messageRepo: messageRepo, emitter: emitter}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Handle upgrades the connection and services the socket protocol until
// the peer disconnects.
func (h *PresenceHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("event-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		ConnectedAt: time.Now(),
	}

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")

	go h.readLoop(conn, info)
}

func (h *PresenceHandler) readLoop(conn *websocket.Conn, info ConnInfo) {
	// Requests on this connection outlive the HTTP handshake.
	ctx := context.Background()

	defer func() {
		h.disconnect(ctx, conn, info)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("websocket bad envelope from conn %s: %v", info.ConnID, err)
			continue
		}

		switch env.Type {
		case "registerUser":
			h.registerUser(ctx, conn, info, env.Data)
		case "sendMessage":
			h.sendMessage(ctx, env.Data)
		case "typing":
			h.relayTyping(conn, env.Data, "typingStart")
		case "stopTyping":
			h.relayTyping(conn, env.Data, "typingStop")
		default:
			log.Printf("websocket unknown event type %q from conn %s", env.Type, info.ConnID)
		}
	}
}

func (h *PresenceHandler) registerUser(ctx context.Context, conn *websocket.Conn, info ConnInfo, data json.RawMessage) {
	var req struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.ID == 0 {
		log.Printf("websocket registerUser bad payload: %v", err)
		return
	}

	user, err := h.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		log.Printf("websocket registerUser unknown user %d: %v", req.ID, err)
		return
	}

	info.UserID = req.ID
	if displaced := h.hub.Register(req.ID, conn, info); displaced != nil {
		displaced.Close()
	}

	if err := h.userRepo.SetOnline(ctx, req.ID, true); err != nil {
		log.Printf("websocket set online failed for user %d: %v", req.ID, err)
	}

	observability.IncWSEvent("registerUser")
	h.broadcastOnline(ctx)

	activity := models.Activity{
		Type:      "joined",
		User:      user.Username,
		Action:    "joined the app",
		Timestamp: time.Now(),
	}
	h.hub.Broadcast(models.SocketEnvelope{Type: "activity", Data: activity})
	h.emitter.Emit(ctx, activity, info.RequestID)
}

func (h *PresenceHandler) disconnect(ctx context.Context, conn *websocket.Conn, info ConnInfo) {
	observability.DecWSActive()
	observability.IncWSEvent("ws_disconnect")

	userID, ok := h.hub.Unregister(conn)
	if !ok {
		return
	}
	if err := h.userRepo.SetOnline(ctx, userID, false); err != nil {
		log.Printf("websocket set offline failed for user %d: %v", userID, err)
	}
	h.broadcastOnline(ctx)
}

func (h *PresenceHandler) sendMessage(ctx context.Context, data json.RawMessage) {
	var req struct {
		From    int    `json:"from"`
		To      int    `json:"to"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.Message == "" {
		log.Printf("websocket sendMessage bad payload: %v", err)
		return
	}

	msg, err := h.messageRepo.Create(ctx, req.From, req.To, req.Message)
	if err != nil {
		log.Printf("websocket sendMessage store failed: %v", err)
		return
	}

	observability.IncWSEvent("sendMessage")
	event := models.SocketEnvelope{Type: "newMessage", Data: msg}
	h.hub.SendToUser(req.To, event)
	// Echo to the sender's own connection for multi-device symmetry.
	h.hub.SendToUser(req.From, event)
}

func (h *PresenceHandler) relayTyping(conn *websocket.Conn, data json.RawMessage, eventType string) {
	var req struct {
		To int `json:"to"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		log.Printf("websocket typing bad payload: %v", err)
		return
	}

	from, ok := h.hub.UserFor(conn)
	if !ok {
		return
	}
	h.hub.SendToUser(req.To, models.SocketEnvelope{
		Type: eventType,
		Data: models.TypingSignal{From: from},
	})
}

func (h *PresenceHandler) broadcastOnline(ctx context.Context) {
	users, err := h.userRepo.List(ctx)
	if err != nil {
		log.Printf("websocket online list failed: %v", err)
		return
	}
	h.hub.Broadcast(models.SocketEnvelope{Type: "usersOnline", Data: users})
}
