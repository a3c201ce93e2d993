package gateway

import (
	"chat-core/auth"
	"chat-core/contract"
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/errors"
	"chat-core/sink"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Outbound frame tags. Error frames go to the offending session only.
const (
	frameReady               = "ready"
	frameMessage             = "message"
	frameConversationCreated = "conversation_created"
	frameError               = "error"
)

type frame struct {
	Type    string            `json:"type"`
	Payload any               `json:"payload,omitempty"`
	Error   *errors.WireError `json:"error,omitempty"`
}

type readyPayload struct {
	UserID          domain.UserID           `json:"userId"`
	ConversationIDs []domain.ConversationID `json:"conversationIds"`
}

// session is one instance of the connection state machine:
// Connecting -> Authenticated&Subscribed -> Active -> Disconnected.
// The machine is never re-entered; a new physical connection gets a fresh
// session with a fresh id.
type session struct {
	id       contract.ConnID
	userID   domain.UserID
	conn     *websocket.Conn
	sink     *sink.SessionSink
	outbound chan frame
	gateway  *Gateway
}

// handleWebSocket drives the connect phase. Authentication already happened
// in the middleware (an invalid assertion never reaches the upgrade, so a
// failed connect joins zero channels); what remains is subscribing the fresh
// connection to its personal channel and one channel per conversation the
// durable roster knows about right now.
func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(auth.UserIDFromContext(r.Context()))

	conversationIDs, err := g.conversations.GetUserConversationIDs(r.Context(), userID)
	if err != nil {
		g.respondError(w, err)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("WebSocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	s := &session{
		id:       contract.ConnID(uuid.NewString()),
		userID:   userID,
		conn:     conn,
		sink:     sink.NewSessionSink(g.wsConfig.SendBuffer),
		outbound: make(chan frame, g.wsConfig.SendBuffer),
		gateway:  g,
	}

	g.realtime.RegisterConnection(s.id, s.sink)
	g.realtime.SubscribeChannel(s.id, domain.UserChannel(userID))
	for _, conversationID := range conversationIDs {
		g.realtime.SubscribeChannel(s.id, domain.ConversationChannel(conversationID))
	}
	g.log.Info("Session connected", "user_id", userID, "conn_id", s.id,
		"conversations", len(conversationIDs))

	s.outbound <- frame{Type: frameReady, Payload: readyPayload{UserID: userID, ConversationIDs: conversationIDs}}

	ctx, cancel := context.WithCancel(context.Background())
	go s.writePump(ctx)
	s.readPump()
	cancel()
}

// readPump is the Active phase: it blocks on inbound frames until the client
// goes away. Graceful close and transport failure end up in the same place,
// Drop, which removes the connection from every channel with no durable
// side effects.
func (s *session) readPump() {
	g := s.gateway
	defer func() {
		g.realtime.DropConnection(s.id)
		_ = s.conn.Close()
		g.log.Info("Session disconnected", "user_id", s.userID, "conn_id", s.id)
	}()

	s.conn.SetReadLimit(g.wsConfig.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(g.wsConfig.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(g.wsConfig.PongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn("WebSocket read error", "conn_id", s.id, "error", err)
			}
			return
		}
		s.handleCommand(raw)
	}
}

// handleCommand dispatches one inbound frame over the closed command set.
// Expected failures are recovered here into a caller-only error frame: a
// failed operation produces zero fan-out events for anyone else.
func (s *session) handleCommand(raw []byte) {
	g := s.gateway

	cmd, err := domain.DecodeCommand(raw)
	if err != nil {
		s.sendError(fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	// The session context dies with the connection, but a persist that
	// already started must finish and fan out; only delivery to this very
	// connection is lost. Hence the background context below.
	ctx := context.Background()

	switch c := cmd.(type) {
	case domain.SendMessageCommand:
		view, err := g.messages.AddMessage(ctx, c.ConversationID, s.userID, c.Content, c.ClientID)
		if err != nil {
			s.sendError(err)
			return
		}
		g.realtime.Publish(ctx, event.MessageSent{Message: view})

	case domain.CreateConversationCommand:
		view, err := g.conversations.CreateConversation(ctx, s.userID, c.ParticipantUserIDs, c.Title)
		if err != nil {
			s.sendError(err)
			return
		}
		// Only this connection joins the new channel immediately. Other
		// live sessions, including the creator's other devices, learn about
		// it on their personal channel and resubscribe on reconnect.
		g.realtime.SubscribeChannel(s.id, domain.ConversationChannel(view.ID))
		g.realtime.Publish(ctx, event.ConversationCreated{Conversation: view})
	}
}

func (s *session) sendError(err error) {
	wireErr := errors.MapToWireError(err)
	if wireErr.Code >= 500 {
		s.gateway.log.Error("Unexpected failure in session", "conn_id", s.id, "error", err)
	}
	select {
	case s.outbound <- frame{Type: frameError, Error: &wireErr}:
	default:
		s.gateway.log.Debug("Outbound buffer full, dropping error frame", "conn_id", s.id)
	}
}

// writePump is the sole writer on the connection. It interleaves fanned-out
// events, session-local frames and keepalive pings.
func (s *session) writePump(ctx context.Context) {
	g := s.gateway
	ticker := time.NewTicker(g.wsConfig.PingInterval)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-s.sink.Events:
			outFrame, ok := toFrame(evt)
			if !ok {
				continue
			}
			if err := s.write(outFrame); err != nil {
				return
			}
		case outFrame := <-s.outbound:
			if err := s.write(outFrame); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(g.wsConfig.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) write(f frame) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.gateway.wsConfig.WriteWait))
	return s.conn.WriteJSON(f)
}

// toFrame converts a fanned-out event into its outbound frame. Telemetry
// events carry no frame: they are never shown to clients.
func toFrame(e event.DomainEvent) (frame, bool) {
	switch evt := e.(type) {
	case event.MessageSent:
		return frame{Type: frameMessage, Payload: evt.Message}, true
	case event.ConversationCreated:
		return frame{Type: frameConversationCreated, Payload: evt.Conversation}, true
	default:
		return frame{}, false
	}
}
