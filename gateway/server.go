// Package gateway owns the client-facing surface: the REST routes and the
// per-connection WebSocket sessions doing realtime fan-out.
package gateway

import (
	"chat-core/auth"
	"chat-core/contract"
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/errors"
	"chat-core/services"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

// Realtime is what a session needs from the runtime: registration, channel
// subscription and publishing. The orchestrator implements it.
type Realtime interface {
	Publish(ctx context.Context, e event.DomainEvent)
	RegisterConnection(connID contract.ConnID, sink contract.EventSink)
	SubscribeChannel(connID contract.ConnID, channel domain.Channel)
	DropConnection(connID contract.ConnID)
}

// WebSocketConfig bounds one duplex connection.
type WebSocketConfig struct {
	MaxMessageSize int64
	PongWait       time.Duration
	PingInterval   time.Duration
	WriteWait      time.Duration
	SendBuffer     int
}

type Gateway struct {
	log           *slog.Logger
	authService   services.IAuthService
	conversations services.IConversationService
	messages      services.IMessageService
	realtime      Realtime
	wsConfig      WebSocketConfig
	upgrader      websocket.Upgrader
}

func NewGateway(log *slog.Logger, authService services.IAuthService,
	conversations services.IConversationService, messages services.IMessageService,
	realtime Realtime, wsConfig WebSocketConfig) *Gateway {
	return &Gateway{
		log:           log,
		authService:   authService,
		conversations: conversations,
		messages:      messages,
		realtime:      realtime,
		wsConfig:      wsConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (g *Gateway) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", g.handleRegister)
		r.Post("/auth/login", g.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Get("/conversations", g.handleListConversations)
			r.Post("/conversations", g.handleCreateConversation)
			r.Get("/conversations/{conversationID}", g.handleGetConversation)
			r.Get("/conversations/{conversationID}/messages", g.handleListMessages)
			r.Post("/conversations/{conversationID}/messages", g.handleSendMessage)
			r.Get("/conversations/{conversationID}/search", g.handleSearchMessages)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/ws", g.handleWebSocket)
	})

	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func (g *Gateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.respondError(w, errors.ErrValidation)
		return
	}
	userID, token, err := g.authService.Register(req.Email, req.Username, req.Password)
	if err != nil {
		g.respondError(w, err)
		return
	}
	g.respondJSON(w, http.StatusCreated, authResponse{UserID: userID, Token: string(token)})
}

func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.respondError(w, errors.ErrValidation)
		return
	}
	userID, token, err := g.authService.Login(req.Email, req.Password)
	if err != nil {
		g.respondError(w, err)
		return
	}
	g.respondJSON(w, http.StatusOK, authResponse{UserID: userID, Token: string(token)})
}

func (g *Gateway) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(auth.UserIDFromContext(r.Context()))
	views, err := g.conversations.GetUserConversations(r.Context(), userID)
	if err != nil {
		g.respondError(w, err)
		return
	}
	g.respondJSON(w, http.StatusOK, views)
}

type createConversationRequest struct {
	ParticipantUserIDs []domain.UserID `json:"participantUserIds"`
	Title              string          `json:"title,omitempty"`
}

func (g *Gateway) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(auth.UserIDFromContext(r.Context()))
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.respondError(w, errors.ErrValidation)
		return
	}
	view, err := g.conversations.CreateConversation(r.Context(), userID, req.ParticipantUserIDs, req.Title)
	if err != nil {
		g.respondError(w, err)
		return
	}
	// Live sessions of the participants are notified on their personal
	// channels; they are not auto-joined to the new conversation channel.
	g.realtime.Publish(context.WithoutCancel(r.Context()), event.ConversationCreated{Conversation: view})
	g.respondJSON(w, http.StatusCreated, view)
}

func (g *Gateway) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(auth.UserIDFromContext(r.Context()))
	conversationID := domain.ConversationID(chi.URLParam(r, "conversationID"))
	view, messages, err := g.conversations.GetConversationByID(r.Context(), conversationID, userID)
	if err != nil {
		g.respondError(w, err)
		return
	}
	g.respondJSON(w, http.StatusOK, map[string]any{
		"conversation": view,
		"messages":     messages,
	})
}

func (g *Gateway) handleListMessages(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(auth.UserIDFromContext(r.Context()))
	conversationID := domain.ConversationID(chi.URLParam(r, "conversationID"))
	messages, err := g.messages.GetConversationMessages(r.Context(), conversationID, userID)
	if err != nil {
		g.respondError(w, err)
		return
	}
	g.respondJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Content  string `json:"content"`
	ClientID string `json:"clientId,omitempty"`
}

func (g *Gateway) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(auth.UserIDFromContext(r.Context()))
	conversationID := domain.ConversationID(chi.URLParam(r, "conversationID"))
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		g.respondError(w, errors.ErrValidation)
		return
	}
	view, err := g.messages.AddMessage(r.Context(), conversationID, userID, req.Content, req.ClientID)
	if err != nil {
		g.respondError(w, err)
		return
	}
	// Persisted: fan out even if this caller goes away right now.
	g.realtime.Publish(context.WithoutCancel(r.Context()), event.MessageSent{Message: view})
	g.respondJSON(w, http.StatusCreated, view)
}

func (g *Gateway) handleSearchMessages(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserID(auth.UserIDFromContext(r.Context()))
	conversationID := domain.ConversationID(chi.URLParam(r, "conversationID"))
	query := r.URL.Query().Get("q")
	messages, err := g.messages.SearchMessages(r.Context(), conversationID, userID, query)
	if err != nil {
		g.respondError(w, err)
		return
	}
	g.respondJSON(w, http.StatusOK, messages)
}

func (g *Gateway) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		g.log.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the internal taxonomy onto the wire. Unexpected failures
// are logged with context here and surfaced opaquely.
func (g *Gateway) respondError(w http.ResponseWriter, err error) {
	wireErr := errors.MapToWireError(err)
	if wireErr.Code >= 500 {
		g.log.Error("Unexpected failure", "error", err)
	}
	g.respondJSON(w, wireErr.Code, map[string]any{"error": wireErr})
}
