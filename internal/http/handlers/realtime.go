package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/realtime"
	"github.com/yungbote/wedsite-backend/internal/services"
)

const weddingChannelPrefix = "wedding:"

type RealtimeHandler struct {
	log      *logger.Logger
	hub      *realtime.SSEHub
	weddings services.WeddingService

	mu      sync.RWMutex
	streams map[uuid.UUID]uuid.UUID // session id -> hub client id
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, weddings services.WeddingService) *RealtimeHandler {
	return &RealtimeHandler{
		log:      log.With("handler", "RealtimeHandler"),
		hub:      hub,
		weddings: weddings,
		streams:  make(map[uuid.UUID]uuid.UUID),
	}
}

// GET /sse/stream
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return
	}

	h.mu.Lock()
	// One stream per session; a reconnect replaces the previous one.
	if existingID, ok := h.streams[rd.SessionID]; ok {
		if existing := h.hub.Client(existingID, rd.UserID); existing != nil {
			h.hub.CloseClient(existing)
		}
	}
	client := h.hub.NewSSEClient(rd.UserID)
	h.streams[rd.SessionID] = client.ID
	h.mu.Unlock()

	h.log.Debug("SSE stream open", "user_id", rd.UserID.String(), "client_id", client.ID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.streams[rd.SessionID] == client.ID {
		delete(h.streams, rd.SessionID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

// POST /sse/subscribe
// body: { "channel": "wedding:<id>" }
func (h *RealtimeHandler) SSESubscribe(c *gin.Context) {
	client, channel, ok := h.resolve(c)
	if !ok {
		return
	}
	if err := h.hub.AddChannel(client, channel); err != nil {
		response.RespondError(c, http.StatusConflict, "conflict", errors.New("SSE connection closed; reconnect and retry"))
		return
	}
	response.RespondOK(c, gin.H{"message": "subscribed", "channel": channel})
}

// POST /sse/unsubscribe
func (h *RealtimeHandler) SSEUnsubscribe(c *gin.Context) {
	client, channel, ok := h.resolve(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, channel)
	response.RespondOK(c, gin.H{"message": "unsubscribed", "channel": channel})
}

// resolve checks the channel is a wedding the caller belongs to and finds the session's stream.
func (h *RealtimeHandler) resolve(c *gin.Context) (*realtime.SSEClient, string, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
		return nil, "", false
	}
	var req struct {
		Channel string `json:"channel" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return nil, "", false
	}
	channel := strings.TrimSpace(req.Channel)
	weddingID, err := uuid.Parse(strings.TrimPrefix(channel, weddingChannelPrefix))
	if !strings.HasPrefix(channel, weddingChannelPrefix) || err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", errors.New("invalid channel"))
		return nil, "", false
	}
	if _, err := h.weddings.RequireMember(c.Request.Context(), weddingID); err != nil {
		response.RespondServiceError(c, err)
		return nil, "", false
	}

	h.mu.RLock()
	clientID, exists := h.streams[rd.SessionID]
	h.mu.RUnlock()
	var client *realtime.SSEClient
	if exists {
		client = h.hub.Client(clientID, rd.UserID)
	}
	if client == nil {
		response.RespondError(c, http.StatusConflict, "conflict", errors.New("no active SSE connection for this session"))
		return nil, "", false
	}
	return client, channel, true
}
