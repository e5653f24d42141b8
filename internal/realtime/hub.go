package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
)

const outboundBuffer = 16

// ClientGauge is told about connects and disconnects. *observability.Metrics satisfies it.
type ClientGauge interface {
	SSEClientConnected()
	SSEClientDisconnected()
}

type SSEHub struct {
	mu            sync.RWMutex
	logger        *logger.Logger
	gauge         ClientGauge
	heartbeat     time.Duration
	clients       map[uuid.UUID]*SSEClient
	subscriptions map[string]map[*SSEClient]bool
}

func NewSSEHub(log *logger.Logger, gauge ClientGauge) *SSEHub {
	return &SSEHub{
		logger:        log.With("component", "SSEHub"),
		gauge:         gauge,
		heartbeat:     15 * time.Second,
		clients:       make(map[uuid.UUID]*SSEClient),
		subscriptions: make(map[string]map[*SSEClient]bool),
	}
}

func (hub *SSEHub) NewSSEClient(userID uuid.UUID) *SSEClient {
	c := &SSEClient{
		ID:       uuid.New(),
		UserID:   userID,
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, outboundBuffer),
		done:     make(chan struct{}),
	}
	c.Logger = hub.logger.With("client_id", c.ID)

	hub.mu.Lock()
	hub.clients[c.ID] = c
	hub.mu.Unlock()
	if hub.gauge != nil {
		hub.gauge.SSEClientConnected()
	}
	return c
}

// Client returns the connected client with id if it belongs to userID.
func (hub *SSEHub) Client(id, userID uuid.UUID) *SSEClient {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	c := hub.clients[id]
	if c == nil || c.UserID != userID {
		return nil
	}
	return c
}

// ErrClientClosed is returned when subscribing a client whose stream already ended.
var ErrClientClosed = errors.New("sse client closed")

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) error {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return nil
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	// CloseClient already ran; its outbound channel is closed.
	if hub.clients[client.ID] != client {
		return ErrClientClosed
	}
	client.Channels[channel] = true
	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*SSEClient]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true
	hub.logger.Debug("SSE client subscribed", "client_id", client.ID, "channel", channel)
	return nil
}

func (hub *SSEHub) RemoveChannel(client *SSEClient, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	delete(client.Channels, channel)
	hub.unsubscribeLocked(client, channel)
	hub.logger.Debug("SSE client unsubscribed", "client_id", client.ID, "channel", channel)
}

func (hub *SSEHub) unsubscribeLocked(client *SSEClient, channel string) {
	if subMap, ok := hub.subscriptions[channel]; ok {
		delete(subMap, client)
		if len(subMap) == 0 {
			delete(hub.subscriptions, channel)
		}
	}
}

// Subscribers reports how many local clients listen on channel.
func (hub *SSEHub) Subscribers(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[channel])
}

func (hub *SSEHub) Broadcast(msg SSEMessage) {
	if msg.Channel == "" {
		return
	}
	if msg.RevokeUserID != "" {
		hub.revoke(msg)
		return
	}
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for c := range hub.subscriptions[msg.Channel] {
		hub.deliverLocked(c, msg)
	}
}

// revoke delivers msg to the revoked user's clients on the channel, then unsubscribes them.
func (hub *SSEHub) revoke(msg SSEMessage) {
	userID, err := uuid.Parse(msg.RevokeUserID)
	if err != nil {
		hub.logger.Warn("Ignoring SSE revoke with bad user id", "channel", msg.Channel)
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for c := range hub.subscriptions[msg.Channel] {
		if c.UserID != userID {
			continue
		}
		hub.deliverLocked(c, msg)
		delete(c.Channels, msg.Channel)
		hub.unsubscribeLocked(c, msg.Channel)
		hub.logger.Debug("SSE subscription revoked", "client_id", c.ID, "channel", msg.Channel)
	}
}

func (hub *SSEHub) deliverLocked(c *SSEClient, msg SSEMessage) {
	select {
	case c.Outbound <- msg:
	default:
		hub.logger.Warn("Dropping SSE message; outbound buffer full", "client_id", c.ID)
	}
}

// ServeHTTP streams client messages until the request ends or the client is closed.
func (hub *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *SSEClient) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	hello, _ := json.Marshal(map[string]any{"client_id": client.ID})
	_, _ = fmt.Fprintf(w, "event: connected\ndata: %s\n\n", hello)
	flusher.Flush()

	heartbeat := time.NewTicker(hub.heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(msg)
			if err != nil {
				hub.logger.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: message\ndata: %s\n\n", raw)
			flusher.Flush()
		}
	}
}

// CloseClient unsubscribes the client everywhere and closes its outbound channel.
// Calling it twice is a no-op.
func (hub *SSEHub) CloseClient(client *SSEClient) {
	hub.mu.Lock()
	if _, ok := hub.clients[client.ID]; !ok {
		hub.mu.Unlock()
		return
	}
	delete(hub.clients, client.ID)
	for ch := range client.Channels {
		hub.unsubscribeLocked(client, ch)
	}
	client.Channels = make(map[string]bool)
	close(client.done)
	close(client.Outbound)
	hub.mu.Unlock()

	if hub.gauge != nil {
		hub.gauge.SSEClientDisconnected()
	}
}
