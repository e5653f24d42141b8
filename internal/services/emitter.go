package services

import (
	"context"

	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/realtime"
	"github.com/yungbote/wedsite-backend/internal/realtime/bus"
)

// SSEEmitter pushes dashboard notifications. With a bus configured messages go through it
// so every instance's hub receives them; otherwise they go straight to the local hub.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type sseEmitter struct {
	log *logger.Logger
	hub *realtime.SSEHub
	bus bus.Bus
}

func NewSSEEmitter(log *logger.Logger, hub *realtime.SSEHub, b bus.Bus) SSEEmitter {
	return &sseEmitter{log: log.With("service", "SSEEmitter"), hub: hub, bus: b}
}

func (e *sseEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if e == nil || msg.Channel == "" {
		return
	}
	if e.bus != nil {
		if err := e.bus.Publish(ctx, msg); err != nil {
			e.log.Warn("sse publish failed, delivering locally", "channel", msg.Channel, "event", msg.Event, "error", err)
		} else {
			return
		}
	}
	if e.hub != nil {
		e.hub.Broadcast(msg)
	}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, realtime.SSEMessage) {}

// WebsiteCache stores rendered public website payloads keyed by slug.
type WebsiteCache interface {
	Get(ctx context.Context, slug string) ([]byte, bool, error)
	Set(ctx context.Context, slug string, payload []byte) error
	Delete(ctx context.Context, slugs ...string) error
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, []byte) error         { return nil }
func (noopCache) Delete(context.Context, ...string) error           { return nil }
