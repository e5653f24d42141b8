package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/yungbote/wedsite-backend/internal/clients/redis"
	"github.com/yungbote/wedsite-backend/internal/observability"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/realtime/bus"
	"github.com/yungbote/wedsite-backend/internal/services"
)

// Clients holds the optional redis-backed pieces. All fields are nil without REDIS_ADDR.
type Clients struct {
	Redis        *goredis.Client
	WebsiteCache services.WebsiteCache
	SSEBus       bus.Bus
}

func wireClients(log *logger.Logger, cfg redisclient.Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	if !cfg.Enabled() {
		log.Info("REDIS_ADDR not set; website cache and cross-instance SSE disabled")
		return Clients{}, nil
	}
	rdb, err := redisclient.NewClient(log, cfg)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	b, err := bus.NewRedisBus(log, rdb, cfg.Channel)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
	}
	return Clients{
		Redis:        rdb,
		WebsiteCache: redisclient.NewWebsiteCache(log, rdb, cfg.CacheTTL, metrics),
		SSEBus:       b,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
