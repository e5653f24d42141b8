package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	httpserver "github.com/yungbote/wedsite-backend/internal/http"
	httpH "github.com/yungbote/wedsite-backend/internal/http/handlers"
	httpMW "github.com/yungbote/wedsite-backend/internal/http/middleware"
	"github.com/yungbote/wedsite-backend/internal/observability"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Wedding   *httpH.WeddingHandler
	Event     *httpH.EventHandler
	Household *httpH.HouseholdHandler
	Question  *httpH.QuestionHandler
	Website   *httpH.WebsiteHandler
	Public    *httpH.PublicHandler
	Dashboard *httpH.DashboardHandler
	Realtime  *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(db),
		Auth:      httpH.NewAuthHandler(services.Auth),
		User:      httpH.NewUserHandler(services.User),
		Wedding:   httpH.NewWeddingHandler(services.Wedding),
		Event:     httpH.NewEventHandler(services.Event),
		Household: httpH.NewHouseholdHandler(services.Household),
		Question:  httpH.NewQuestionHandler(services.Question),
		Website:   httpH.NewWebsiteHandler(services.Website),
		Public:    httpH.NewPublicHandler(services.Website, services.RSVP),
		Dashboard: httpH.NewDashboardHandler(services.Dashboard),
		Realtime:  httpH.NewRealtimeHandler(log, hub, services.Wedding),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func routerConfig(cfg Config, log *logger.Logger, metrics *observability.Metrics, services Services, handlers Handlers, middleware Middleware) httpserver.RouterConfig {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.RouterConfig{
		Log:           log,
		Metrics:       metrics,
		ServiceName:   serviceName,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		ExposeMetrics: cfg.MetricsEnabled && cfg.MetricsAddr == "",

		AuthMiddleware: middleware.Auth,
		WeddingService: services.Wedding,

		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		UserHandler:      handlers.User,
		WeddingHandler:   handlers.Wedding,
		EventHandler:     handlers.Event,
		HouseholdHandler: handlers.Household,
		QuestionHandler:  handlers.Question,
		WebsiteHandler:   handlers.Website,
		PublicHandler:    handlers.Public,
		DashboardHandler: handlers.Dashboard,
		RealtimeHandler:  handlers.Realtime,
	}
}

func wireRouter(rc httpserver.RouterConfig) *gin.Engine {
	return httpserver.NewRouter(rc)
}
