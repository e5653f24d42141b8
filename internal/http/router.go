package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/wedsite-backend/internal/http/handlers"
	httpMW "github.com/yungbote/wedsite-backend/internal/http/middleware"
	"github.com/yungbote/wedsite-backend/internal/observability"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	// ExposeMetrics mounts /metrics on the API listener.
	ExposeMetrics bool

	AuthMiddleware *httpMW.AuthMiddleware
	WeddingService services.WeddingService

	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	WeddingHandler   *httpH.WeddingHandler
	EventHandler     *httpH.EventHandler
	HouseholdHandler *httpH.HouseholdHandler
	QuestionHandler  *httpH.QuestionHandler
	WebsiteHandler   *httpH.WebsiteHandler
	PublicHandler    *httpH.PublicHandler
	DashboardHandler *httpH.DashboardHandler
	RealtimeHandler  *httpH.RealtimeHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.AttachRequestContext())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.ExposeMetrics && cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Public wedding site
		if cfg.PublicHandler != nil {
			site := api.Group("/public/weddings/:slug")
			site.GET("", cfg.PublicHandler.GetWebsite)
			site.POST("/unlock", cfg.PublicHandler.Unlock)
			site.GET("/rsvp/lookup", cfg.PublicHandler.LookupParty)
			site.POST("/rsvp", cfg.PublicHandler.SubmitRSVP)
		}
	}

	protected := api.Group("")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
			protected.POST("/sse/subscribe", cfg.RealtimeHandler.SSESubscribe)
			protected.POST("/sse/unsubscribe", cfg.RealtimeHandler.SSEUnsubscribe)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PATCH("/me/name", cfg.UserHandler.ChangeName)
		}

		if cfg.WeddingHandler != nil {
			protected.GET("/weddings", cfg.WeddingHandler.ListMine)
			protected.POST("/weddings", cfg.WeddingHandler.Create)
		}
	}

	// Tenant scope: everything below requires membership of :weddingID.
	tenant := protected.Group("/weddings/:" + httpMW.ParamWeddingID)
	if cfg.WeddingService != nil {
		tenant.Use(httpMW.RequireWeddingMember(cfg.WeddingService))
	}
	{
		if cfg.WeddingHandler != nil {
			tenant.GET("", cfg.WeddingHandler.Get)
			tenant.PATCH("", cfg.WeddingHandler.Update)
			tenant.DELETE("", cfg.WeddingHandler.Delete)
			tenant.GET("/members", cfg.WeddingHandler.ListMembers)
			tenant.POST("/members", cfg.WeddingHandler.AddMember)
			tenant.DELETE("/members/:userID", cfg.WeddingHandler.RemoveMember)
		}

		if cfg.WebsiteHandler != nil {
			tenant.GET("/website", cfg.WebsiteHandler.GetSettings)
			tenant.PUT("/website", cfg.WebsiteHandler.UpdateSettings)
		}

		if cfg.DashboardHandler != nil {
			tenant.GET("/dashboard", cfg.DashboardHandler.Get)
			tenant.GET("/responses", cfg.DashboardHandler.ListResponses)
		}

		if cfg.EventHandler != nil {
			tenant.GET("/events", cfg.EventHandler.List)
			tenant.POST("/events", cfg.EventHandler.Create)
			tenant.PATCH("/events/:eventID", cfg.EventHandler.Update)
			tenant.DELETE("/events/:eventID", cfg.EventHandler.Delete)
		}

		if cfg.HouseholdHandler != nil {
			tenant.GET("/households", cfg.HouseholdHandler.List)
			tenant.POST("/households", cfg.HouseholdHandler.Create)
			tenant.GET("/households/:householdID", cfg.HouseholdHandler.Get)
			tenant.PUT("/households/:householdID", cfg.HouseholdHandler.Update)
			tenant.DELETE("/households/:householdID", cfg.HouseholdHandler.Delete)
		}

		if cfg.QuestionHandler != nil {
			tenant.GET("/questions", cfg.QuestionHandler.List)
			tenant.POST("/questions", cfg.QuestionHandler.Create)
			tenant.PUT("/questions/order", cfg.QuestionHandler.Reorder)
			tenant.PATCH("/questions/:questionID", cfg.QuestionHandler.Update)
			tenant.DELETE("/questions/:questionID", cfg.QuestionHandler.Delete)
		}
	}

	return r
}
