package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/observability"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/realtime"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type Aggregates struct {
	Wedding   domainagg.WeddingAggregate
	Event     domainagg.EventAggregate
	Household domainagg.HouseholdAggregate
	RSVP      domainagg.RSVPAggregate
}

type Services struct {
	Auth      services.AuthService
	User      services.UserService
	Wedding   services.WeddingService
	Event     services.EventService
	Household services.HouseholdService
	Question  services.QuestionService
	Website   services.WebsiteService
	RSVP      services.RSVPService
	Dashboard services.DashboardService
	Emitter   services.SSEEmitter
}

func wireAggregates(db *gorm.DB, log *logger.Logger, r Repos, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewMetricsHooks(metrics),
	}
	return Aggregates{
		Wedding: aggregates.NewWeddingAggregate(aggregates.WeddingAggregateDeps{
			Base:        base,
			Weddings:    r.Wedding,
			Members:     r.WeddingMember,
			Settings:    r.WebsiteSettings,
			Events:      r.Event,
			Households:  r.Household,
			Guests:      r.Guest,
			Invitations: r.Invitation,
			Gifts:       r.Gift,
			Questions:   r.Question,
			Answers:     r.Answer,
		}),
		Event: aggregates.NewEventAggregate(aggregates.EventAggregateDeps{
			Base:        base,
			Events:      r.Event,
			Guests:      r.Guest,
			Invitations: r.Invitation,
			Questions:   r.Question,
			Answers:     r.Answer,
		}),
		Household: aggregates.NewHouseholdAggregate(aggregates.HouseholdAggregateDeps{
			Base:        base,
			Households:  r.Household,
			Guests:      r.Guest,
			Invitations: r.Invitation,
			Gifts:       r.Gift,
			Answers:     r.Answer,
			Events:      r.Event,
		}),
		RSVP: aggregates.NewRSVPAggregate(aggregates.RSVPAggregateDeps{
			Base:        base,
			Households:  r.Household,
			Guests:      r.Guest,
			Invitations: r.Invitation,
			Questions:   r.Question,
			Answers:     r.Answer,
		}),
	}
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg services.AuthConfig,
	r Repos,
	aggs Aggregates,
	clients Clients,
	hub *realtime.SSEHub,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")
	emitter := services.NewSSEEmitter(log, hub, clients.SSEBus)

	website := services.NewWebsiteService(db, log, r.Wedding, r.WebsiteSettings, r.Event, clients.WebsiteCache, emitter, cfg)
	var rsvpObserver services.RSVPObserver
	if metrics != nil {
		rsvpObserver = metrics
	}
	return Services{
		Auth:    services.NewAuthService(db, log, r.User, r.UserToken, cfg),
		User:    services.NewUserService(db, log, r.User),
		Wedding: services.NewWeddingService(db, log, r.Wedding, r.WeddingMember, r.User, aggs.Wedding, clients.WebsiteCache, emitter),
		Event:   services.NewEventService(db, log, r.Event, r.Wedding, aggs.Event, clients.WebsiteCache),
		Household: services.NewHouseholdService(
			db, log, r.Household, r.Guest, r.Invitation, r.Gift, r.Answer, aggs.Household, emitter,
		),
		Question: services.NewQuestionService(db, log, r.Question, r.Answer, r.Event),
		Website:  website,
		RSVP: services.NewRSVPService(
			db, log, website, r.Household, r.Guest, r.Invitation, r.Event, r.Question, r.Answer,
			aggs.RSVP, emitter, rsvpObserver,
		),
		Dashboard: services.NewDashboardService(log, r.Household, r.Guest, r.Event, r.Invitation, r.Gift, r.Answer),
		Emitter:   emitter,
	}
}
