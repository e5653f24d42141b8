package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/aggregates"
	"github.com/yungbote/wedsite-backend/internal/data/repos"
	"github.com/yungbote/wedsite-backend/internal/data/repos/testutil"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
	"github.com/yungbote/wedsite-backend/internal/realtime"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, slug string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[slug]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, slug string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug] = payload
	return nil
}

func (c *memoryCache) Delete(_ context.Context, slugs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range slugs {
		delete(c.entries, s)
		c.deletes = append(c.deletes, s)
	}
	return nil
}

func (c *memoryCache) has(slug string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[slug]
	return ok
}

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events() []realtime.SSEEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEEvent, 0, len(e.msgs))
	for _, m := range e.msgs {
		out = append(out, m.Event)
	}
	return out
}

type rsvpCounter struct {
	attending, declined int
}

func (r *rsvpCounter) ObserveRSVPSubmitted(attending, declined int) {
	r.attending += attending
	r.declined += declined
}

type env struct {
	ctx     context.Context
	db      *gorm.DB
	cache   *memoryCache
	emitter *recordingEmitter
	rsvpObs *rsvpCounter
	cfg     AuthConfig

	users       repos.UserRepo
	tokens      repos.UserTokenRepo
	weddings    repos.WeddingRepo
	members     repos.WeddingMemberRepo
	settings    repos.WebsiteSettingsRepo
	events      repos.EventRepo
	households  repos.HouseholdRepo
	guests      repos.GuestRepo
	invitations repos.InvitationRepo
	gifts       repos.GiftRepo
	questions   repos.QuestionRepo
	answers     repos.AnswerRepo

	auth      AuthService
	user      UserService
	wedding   WeddingService
	event     EventService
	household HouseholdService
	question  QuestionService
	website   WebsiteService
	rsvp      RSVPService
	dashboard DashboardService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	e := &env{
		ctx:     context.Background(),
		db:      db,
		cache:   newMemoryCache(),
		emitter: &recordingEmitter{},
		rsvpObs: &rsvpCounter{},
		cfg: AuthConfig{
			JWTSecretKey: "test-secret-key",
			AccessTTL:    time.Hour,
			RefreshTTL:   24 * time.Hour,
			SiteTokenTTL: time.Hour,
		},
		users:       repos.NewUserRepo(db, log),
		tokens:      repos.NewUserTokenRepo(db, log),
		weddings:    repos.NewWeddingRepo(db, log),
		members:     repos.NewWeddingMemberRepo(db, log),
		settings:    repos.NewWebsiteSettingsRepo(db, log),
		events:      repos.NewEventRepo(db, log),
		households:  repos.NewHouseholdRepo(db, log),
		guests:      repos.NewGuestRepo(db, log),
		invitations: repos.NewInvitationRepo(db, log),
		gifts:       repos.NewGiftRepo(db, log),
		questions:   repos.NewQuestionRepo(db, log),
		answers:     repos.NewAnswerRepo(db, log),
	}
	base := aggregates.BaseDeps{DB: db, Log: log}
	weddingAgg := aggregates.NewWeddingAggregate(aggregates.WeddingAggregateDeps{
		Base:        base,
		Weddings:    e.weddings,
		Members:     e.members,
		Settings:    e.settings,
		Events:      e.events,
		Households:  e.households,
		Guests:      e.guests,
		Invitations: e.invitations,
		Gifts:       e.gifts,
		Questions:   e.questions,
		Answers:     e.answers,
	})
	eventAgg := aggregates.NewEventAggregate(aggregates.EventAggregateDeps{
		Base:        base,
		Events:      e.events,
		Guests:      e.guests,
		Invitations: e.invitations,
		Questions:   e.questions,
		Answers:     e.answers,
	})
	householdAgg := aggregates.NewHouseholdAggregate(aggregates.HouseholdAggregateDeps{
		Base:        base,
		Households:  e.households,
		Guests:      e.guests,
		Invitations: e.invitations,
		Gifts:       e.gifts,
		Answers:     e.answers,
		Events:      e.events,
	})
	rsvpAgg := aggregates.NewRSVPAggregate(aggregates.RSVPAggregateDeps{
		Base:        base,
		Households:  e.households,
		Guests:      e.guests,
		Invitations: e.invitations,
		Questions:   e.questions,
		Answers:     e.answers,
	})

	e.auth = NewAuthService(db, log, e.users, e.tokens, e.cfg)
	e.user = NewUserService(db, log, e.users)
	e.wedding = NewWeddingService(db, log, e.weddings, e.members, e.users, weddingAgg, e.cache, e.emitter)
	e.event = NewEventService(db, log, e.events, e.weddings, eventAgg, e.cache)
	e.household = NewHouseholdService(db, log, e.households, e.guests, e.invitations, e.gifts, e.answers, householdAgg, e.emitter)
	e.question = NewQuestionService(db, log, e.questions, e.answers, e.events)
	e.website = NewWebsiteService(db, log, e.weddings, e.settings, e.events, e.cache, e.emitter, e.cfg)
	e.rsvp = NewRSVPService(db, log, e.website, e.households, e.guests, e.invitations, e.events, e.questions, e.answers, rsvpAgg, e.emitter, e.rsvpObs)
	e.dashboard = NewDashboardService(log, e.households, e.guests, e.events, e.invitations, e.gifts, e.answers)
	return e
}

// as returns a context authenticated as u.
func (e *env) as(u *types.User) context.Context {
	return ctxutil.WithRequestData(e.ctx, &ctxutil.RequestData{UserID: u.ID})
}

func (e *env) seedUser(t *testing.T) *types.User {
	t.Helper()
	return testutil.SeedUser(t, e.ctx, e.db, testutil.Unique("user-")+"@example.com")
}

// newWedding creates a wedding through the service, owned by a fresh user.
func (e *env) newWedding(t *testing.T) (*types.User, *types.Wedding, context.Context) {
	t.Helper()
	owner := e.seedUser(t)
	ctx := e.as(owner)
	w, err := e.wedding.Create(ctx, CreateWeddingInput{
		PartnerOne: testutil.Unique("Alex"),
		PartnerTwo: "Sam",
		Location:   "Lisbon",
	})
	require.NoError(t, err)
	return owner, w, ctx
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}
