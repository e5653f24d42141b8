package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

// PublicHandler serves the guest-facing site. Site tokens arrive via the request context middleware.
type PublicHandler struct {
	website services.WebsiteService
	rsvp    services.RSVPService
}

func NewPublicHandler(website services.WebsiteService, rsvp services.RSVPService) *PublicHandler {
	return &PublicHandler{website: website, rsvp: rsvp}
}

// GET /public/weddings/:slug
func (h *PublicHandler) GetWebsite(c *gin.Context) {
	site, err := h.website.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"website": site})
}

// POST /public/weddings/:slug/unlock
// body: { "password": "..." }
func (h *PublicHandler) Unlock(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	tok, err := h.website.Unlock(c.Request.Context(), c.Param("slug"), req.Password)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, tok)
}

// GET /public/weddings/:slug/rsvp/lookup?first_name=...&last_name=...
func (h *PublicHandler) LookupParty(c *gin.Context) {
	party, err := h.rsvp.Lookup(c.Request.Context(), c.Param("slug"), c.Query("first_name"), c.Query("last_name"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"party": party})
}

type rsvpResponseRequest struct {
	GuestID uuid.UUID `json:"guest_id" binding:"required"`
	EventID uuid.UUID `json:"event_id" binding:"required"`
	Status  string    `json:"status" binding:"required"`
}

// rsvpAnswerRequest takes "value" for text and single choice, "values" for multi choice.
type rsvpAnswerRequest struct {
	QuestionID uuid.UUID  `json:"question_id" binding:"required"`
	GuestID    *uuid.UUID `json:"guest_id"`
	Value      *string    `json:"value"`
	Values     []string   `json:"values"`
}

// POST /public/weddings/:slug/rsvp
func (h *PublicHandler) SubmitRSVP(c *gin.Context) {
	var req struct {
		HouseholdID uuid.UUID             `json:"household_id" binding:"required"`
		Responses   []rsvpResponseRequest `json:"responses" binding:"dive"`
		Answers     []rsvpAnswerRequest   `json:"answers" binding:"dive"`
	}
	if !bindJSON(c, &req) {
		return
	}
	in := services.SubmitRSVPRequest{HouseholdID: req.HouseholdID}
	for _, r := range req.Responses {
		in.Responses = append(in.Responses, domainagg.RSVPResponseInput{
			GuestID: r.GuestID,
			EventID: r.EventID,
			Status:  r.Status,
		})
	}
	for _, a := range req.Answers {
		values := a.Values
		if a.Value != nil {
			values = append([]string{*a.Value}, values...)
		}
		in.Answers = append(in.Answers, domainagg.RSVPAnswerInput{
			QuestionID: a.QuestionID,
			GuestID:    a.GuestID,
			Values:     values,
		})
	}
	res, err := h.rsvp.Submit(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rsvp": res})
}
