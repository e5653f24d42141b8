package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type guestRequest struct {
	ID              *uuid.UUID  `json:"id"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	IsChild         bool        `json:"is_child"`
	InvitedEventIDs []uuid.UUID `json:"invited_event_ids"`
}

type giftRequest struct {
	Description  string     `json:"description"`
	ReceivedAt   *time.Time `json:"received_at"`
	ThankYouSent bool       `json:"thank_you_sent"`
}

type householdRequest struct {
	Name            string         `json:"name"`
	AddressLine1    string         `json:"address_line1"`
	AddressLine2    string         `json:"address_line2"`
	City            string         `json:"city"`
	State           string         `json:"state"`
	PostalCode      string         `json:"postal_code"`
	Country         string         `json:"country"`
	Notes           string         `json:"notes"`
	Guests          []guestRequest `json:"guests"`
	Gift            *giftRequest   `json:"gift"`
	ExpectedVersion *int           `json:"expected_version"`
	RemoveGift      bool           `json:"remove_gift"`
}

func (r householdRequest) fields() domainagg.HouseholdFields {
	return domainagg.HouseholdFields{
		Name:         r.Name,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		Notes:        r.Notes,
	}
}

func (r householdRequest) guests() []domainagg.GuestInput {
	out := make([]domainagg.GuestInput, 0, len(r.Guests))
	for _, g := range r.Guests {
		out = append(out, domainagg.GuestInput{
			ID:              g.ID,
			FirstName:       g.FirstName,
			LastName:        g.LastName,
			Email:           g.Email,
			Phone:           g.Phone,
			IsChild:         g.IsChild,
			InvitedEventIDs: g.InvitedEventIDs,
		})
	}
	return out
}

func (r householdRequest) gift() *domainagg.GiftInput {
	if r.Gift == nil {
		return nil
	}
	return &domainagg.GiftInput{
		Description:  r.Gift.Description,
		ReceivedAt:   r.Gift.ReceivedAt,
		ThankYouSent: r.Gift.ThankYouSent,
	}
}

type HouseholdHandler struct {
	households services.HouseholdService
}

func NewHouseholdHandler(households services.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{households: households}
}

// GET /weddings/:weddingID/households?search=...
func (h *HouseholdHandler) List(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	rows, err := h.households.List(c.Request.Context(), weddingID, c.Query("search"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"households": rows})
}

func (h *HouseholdHandler) Create(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	var req householdRequest
	if !bindJSON(c, &req) {
		return
	}
	detail, err := h.households.Create(c.Request.Context(), domainagg.CreateHouseholdInput{
		WeddingID: weddingID,
		Household: req.fields(),
		Guests:    req.guests(),
		Gift:      req.gift(),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"household": detail})
}

func (h *HouseholdHandler) Get(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "householdID")
	if !ok {
		return
	}
	detail, err := h.households.Get(c.Request.Context(), weddingID, householdID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"household": detail})
}

// PUT /weddings/:weddingID/households/:householdID
// The body is the full desired state; guests missing from it are removed.
func (h *HouseholdHandler) Update(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "householdID")
	if !ok {
		return
	}
	var req householdRequest
	if !bindJSON(c, &req) {
		return
	}
	detail, err := h.households.Update(c.Request.Context(), domainagg.UpdateHouseholdInput{
		WeddingID:       weddingID,
		HouseholdID:     householdID,
		ExpectedVersion: req.ExpectedVersion,
		Household:       req.fields(),
		Guests:          req.guests(),
		Gift:            req.gift(),
		RemoveGift:      req.RemoveGift,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"household": detail})
}

func (h *HouseholdHandler) Delete(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	householdID, ok := uuidParam(c, "householdID")
	if !ok {
		return
	}
	if err := h.households.Delete(c.Request.Context(), weddingID, householdID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
