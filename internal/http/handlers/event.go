package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/wedsite-backend/internal/domain/aggregates"
	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type EventHandler struct {
	events services.EventService
}

func NewEventHandler(events services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) List(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	evs, err := h.events.List(c.Request.Context(), weddingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": evs})
}

func (h *EventHandler) Create(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	var req struct {
		Name        string     `json:"name" binding:"required"`
		StartsAt    *time.Time `json:"starts_at"`
		EndsAt      *time.Time `json:"ends_at"`
		Venue       string     `json:"venue"`
		Address     string     `json:"address"`
		Attire      string     `json:"attire"`
		Description string     `json:"description"`
		CollectRSVP *bool      `json:"collect_rsvp"`
		Position    int        `json:"position"`
	}
	if !bindJSON(c, &req) {
		return
	}
	collect := true
	if req.CollectRSVP != nil {
		collect = *req.CollectRSVP
	}
	ev, err := h.events.Create(c.Request.Context(), weddingID, domainagg.EventFields{
		Name:        req.Name,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Venue:       req.Venue,
		Address:     req.Address,
		Attire:      req.Attire,
		Description: req.Description,
		CollectRSVP: collect,
		Position:    req.Position,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"event": ev})
}

func (h *EventHandler) Update(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "eventID")
	if !ok {
		return
	}
	var req struct {
		Name        *string    `json:"name"`
		StartsAt    *time.Time `json:"starts_at"`
		EndsAt      *time.Time `json:"ends_at"`
		Venue       *string    `json:"venue"`
		Address     *string    `json:"address"`
		Attire      *string    `json:"attire"`
		Description *string    `json:"description"`
		CollectRSVP *bool      `json:"collect_rsvp"`
		Position    *int       `json:"position"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.events.Update(c.Request.Context(), weddingID, eventID, services.EventPatch{
		Name:        req.Name,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Venue:       req.Venue,
		Address:     req.Address,
		Attire:      req.Attire,
		Description: req.Description,
		CollectRSVP: req.CollectRSVP,
		Position:    req.Position,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

func (h *EventHandler) Delete(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "eventID")
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), weddingID, eventID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
