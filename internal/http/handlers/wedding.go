package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httpMW "github.com/yungbote/wedsite-backend/internal/http/middleware"
	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type WeddingHandler struct {
	weddings services.WeddingService
}

func NewWeddingHandler(weddings services.WeddingService) *WeddingHandler {
	return &WeddingHandler{weddings: weddings}
}

// POST /weddings
func (h *WeddingHandler) Create(c *gin.Context) {
	var req struct {
		PartnerOne string     `json:"partner_one" binding:"required"`
		PartnerTwo string     `json:"partner_two" binding:"required"`
		Date       *time.Time `json:"date"`
		Location   string     `json:"location"`
		TimeZone   string     `json:"time_zone"`
		Slug       string     `json:"slug"`
	}
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.weddings.Create(c.Request.Context(), services.CreateWeddingInput{
		PartnerOne: req.PartnerOne,
		PartnerTwo: req.PartnerTwo,
		Date:       req.Date,
		Location:   req.Location,
		TimeZone:   req.TimeZone,
		Slug:       req.Slug,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"wedding": w})
}

// GET /weddings
func (h *WeddingHandler) ListMine(c *gin.Context) {
	ws, err := h.weddings.ListMine(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"weddings": ws})
}

// GET /weddings/:weddingID
func (h *WeddingHandler) Get(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	w, err := h.weddings.Get(c.Request.Context(), weddingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	body := gin.H{"wedding": w}
	if m := httpMW.Member(c); m != nil {
		body["role"] = m.Role
	}
	response.RespondOK(c, body)
}

// PATCH /weddings/:weddingID
func (h *WeddingHandler) Update(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	var req struct {
		PartnerOne *string    `json:"partner_one"`
		PartnerTwo *string    `json:"partner_two"`
		Date       *time.Time `json:"date"`
		ClearDate  bool       `json:"clear_date"`
		Location   *string    `json:"location"`
		TimeZone   *string    `json:"time_zone"`
		Slug       *string    `json:"slug"`
	}
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.weddings.Update(c.Request.Context(), weddingID, services.UpdateWeddingInput{
		PartnerOne: req.PartnerOne,
		PartnerTwo: req.PartnerTwo,
		Date:       req.Date,
		ClearDate:  req.ClearDate,
		Location:   req.Location,
		TimeZone:   req.TimeZone,
		Slug:       req.Slug,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"wedding": w})
}

// DELETE /weddings/:weddingID
func (h *WeddingHandler) Delete(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	if err := h.weddings.Delete(c.Request.Context(), weddingID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /weddings/:weddingID/members
func (h *WeddingHandler) ListMembers(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	members, err := h.weddings.ListMembers(c.Request.Context(), weddingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"members": members})
}

// POST /weddings/:weddingID/members
// body: { "email": "...", "role": "owner" | "collaborator" }
func (h *WeddingHandler) AddMember(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email" binding:"required"`
		Role  string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.weddings.AddMember(c.Request.Context(), weddingID, req.Email, req.Role)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"member": m})
}

// DELETE /weddings/:weddingID/members/:userID
func (h *WeddingHandler) RemoveMember(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "userID")
	if !ok {
		return
	}
	if err := h.weddings.RemoveMember(c.Request.Context(), weddingID, userID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
