package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/wedsite-backend/internal/domain/wedding"
	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type WebsiteHandler struct {
	website services.WebsiteService
}

func NewWebsiteHandler(website services.WebsiteService) *WebsiteHandler {
	return &WebsiteHandler{website: website}
}

// GET /weddings/:weddingID/website
func (h *WebsiteHandler) GetSettings(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	view, err := h.website.GetSettings(c.Request.Context(), weddingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"website": view})
}

// PUT /weddings/:weddingID/website
// Omitted fields are left alone; "password" sets the site password, "clear_password" removes it.
func (h *WebsiteHandler) UpdateSettings(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	var req struct {
		Published     *bool                     `json:"published"`
		Headline      *string                   `json:"headline"`
		Story         *string                   `json:"story"`
		Theme         *string                   `json:"theme"`
		Sections      *[]wedding.WebsiteSection `json:"sections"`
		Password      *string                   `json:"password"`
		ClearPassword bool                      `json:"clear_password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.website.UpdateSettings(c.Request.Context(), weddingID, services.WebsitePatch{
		Published:     req.Published,
		Headline:      req.Headline,
		Story:         req.Story,
		Theme:         req.Theme,
		Sections:      req.Sections,
		Password:      req.Password,
		ClearPassword: req.ClearPassword,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"website": view})
}
