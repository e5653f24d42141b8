package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GET /weddings/:weddingID/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	d, err := h.dashboard.Get(c.Request.Context(), weddingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dashboard": d})
}

// GET /weddings/:weddingID/responses
func (h *DashboardHandler) ListResponses(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	rows, err := h.dashboard.ListResponses(c.Request.Context(), weddingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"responses": rows})
}
