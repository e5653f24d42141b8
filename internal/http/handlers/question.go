package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type QuestionHandler struct {
	questions services.QuestionService
}

func NewQuestionHandler(questions services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

func (h *QuestionHandler) List(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	qs, err := h.questions.List(c.Request.Context(), weddingID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": qs})
}

func (h *QuestionHandler) Create(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	var req struct {
		EventID  *uuid.UUID `json:"event_id"`
		Kind     string     `json:"kind" binding:"required"`
		Prompt   string     `json:"prompt" binding:"required"`
		Options  []string   `json:"options"`
		Required bool       `json:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.questions.Create(c.Request.Context(), weddingID, services.QuestionInput{
		EventID:  req.EventID,
		Kind:     req.Kind,
		Prompt:   req.Prompt,
		Options:  req.Options,
		Required: req.Required,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"question": q})
}

func (h *QuestionHandler) Update(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "questionID")
	if !ok {
		return
	}
	var req struct {
		EventID    *uuid.UUID `json:"event_id"`
		ClearEvent bool       `json:"clear_event"`
		Kind       *string    `json:"kind"`
		Prompt     *string    `json:"prompt"`
		Options    *[]string  `json:"options"`
		Required   *bool      `json:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	q, err := h.questions.Update(c.Request.Context(), weddingID, questionID, services.QuestionPatch{
		EventID:    req.EventID,
		ClearEvent: req.ClearEvent,
		Kind:       req.Kind,
		Prompt:     req.Prompt,
		Options:    req.Options,
		Required:   req.Required,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": q})
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "questionID")
	if !ok {
		return
	}
	if err := h.questions.Delete(c.Request.Context(), weddingID, questionID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /weddings/:weddingID/questions/order
// body: { "question_ids": ["...", ...] }
func (h *QuestionHandler) Reorder(c *gin.Context) {
	weddingID, ok := weddingParam(c)
	if !ok {
		return
	}
	var req struct {
		QuestionIDs []uuid.UUID `json:"question_ids" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	qs, err := h.questions.Reorder(c.Request.Context(), weddingID, req.QuestionIDs)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": qs})
}
