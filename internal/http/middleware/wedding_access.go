package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/http/response"
	"github.com/yungbote/wedsite-backend/internal/services"
)

const (
	ParamWeddingID = "weddingID"
	memberKey      = "wedding_member"
)

// RequireWeddingMember rejects callers that are not members of the :weddingID in the path.
func RequireWeddingMember(weddings services.WeddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		weddingID, err := uuid.Parse(c.Param(ParamWeddingID))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("invalid wedding id"))
			return
		}
		m, err := weddings.RequireMember(c.Request.Context(), weddingID)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		c.Set(memberKey, m)
		c.Next()
	}
}

// Member returns the membership stored by RequireWeddingMember.
func Member(c *gin.Context) *types.WeddingMember {
	v, ok := c.Get(memberKey)
	if !ok {
		return nil
	}
	m, _ := v.(*types.WeddingMember)
	return m
}
