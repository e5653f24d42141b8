package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wedsite-backend/internal/pkg/ctxutil"
)

// HeaderSiteToken carries the token issued when a guest unlocks a password protected website.
const HeaderSiteToken = "X-Site-Token"

func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(HeaderSiteToken))
		if token == "" {
			token = strings.TrimSpace(c.Query("site_token"))
		}
		if token != "" {
			c.Request = c.Request.WithContext(ctxutil.WithSiteToken(c.Request.Context(), token))
		}
		c.Next()
	}
}
