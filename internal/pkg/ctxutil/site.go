package ctxutil

import "context"

type siteTokenKey struct{}

// WithSiteToken carries the public website unlock token presented by a guest.
func WithSiteToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, siteTokenKey{}, token)
}

func SiteToken(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(siteTokenKey{}).(string)
	return s
}
