package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/csvplot/internal/core"
	"github.com/JonMunkholm/csvplot/internal/web/middleware"
)

// WithRequestMetadata stores the client IP and User-Agent in ctx so they are
// saved with new uploads. RemoteAddr has already been rewritten by
// middleware.TrustedRealIP.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, middleware.ClientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}
