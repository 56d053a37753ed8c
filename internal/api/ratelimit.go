package api

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/shelfkeeper/shelfkeeper-server/internal/errors"
	"github.com/shelfkeeper/shelfkeeper-server/internal/ratelimit"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

// rateLimited returns an operation middleware that throttles callers by IP.
// RealIP runs first in the chi stack, so RemoteAddr already honours proxy headers.
func (s *Server) rateLimited(limiter *ratelimit.KeyedRateLimiter, perMinute float64) func(huma.Context, func(huma.Context)) {
	retryAfter := "60"
	if perMinute > 0 {
		retryAfter = strconv.Itoa(max(1, int(60/perMinute)))
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx.RemoteAddr())
		if limiter.Allow(key) {
			next(ctx)
			return
		}

		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", ctx.URL().Path,
		)
		ctx.SetHeader("Retry-After", retryAfter)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, domainerrors.ErrRateLimited.Message, domainerrors.ErrRateLimited)
	}
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
