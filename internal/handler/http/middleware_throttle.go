package http

import (
	"net/http"
	"strconv"

	"github.com/abelyaev/accountd/internal/logger"
)

// withThrottle rate-limits registration and login attempts per client
// address. Refused requests answer 429 with a Retry-After header naming the
// earliest moment another attempt can succeed.
func (h *Handler) withThrottle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		addr := clientAddr(r)

		result := h.limiter.Allow(r.Context(), addr)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			log.Warn().Str("addr", addr).Int("retry_after", retryAfter).Msg("signup throttle refused request")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "too many attempts, slow down", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
