package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware limits requests per client IP using a formatted rate
// such as "30-M" (30 per minute) or "5-S".
func RateLimitMiddleware(formatted string, log logger.Logger) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			log.Warn("Rate limit reached", map[string]interface{}{
				"request_id":  requestID,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":      "Too many requests",
				"status":     http.StatusTooManyRequests,
				"request_id": requestID,
			})
		}),
	)

	return mw.Handler, nil
}
