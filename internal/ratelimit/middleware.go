// Package ratelimit throttles abusable endpoints, mainly discount code
// application, using a Redis-backed limiter shared across instances.
package ratelimit

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/b8shield/commerce-api/internal/common"
)

// New builds a rate limiting middleware from a formatted rate such as
// "30-M" (30 requests per minute), keyed by client IP.
func New(client *redis.Client, formatted string) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", formatted, err)
	}
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit store: %w", err)
	}
	instance := limiter.New(store, rate)
	middleware := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, _ *http.Request) {
			common.JSONError(w, http.StatusTooManyRequests, common.CodeRateLimited, "too many requests, slow down", nil)
		}))
	return middleware.Handler, nil
}
