package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit is a per-client token bucket limiter keyed by client IP. Each
// route class (onboarding, issuance, verification) gets its own instance so
// limits stay independent, mirroring the tiered limiter setup of the API.
type RateLimit struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type clientLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewRateLimit creates a limiter allowing `requests` per `window` with the
// same value as burst capacity.
func NewRateLimit(requests int, window time.Duration) *RateLimit {
	return &RateLimit{
		clients:  make(map[string]*clientLimiter),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		lastSeen: 10 * time.Minute,
	}
}

// Handler enforces the rate limit, responding 429 when the bucket is empty.
func (rl *RateLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := GetClientMetadata(r.Context()).IP
		if !rl.allow(key) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limited","error_description":"too many requests, slow down"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimit) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.seen = now

	// Opportunistic cleanup of idle buckets to bound memory.
	if len(rl.clients) > 1024 {
		for k, v := range rl.clients {
			if now.Sub(v.seen) > rl.lastSeen {
				delete(rl.clients, k)
			}
		}
	}

	return cl.limiter.Allow()
}
