package middleware

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"umkm-store-be/internal/metrics"
	"umkm-store-be/internal/utils"

	"golang.org/x/time/rate"
)

// Rate limit tiers
var (
	// login, register, payment notifications
	TierStrict = Tier{Name: "strict", Limit: rate.Limit(2), Burst: 5}

	// everything else
	TierGeneral = Tier{Name: "general", Limit: rate.Limit(10), Burst: 20}

	// callers presenting the internal key
	TierInternal = Tier{Name: "internal", Limit: rate.Limit(100), Burst: 200}
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

type Tier struct {
	Name  string
	Limit rate.Limit
	Burst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller identity and tier.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	strictPaths map[string]bool
	internalKey string
	metrics     *metrics.Registry
	now         func() time.Time
}

// NewRateLimiter starts a sweeper that evicts idle visitors until ctx is
// done. Requests to strictPaths use TierStrict. Rejections are counted in
// reg under metrics.RateLimited.
func NewRateLimiter(ctx context.Context, reg *metrics.Registry, internalKey string, strictPaths ...string) *RateLimiter {
	rl := &RateLimiter{
		visitors:    make(map[string]*visitor),
		strictPaths: make(map[string]bool, len(strictPaths)),
		internalKey: internalKey,
		metrics:     reg,
		now:         time.Now,
	}
	for _, p := range strictPaths {
		rl.strictPaths[p] = true
	}

	go rl.cleanup(ctx)
	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := rl.resolveTier(r)
		key := fmt.Sprintf("%s:%s", identity(r), tier.Name)

		if !rl.limiter(key, tier).Allow() {
			rl.metrics.Inc(metrics.RateLimited)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(tier)))
			utils.WriteJSONError(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) resolveTier(r *http.Request) Tier {
	if rl.internalKey != "" {
		key := r.Header.Get(metrics.InternalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(rl.internalKey)) == 1 {
			return TierInternal
		}
	}
	if rl.strictPaths[r.URL.Path] {
		return TierStrict
	}
	return TierGeneral
}

// identity prefers the authenticated user, then the client IP.
func identity(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%d", userID)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func (rl *RateLimiter) limiter(key string, tier Tier) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(tier.Limit, tier.Burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}

func retryAfterSeconds(tier Tier) int {
	if tier.Limit <= 0 {
		return 60
	}
	secs := int(1 / float64(tier.Limit))
	if secs < 1 {
		secs = 1
	}
	return secs
}
