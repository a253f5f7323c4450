package middleware

import (
	"net/http"
	"sync"
	"time"
	"unispace/pkg/logger"
)

// SubjectRateLimiter applies a sliding-window request cap per
// authenticated subject. Unauthenticated requests fall back to the
// remote address so login-less probing is still bounded.
type SubjectRateLimiter struct {
	mu       sync.RWMutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	log      *logger.Logger
	stopCh   chan struct{}
}

func NewSubjectRateLimiter(limit int, window time.Duration, log *logger.Logger) *SubjectRateLimiter {
	limiter := &SubjectRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		log:      log,
		stopCh:   make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *SubjectRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for subject, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, subject)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *SubjectRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *SubjectRateLimiter) Allow(subject string) bool {
	if subject == "" {
		return true
	}

	now := time.Now()

	rl.mu.RLock()
	timestamps := rl.requests[subject]
	rl.mu.RUnlock()

	validTimestamps := make([]time.Time, 0)
	for _, ts := range timestamps {
		if now.Sub(ts) <= rl.window {
			validTimestamps = append(validTimestamps, ts)
		}
	}

	if len(validTimestamps) >= rl.limit {
		return false
	}

	validTimestamps = append(validTimestamps, now)

	rl.mu.Lock()
	rl.requests[subject] = validTimestamps
	rl.mu.Unlock()

	return true
}

func SubjectRateLimit(limiter *SubjectRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := rateLimitKey(r)

			if !limiter.Allow(subject) {
				rejectRateLimited(w, limiter.log, r, subject)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if identity, ok := IdentityFromContext(r.Context()); ok {
		return string(identity.Role) + ":" + identity.SubjectID
	}
	return "addr:" + r.RemoteAddr
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, subject string) {
	log.Warn("Rate limit exceeded",
		"request_id", RequestIDFromContext(r.Context()),
		"subject", subject,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}
