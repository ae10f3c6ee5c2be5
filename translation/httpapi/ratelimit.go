package httpapi

import (
	"math"
	"net"
	"net/http"
	"strings"
	"time"
)

type KeyFunc func(r *http.Request) string

// ClientLimiter decide se o cliente pode seguir agora; ao negar, pode sugerir
// quanto esperar (0 = sem recomendação).
type ClientLimiter interface {
	Allow(key string) (bool, time.Duration)
}

type RateLimitOptions struct {
	Limiter             ClientLimiter
	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// RateLimit bloqueia com 429 + Retry-After quando o cliente estoura seu bucket.
// Sem Limiter, vira pass-through.
func RateLimit(opts RateLimitOptions) func(next http.Handler) http.Handler {
	if opts.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Limiter.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			allowed, wait := opts.Limiter.Allow(key)
			if !allowed {
				if wait <= 0 {
					wait = opts.RetryAfter
				}
				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(wait)))
				writeEnvelope(w, opts.RejectStatus, opts.RejectStatus, http.StatusText(opts.RejectStatus))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Retry-After é em segundos inteiros; arredonda para cima e nunca devolve 0.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
