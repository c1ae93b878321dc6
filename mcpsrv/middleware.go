package mcpsrv

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultRPS   = 2
	defaultBurst = 5
)

// WrapMCPHandler puts the endpoint guards of cfg in front of next.
func WrapMCPHandler(next http.Handler, cfg Config, log *zap.SugaredLogger) http.Handler {
	return chi.Chain(Guards(cfg, log)...).Handler(next)
}

// Guards returns the middlewares protecting the MCP endpoint, outermost
// first: origin allowlist, CORS headers, preflight, rate limit, API key.
func Guards(cfg Config, log *zap.SugaredLogger) []func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	guards := []func(http.Handler) http.Handler{RequireOrigin(cfg.AllowedOrigins, log)}
	if len(cfg.AllowedOrigins) > 0 {
		guards = append(guards,
			cors.Handler(cors.Options{
				AllowedOrigins:     cfg.AllowedOrigins,
				AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
				AllowedHeaders:     []string{"Content-Type", "Accept", "Authorization", "X-API-Key", "Mcp-Protocol-Version", "Mcp-Session-Id", "Last-Event-ID"},
				ExposedHeaders:     []string{"Mcp-Session-Id"},
				MaxAge:             300,
				OptionsPassthrough: true,
			}),
			answerPreflight,
		)
	}

	rps, burst := cfg.RPS, cfg.Burst
	if rps <= 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	guards = append(guards, RateLimit(rate.NewLimiter(rate.Limit(rps), burst), log))

	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		guards = append(guards, RequireAPIKey(key, log))
	}
	return guards
}

// RequireOrigin rejects browser requests whose Origin is not listed. Requests
// without an Origin header are let through; with an empty list every
// browser request is rejected.
func RequireOrigin(allowed []string, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimSpace(origin)] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := set[origin]; !ok {
				reject(w, r, log, http.StatusForbidden, "origin not allowed", "origin", origin)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// answerPreflight ends CORS preflight requests once the headers are set.
func answerPreflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit answers 429 once limiter runs out of tokens. The limiter is
// shared by every client of the endpoint.
func RateLimit(limiter *rate.Limiter, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				reject(w, r, log, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPIKey accepts the key in X-API-Key or as a bearer token.
func RequireAPIKey(key string, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasAPIKey(r, key) {
				reject(w, r, log, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasAPIKey(r *http.Request, key string) bool {
	if sameKey(strings.TrimSpace(r.Header.Get("X-API-Key")), key) {
		return true
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	return ok && strings.EqualFold(scheme, "Bearer") && sameKey(strings.TrimSpace(token), key)
}

func sameKey(got, want string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func reject(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, status int, reason string, kv ...any) {
	log.Infow("mcp request rejected", append([]any{
		"reason", reason,
		"status", status,
		"remote", r.RemoteAddr,
		"request_id", chimiddleware.GetReqID(r.Context()),
	}, kv...)...)
	http.Error(w, reason, status)
}
