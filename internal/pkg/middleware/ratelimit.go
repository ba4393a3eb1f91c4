package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	apperror "minierp/internal/errors"
	"minierp/internal/pkg/cache"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
)

// RateLimiter limita requisições por IP em janelas fixas de `period`, com contadores no cache.
// Falhas do cache não bloqueiam a requisição.
func RateLimiter(client cache.Client, limit int, period, timeout time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			count, err := client.GetInt(ctx, key)
			switch {
			case errors.Is(err, cache.ErrCacheMiss):
				if err := client.Set(ctx, key, 1, period); err != nil {
					log.Warn("Falha ao iniciar contador de rate limit.", map[string]interface{}{"ip": ip, "error": err.Error()})
				}
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-1))
				next.ServeHTTP(w, r)
				return
			case err != nil:
				log.Warn("Cache indisponível, rate limit ignorado.", map[string]interface{}{"ip": ip, "error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			if count >= limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(period.Seconds())))
				respond.JSON(w, log, http.StatusTooManyRequests, map[string]interface{}{
					"code":     http.StatusTooManyRequests,
					"category": "RATE_LIMITED",
					"message":  "Rate limit exceeded.",
				})
				return
			}

			if _, err := client.Incr(ctx, key); err != nil {
				log.Error("Falha ao incrementar contador de rate limit.", apperror.NewInternalError("rate limit incr", err))
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-count-1))
			next.ServeHTTP(w, r)
		})
	}
}
