package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketplace-service/config"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/service"
	"marketplace-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// authMiddleware resolves the bearer token (or access_token cookie) into a
// Principal and aborts unauthenticated requests.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "missing token")
			c.Abort()
			return
		}

		principal, err := h.authService.ResolveToken(c.Request.Context(), token)
		if err != nil {
			respondDomainError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

func getPrincipal(c *gin.Context) *service.Principal {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	return value.(*service.Principal)
}

// requireRoles allows only the listed roles past
func requireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := getPrincipal(c)
		if principal == nil {
			respondError(c, http.StatusUnauthorized, "missing token")
			c.Abort()
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, http.StatusForbidden, "forbidden")
		c.Abort()
	}
}

// requireSeller demands a hydrated seller side, whatever the token role
func requireSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := getPrincipal(c)
		if principal == nil || principal.Seller == nil {
			respondError(c, http.StatusForbidden, "seller account required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// rateLimitMiddleware enforces a fixed window per client on sensitive routes.
// Authenticated callers are keyed by subject, anonymous ones by IP. A Redis
// outage fails open.
func rateLimitMiddleware(redis *redisclient.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		if redis == nil {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if principal := getPrincipal(c); principal != nil {
			subject = principal.SubjectID().Hex()
		}

		allowed, err := redis.Allow(c.Request.Context(), subject, cfg.MaxRequests, window)
		if err != nil {
			util.GetLogger().Warn("Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			util.RateLimitedTotal.Inc()
			respondError(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
