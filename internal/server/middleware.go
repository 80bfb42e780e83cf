package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// requestID propagates or generates X-Request-ID
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog writes one structured line per request
func accessLog(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client":     c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}

// recovery turns panics into a JSON 500
func recovery(log *logrus.Entry) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"panic":      recovered,
		}).Error("panic in handler")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal_error", Detail: "internal error"})
	})
}

// corsPolicy allows the configured origins. Patterns may hold one "*",
// so "https://*.google.com" and "chrome-extension://*" work. An empty or
// unusable origin list disables CORS headers.
func corsPolicy(origins []string, log *logrus.Entry) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:           []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:           []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:          []string{requestIDHeader},
		AllowCredentials:       true,
		AllowWildcard:          true,
		AllowBrowserExtensions: true,
		MaxAge:                 10 * time.Minute,
	}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "":
		case origin == "*":
			config.AllowAllOrigins = true
		case strings.Count(origin, "*") > 1:
			log.WithField("origin", origin).Warn("ignoring CORS origin with more than one wildcard")
		default:
			config.AllowOrigins = append(config.AllowOrigins, origin)
		}
	}
	if config.AllowAllOrigins {
		config.AllowOrigins = nil
	}

	if err := config.Validate(); err != nil {
		log.WithError(err).Warn("CORS disabled")
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(config)
}

// requestTimeout bounds each request's context
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
