package observability

import (
	"net/http"
	"time"

	"github.com/danmuck/edgecli/internal/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const defaultCORSOrigin = "http://localhost:3000"

// StatusFunc supplies extra fields for the /health body.
type StatusFunc func() gin.H

// RouterConfig describes the HTTP surface of one console.
type RouterConfig struct {
	Host    string
	Origins []string
	Logger  zerolog.Logger
	Status  StatusFunc
	// MetricsAuth guards /metrics when set. /health stays open.
	MetricsAuth auth.Validator
}

// NewRouter builds the read-only HTTP surface for one console: /health and
// /metrics. It only serves GET.
func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterMetrics()
	started := time.Now()
	host, status := cfg.Host, cfg.Status

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(HTTPMiddleware(host, cfg.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.Origins),
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		AllowMethods: []string{"GET"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status": "ok",
			"host":   host,
			"uptime": time.Since(started).Round(time.Second).String(),
		}
		if status != nil {
			for k, v := range status() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})
	metrics := []gin.HandlerFunc{gin.WrapH(promhttp.Handler())}
	if cfg.MetricsAuth != nil {
		metrics = append([]gin.HandlerFunc{auth.RequireBearer(cfg.MetricsAuth)}, metrics...)
	}
	r.GET("/metrics", metrics...)
	return r
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{defaultCORSOrigin}
	}
	return out
}
