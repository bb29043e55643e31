package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/savings-tracker/internal/container"
	"github.com/oksasatya/savings-tracker/internal/interface/middleware"
	"github.com/oksasatya/savings-tracker/pkg/metrics"
	"github.com/oksasatya/savings-tracker/pkg/response"
)

// SystemModule exposes health and Prometheus metrics.
type SystemModule struct {
	MetricsEnabled bool
}

func NewSystemModule(metricsEnabled bool) *SystemModule {
	return &SystemModule{MetricsEnabled: metricsEnabled}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"ok": true}, "healthy", nil)
	})
	if !m.MetricsEnabled {
		return
	}
	// scrapers on private networks are not limited
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/metrics", rl, gin.WrapH(metrics.Handler()))
}
