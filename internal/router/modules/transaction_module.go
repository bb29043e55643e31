package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/savings-tracker/internal/container"
	handlers "github.com/oksasatya/savings-tracker/internal/interface/http"
	"github.com/oksasatya/savings-tracker/internal/interface/middleware"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

type TransactionModule struct {
	Handler *handlers.TransactionHandler
	JWT     *helpers.JWTManager
}

func NewTransactionModule(h *handlers.TransactionHandler, jwt *helpers.JWTManager) *TransactionModule {
	return &TransactionModule{Handler: h, JWT: jwt}
}

func (m *TransactionModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/transactions")
	g.Use(protected(m.JWT)...)
	exportLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil)
	{
		g.GET("", m.Handler.List)
		g.GET("/search", m.Handler.Search)
		g.POST("/export", exportLimiter, m.Handler.Export)
	}
}
