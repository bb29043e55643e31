package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/savings-tracker/internal/interface/http"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

type NotificationModule struct {
	Handler *handlers.NotificationHandler
	JWT     *helpers.JWTManager
}

func NewNotificationModule(h *handlers.NotificationHandler, jwt *helpers.JWTManager) *NotificationModule {
	return &NotificationModule{Handler: h, JWT: jwt}
}

func (m *NotificationModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/notifications")
	g.Use(protected(m.JWT)...)
	{
		g.GET("", m.Handler.List)
		g.PATCH("/:id/read", m.Handler.MarkRead)
	}
}
