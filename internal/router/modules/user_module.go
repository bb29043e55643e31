package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/savings-tracker/internal/container"
	handlers "github.com/oksasatya/savings-tracker/internal/interface/http"
	"github.com/oksasatya/savings-tracker/internal/interface/middleware"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

// UserModule wires the profile and balance routes under /api/user.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/user")
	g.Use(protected(m.JWT)...)
	// money movement gets a tighter per-user budget
	money := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil)
	{
		g.GET("/profile", m.Handler.GetProfile)
		g.POST("/add-funds", money, m.Handler.AddFunds)
		g.POST("/deposit", money, m.Handler.Deposit)
		g.POST("/withdraw", money, m.Handler.Withdraw)
		g.POST("/withdraw-from-savings", money, m.Handler.WithdrawFromSavings)
	}
}

// protected is the middleware chain shared by every authenticated module.
func protected(jwt *helpers.JWTManager) []gin.HandlerFunc {
	rdb := container.GetRedis()
	return []gin.HandlerFunc{
		middleware.Auth(rdb, jwt),
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	}
}
