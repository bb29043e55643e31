package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/savings-tracker/internal/interface/http"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

type SavingsModule struct {
	Handler *handlers.SavingsHandler
	JWT     *helpers.JWTManager
}

func NewSavingsModule(h *handlers.SavingsHandler, jwt *helpers.JWTManager) *SavingsModule {
	return &SavingsModule{Handler: h, JWT: jwt}
}

func (m *SavingsModule) Register(rg *gin.RouterGroup) {
	goals := rg.Group("/savings-goals")
	goals.Use(protected(m.JWT)...)
	{
		goals.GET("", m.Handler.ListGoals)
		goals.POST("", m.Handler.CreateGoal)
		goals.GET("/:id", m.Handler.GetGoal)
	}

	plans := rg.Group("/savings-plans")
	plans.Use(protected(m.JWT)...)
	{
		plans.GET("", m.Handler.ListPlans)
		plans.POST("", m.Handler.CreatePlan)
		plans.PATCH("/:id", m.Handler.UpdatePlan)
		plans.DELETE("/:id", m.Handler.DeletePlan)
	}
}
