package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
)

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"balance":    u.Balance,
		"isVerified": u.IsVerified,
	}
}

func goalView(g *entity.SavingsGoal) gin.H {
	return gin.H{
		"id":            g.ID,
		"name":          g.Name,
		"targetAmount":  g.TargetAmount,
		"currentAmount": g.CurrentAmount,
		"targetDate":    g.TargetDate,
		"description":   g.Description,
		"progress":      g.Progress(),
		"achieved":      g.Achieved(),
		"createdAt":     g.CreatedAt,
	}
}

func goalsView(goals []entity.SavingsGoal) []gin.H {
	out := make([]gin.H, 0, len(goals))
	for i := range goals {
		out = append(out, goalView(&goals[i]))
	}
	return out
}

func ledgerView(res *application.LedgerResult) gin.H {
	out := gin.H{
		"newBalance":  res.Balance,
		"transaction": res.Transaction,
	}
	if res.Goal != nil {
		out["savingsGoal"] = goalView(res.Goal)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
