package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/interface/middleware"
	"github.com/oksasatya/savings-tracker/pkg/response"
	"github.com/oksasatya/savings-tracker/pkg/validation"
)

type SavingsHandler struct {
	Svc    *application.SavingsService
	Logger *logrus.Logger
}

func NewSavingsHandler(svc *application.SavingsService, logger *logrus.Logger) *SavingsHandler {
	return &SavingsHandler{Svc: svc, Logger: logger}
}

type createGoalRequest struct {
	Name         string           `json:"name" binding:"required,max=100"`
	TargetAmount *decimal.Decimal `json:"targetAmount" binding:"required"`
	TargetDate   string           `json:"targetDate" binding:"required"`
	Description  string           `json:"description" binding:"max=500"`
}

type createPlanRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Frequency     string           `json:"frequency" binding:"required,frequency"`
	DayOfWeek     *string          `json:"dayOfWeek" binding:"omitempty,weekday"`
	DayOfMonth    *int             `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	SavingsGoalID *string          `json:"savingsGoalId"`
}

type updatePlanRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListGoals GET /api/savings-goals
func (h *SavingsHandler) ListGoals(c *gin.Context) {
	goals, err := h.Svc.ListGoals(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, goalsView(goals), "savings goals", nil)
}

// CreateGoal POST /api/savings-goals
func (h *SavingsHandler) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	target, ok := parseDate(req.TargetDate)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"targetDate": "must be a date (YYYY-MM-DD or RFC 3339)"})
		return
	}
	g, err := h.Svc.CreateGoal(c.Request.Context(), middleware.UserID(c), application.GoalInput{
		Name:         req.Name,
		TargetAmount: *req.TargetAmount,
		TargetDate:   target,
		Description:  req.Description,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, goalView(g), "savings goal created", nil)
}

// GetGoal GET /api/savings-goals/:id
func (h *SavingsHandler) GetGoal(c *gin.Context) {
	g, err := h.Svc.GetGoal(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, goalView(g), "savings goal", nil)
}

// ListPlans GET /api/savings-plans
func (h *SavingsHandler) ListPlans(c *gin.Context) {
	plans, err := h.Svc.ListPlans(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonNil(plans), "savings plans", nil)
}

// CreatePlan POST /api/savings-plans
func (h *SavingsHandler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.CreatePlan(c.Request.Context(), middleware.UserID(c), application.PlanInput{
		Amount:        *req.Amount,
		Frequency:     entity.Frequency(req.Frequency),
		DayOfWeek:     req.DayOfWeek,
		DayOfMonth:    req.DayOfMonth,
		SavingsGoalID: req.SavingsGoalID,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "savings plan created", nil)
}

// UpdatePlan PATCH /api/savings-plans/:id pauses or resumes a plan.
func (h *SavingsHandler) UpdatePlan(c *gin.Context) {
	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.SetPlanActive(c.Request.Context(), middleware.UserID(c), c.Param("id"), *req.IsActive)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "savings plan updated", nil)
}

// DeletePlan DELETE /api/savings-plans/:id
func (h *SavingsHandler) DeletePlan(c *gin.Context) {
	if err := h.Svc.DeletePlan(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "savings plan deleted", nil)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
