package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	"github.com/oksasatya/savings-tracker/internal/interface/middleware"
	"github.com/oksasatya/savings-tracker/pkg/response"
	"github.com/oksasatya/savings-tracker/pkg/validation"
)

type UserHandler struct {
	Users  *application.UserService
	Ledger *application.LedgerService
	Logger *logrus.Logger
}

func NewUserHandler(users *application.UserService, ledger *application.LedgerService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Users: users, Ledger: ledger, Logger: logger}
}

type addFundsRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Note   string           `json:"note" binding:"max=255"`
}

type depositRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	SavingsGoalID string           `json:"savingsGoalId"`
	Note          string           `json:"note" binding:"max=255"`
}

type withdrawRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
	Reason string           `json:"reason" binding:"max=255"`
}

type withdrawFromSavingsRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	SavingsGoalID string           `json:"savingsGoalId" binding:"required"`
	Reason        string           `json:"reason" binding:"max=255"`
}

// bindAmount binds the body and rejects missing or non-positive amounts with
// the same message the ledger uses.
func bindAmount[T any](c *gin.Context, req *T, amount func(*T) *decimal.Decimal) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		details := validation.ToDetails(err)
		if _, ok := details["amount"]; ok {
			response.Error[any](c, http.StatusBadRequest, application.ErrInvalidAmount.Error(), details)
			return false
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", details)
		return false
	}
	if a := amount(req); a == nil || !entity.ValidAmount(*a) {
		response.Error[any](c, http.StatusBadRequest, application.ErrInvalidAmount.Error(), nil)
		return false
	}
	return true
}

// GetProfile GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":           p.User.ID,
		"name":         p.User.Name,
		"email":        p.User.Email,
		"balance":      p.User.Balance,
		"totalSavings": p.TotalSavings,
		"savingsGoals": goalsView(p.Goals),
		"savingsPlans": nonNil(p.Plans),
		"createdAt":    p.User.CreatedAt,
	}, "profile", nil)
}

// AddFunds POST /api/user/add-funds
func (h *UserHandler) AddFunds(c *gin.Context) {
	var req addFundsRequest
	if !bindAmount(c, &req, func(r *addFundsRequest) *decimal.Decimal { return r.Amount }) {
		return
	}
	res, err := h.Ledger.AddFunds(c.Request.Context(), middleware.UserID(c), *req.Amount, req.Note)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ledgerView(res), "funds added successfully", nil)
}

// Deposit POST /api/user/deposit
func (h *UserHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if !bindAmount(c, &req, func(r *depositRequest) *decimal.Decimal { return r.Amount }) {
		return
	}
	res, err := h.Ledger.Deposit(c.Request.Context(), middleware.UserID(c), *req.Amount, req.SavingsGoalID, req.Note)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ledgerView(res), "deposit successful", nil)
}

// Withdraw POST /api/user/withdraw
func (h *UserHandler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if !bindAmount(c, &req, func(r *withdrawRequest) *decimal.Decimal { return r.Amount }) {
		return
	}
	res, err := h.Ledger.Withdraw(c.Request.Context(), middleware.UserID(c), *req.Amount, req.Reason)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ledgerView(res), "withdrawal successful", nil)
}

// WithdrawFromSavings POST /api/user/withdraw-from-savings
func (h *UserHandler) WithdrawFromSavings(c *gin.Context) {
	var req withdrawFromSavingsRequest
	if !bindAmount(c, &req, func(r *withdrawFromSavingsRequest) *decimal.Decimal { return r.Amount }) {
		return
	}
	res, err := h.Ledger.WithdrawFromSavings(c.Request.Context(), middleware.UserID(c), *req.Amount, req.SavingsGoalID, req.Reason)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ledgerView(res), "withdrawal from savings successful", nil)
}
