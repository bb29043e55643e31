package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/interface/middleware"
	"github.com/oksasatya/savings-tracker/pkg/response"
)

type TransactionHandler struct {
	Svc    *application.TransactionService
	Logger *logrus.Logger
}

func NewTransactionHandler(svc *application.TransactionService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Logger: logger}
}

// List GET /api/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	txs, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonNil(txs), "transactions", map[string]any{"count": len(txs)})
}

// Search GET /api/transactions/search?q=&size=
func (h *TransactionHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	txs, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nonNil(txs), "search results", map[string]any{"count": len(txs)})
}

// Export POST /api/transactions/export
func (h *TransactionHandler) Export(c *gin.Context) {
	url, err := h.Svc.Export(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "statement exported", nil)
}
