package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{application.ErrInvalidAmount, http.StatusBadRequest},
		{application.ErrInsufficientBalance, http.StatusBadRequest},
		{application.ErrInsufficientSavings, http.StatusBadRequest},
		{application.ErrEmailTaken, http.StatusBadRequest},
		{application.ErrOTPExpired, http.StatusBadRequest},
		{&application.ValidationError{Field: "name", Message: "is required"}, http.StatusBadRequest},
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrEmailNotVerified, http.StatusForbidden},
		{application.ErrGoalNotFound, http.StatusNotFound},
		{fmt.Errorf("deposit: %w", application.ErrUserNotFound), http.StatusNotFound},
		{application.ErrSearchUnavailable, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fail(c, helpers.NewNopLogger(), errors.New("pq: password authentication failed"))

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusInternalServerError || body.Success || body.Message != "internal server error" {
		t.Errorf("got %d %+v", w.Code, body)
	}
}
