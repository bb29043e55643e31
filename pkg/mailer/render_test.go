package mailer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/config"
	tpl "github.com/oksasatya/savings-tracker/pkg/mailer/templates"
)

func testConfig() *config.Config {
	return &config.Config{AppName: "Savings", CompanyName: "Savings Ltd", CurrencySymbol: "৳"}
}

func TestRenderVerifyOTP(t *testing.T) {
	data := tpl.NewVerifyOTPData(testConfig(), "Nadia", "nadia@example.com", "482913", tpl.WithExpiresAt(time.Now().Add(10*time.Minute)))
	subject, text, html, err := Render(EmailJob{To: "nadia@example.com", Template: tpl.VerifyOTP, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	if subject != "Savings - Your email verification code" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(text, "482913") || !strings.Contains(html, "482913") {
		t.Error("code missing from body")
	}
	if !strings.Contains(text, "Hello Nadia") {
		t.Errorf("text = %q", text)
	}
}

func TestRenderTransaction(t *testing.T) {
	data := tpl.NewTransactionData(testConfig(), "Nadia", "nadia@example.com", "Savings deposit",
		decimal.NewFromInt(300), decimal.NewFromInt(700), tpl.WithDescription("Deposited to Laptop savings goal"))
	_, text, html, err := Render(EmailJob{To: "nadia@example.com", Template: tpl.Transaction, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"৳300.00", "৳700.00", "Deposited to Laptop savings goal"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if html == "" {
		t.Error("empty html")
	}
}

func TestRenderGoalAchievedEscapesHTML(t *testing.T) {
	data := tpl.NewGoalAchievedData(testConfig(), "Nadia", "nadia@example.com", "<b>Car</b>", decimal.NewFromInt(300))
	_, _, html, err := Render(EmailJob{To: "nadia@example.com", Template: tpl.GoalAchieved, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<b>Car</b>") {
		t.Error("goal name not escaped in html")
	}
}

func TestRenderRawAndInvalidJobs(t *testing.T) {
	subject, text, _, err := Render(EmailJob{To: "a@example.com", Subject: "Hi", Text: "Body"})
	if err != nil || subject != "Hi" || text != "Body" {
		t.Errorf("raw job = %q %q %v", subject, text, err)
	}
	if _, _, _, err := Render(EmailJob{To: "a@example.com"}); !errors.Is(err, ErrEmptyJob) {
		t.Errorf("empty job err = %v", err)
	}
	if _, _, _, err := Render(EmailJob{Template: tpl.VerifyOTP}); err == nil {
		t.Error("job without recipient accepted")
	}
	if _, _, _, err := Render(EmailJob{To: "a@example.com", Template: "missing"}); err == nil {
		t.Error("unknown template accepted")
	}
}
