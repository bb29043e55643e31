package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/oksasatya/savings-tracker/pkg/helpers"
	"github.com/oksasatya/savings-tracker/pkg/mailer"
	tpl "github.com/oksasatya/savings-tracker/pkg/mailer/templates"
)

type fakeSender struct {
	err     error
	to      string
	subject string
}

func (f *fakeSender) Send(_ context.Context, to, subject, _, _ string) error {
	f.to, f.subject = to, subject
	return f.err
}

func body(t *testing.T, job mailer.EmailJob) []byte {
	t.Helper()
	b, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHandle(t *testing.T) {
	logger := helpers.NewNopLogger()
	ctx := context.Background()
	job := mailer.EmailJob{
		To:       "nadia@example.com",
		Template: tpl.VerifyOTP,
		Data:     map[string]any{"AppName": "Savings", "Name": "Nadia", "Code": "123456"},
	}

	s := &fakeSender{}
	if got := handle(ctx, s, body(t, job), logger); got != ack {
		t.Fatalf("outcome = %v, want ack", got)
	}
	if s.to != "nadia@example.com" || s.subject != "Savings - Your email verification code" {
		t.Errorf("sent to=%q subject=%q", s.to, s.subject)
	}

	if got := handle(ctx, &fakeSender{err: errors.New("mailgun down")}, body(t, job), logger); got != requeue {
		t.Errorf("send failure outcome = %v, want requeue", got)
	}
	if got := handle(ctx, &fakeSender{}, []byte("{not json"), logger); got != drop {
		t.Errorf("malformed outcome = %v, want drop", got)
	}
	if got := handle(ctx, &fakeSender{}, body(t, mailer.EmailJob{To: "a@example.com", Template: "nope"}), logger); got != drop {
		t.Errorf("unknown template outcome = %v, want drop", got)
	}
}
