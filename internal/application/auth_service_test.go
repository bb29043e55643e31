package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/savings-tracker/internal/application"
	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
	"github.com/oksasatya/savings-tracker/internal/infrastructure/memory"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newAuth(store *memory.Store) (*application.AuthService, *recordingNotifier, *clock) {
	n := &recordingNotifier{}
	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	svc := application.NewAuthService(store.Users(), jwt, nil, n, helpers.NewNopLogger(), 10*time.Minute)
	svc.Now = clk.Now
	return svc, n, clk
}

func register(t *testing.T, svc *application.AuthService, n *recordingNotifier, email string) (string, string) {
	t.Helper()
	u, err := svc.Register(context.Background(), application.RegisterInput{Name: "Rahim", Email: email, Password: "secret-pass"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	notice := n.last()
	if notice.Kind != application.NoticeVerification {
		t.Fatalf("last notice kind = %v, want verification", notice.Kind)
	}
	return u.ID, notice.Code
}

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	store := memory.NewStore()
	svc, n, clk := newAuth(store)

	id, code := register(t, svc, n, "  Rahim@Example.com ")
	u, err := store.Users().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.IsVerified {
		t.Error("new user must be unverified")
	}
	if !u.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", u.Balance)
	}
	if u.Email != "rahim@example.com" {
		t.Errorf("email = %q, want normalized", u.Email)
	}
	if u.PasswordHash == "secret-pass" || !helpers.CheckPassword(u.PasswordHash, "secret-pass") {
		t.Error("password must be stored as a bcrypt hash")
	}
	if u.OTP == nil || *u.OTP != code || len(code) != 6 {
		t.Errorf("otp = %v, notice code = %q", u.OTP, code)
	}
	if u.OTPExpiry == nil || !u.OTPExpiry.Equal(clk.now.Add(10*time.Minute)) {
		t.Errorf("otp expiry = %v", u.OTPExpiry)
	}
}

func TestRegisterRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	store := memory.NewStore()
	svc, n, _ := newAuth(store)
	register(t, svc, n, "dup@example.com")

	_, err := svc.Register(context.Background(), application.RegisterInput{Name: "X", Email: "DUP@example.com", Password: "another-pass"})
	if !errors.Is(err, application.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestVerifyOTP(t *testing.T) {
	store := memory.NewStore()
	svc, n, _ := newAuth(store)
	id, code := register(t, svc, n, "v@example.com")
	ctx := context.Background()

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if err := svc.VerifyOTP(ctx, id, wrong); !errors.Is(err, application.ErrInvalidOTP) {
		t.Errorf("wrong code err = %v", err)
	}
	if err := svc.VerifyOTP(ctx, "unknown", code); !errors.Is(err, application.ErrUserNotFound) {
		t.Errorf("unknown user err = %v", err)
	}
	if err := svc.VerifyOTP(ctx, id, code); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	u, _ := store.Users().GetByID(ctx, id)
	if !u.IsVerified || u.OTP != nil || u.OTPExpiry != nil {
		t.Errorf("after verify: verified=%v otp=%v expiry=%v", u.IsVerified, u.OTP, u.OTPExpiry)
	}
	if err := svc.VerifyOTP(ctx, id, code); !errors.Is(err, application.ErrAlreadyVerified) {
		t.Errorf("reuse err = %v, want ErrAlreadyVerified", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	store := memory.NewStore()
	svc, n, clk := newAuth(store)
	id, code := register(t, svc, n, "late@example.com")

	clk.now = clk.now.Add(10*time.Minute + time.Second)
	if err := svc.VerifyOTP(context.Background(), id, code); !errors.Is(err, application.ErrOTPExpired) {
		t.Fatalf("err = %v, want ErrOTPExpired", err)
	}
	u, _ := store.Users().GetByID(context.Background(), id)
	if u.IsVerified {
		t.Error("expired code must not verify")
	}
}

func TestResendOTPReplacesCode(t *testing.T) {
	store := memory.NewStore()
	svc, n, clk := newAuth(store)
	id, _ := register(t, svc, n, "r@example.com")
	ctx := context.Background()

	clk.now = clk.now.Add(20 * time.Minute)
	if err := svc.ResendOTP(ctx, id); err != nil {
		t.Fatalf("ResendOTP: %v", err)
	}
	fresh := n.last().Code
	if err := svc.VerifyOTP(ctx, id, fresh); err != nil {
		t.Fatalf("VerifyOTP with resent code: %v", err)
	}
	if err := svc.ResendOTP(ctx, id); !errors.Is(err, application.ErrAlreadyVerified) {
		t.Errorf("resend after verify err = %v", err)
	}
	if err := svc.ResendOTP(ctx, "nobody"); !errors.Is(err, application.ErrUserNotFound) {
		t.Errorf("resend unknown err = %v", err)
	}
}

// creditingUsers credits the balance right after every read, standing in for
// a ledger write that lands between a read and the following write.
type creditingUsers struct {
	repo.UserRepository
}

func (c creditingUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := c.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateBalance(ctx, id, u.Balance.Add(decimal.NewFromInt(50))); err != nil {
		return nil, err
	}
	return u, nil
}

func TestCodeWritesKeepConcurrentBalanceChanges(t *testing.T) {
	store := memory.NewStore()
	n := &recordingNotifier{}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	svc := application.NewAuthService(creditingUsers{store.Users()}, jwt, nil, n, helpers.NewNopLogger(), 10*time.Minute)
	ctx := context.Background()

	u, err := svc.Register(ctx, application.RegisterInput{Name: "Rahim", Email: "c@example.com", Password: "secret-pass"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ResendOTP(ctx, u.ID); err != nil {
		t.Fatalf("ResendOTP: %v", err)
	}
	if err := svc.VerifyOTP(ctx, u.ID, n.last().Code); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	got, _ := store.Users().GetByID(ctx, u.ID)
	if !got.IsVerified || !got.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("verified=%v balance=%s, want true and 100", got.IsVerified, got.Balance)
	}
}

func TestMarkVerifiedRequiresCurrentCode(t *testing.T) {
	store := memory.NewStore()
	svc, n, _ := newAuth(store)
	id, _ := register(t, svc, n, "swap@example.com")
	ctx := context.Background()

	u, _ := store.Users().GetByID(ctx, id)
	if err := store.Users().MarkVerified(ctx, id, "not-the-code"); err == nil {
		t.Fatal("MarkVerified accepted a stale code")
	}
	if err := svc.VerifyOTP(ctx, id, *u.OTP); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
}

func TestLogin(t *testing.T) {
	store := memory.NewStore()
	svc, n, _ := newAuth(store)
	id, code := register(t, svc, n, "login@example.com")
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "login@example.com", "secret-pass"); !errors.Is(err, application.ErrEmailNotVerified) {
		t.Errorf("unverified login err = %v", err)
	}
	if err := svc.VerifyOTP(ctx, id, code); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Login(ctx, "login@example.com", "wrong-pass"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret-pass"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}

	u, pair, err := svc.Login(ctx, "LOGIN@example.com", "secret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != id {
		t.Errorf("user id = %s, want %s", u.ID, id)
	}
	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != id || claims.Email != "login@example.com" || claims.SessionID == "" {
		t.Errorf("claims = %+v", claims)
	}
	if !pair.AccessTokenExpiry.After(time.Now()) {
		t.Errorf("access expiry = %v", pair.AccessTokenExpiry)
	}
}

func TestRefreshIssuesNewSession(t *testing.T) {
	store := memory.NewStore()
	svc, n, _ := newAuth(store)
	id, code := register(t, svc, n, "ref@example.com")
	ctx := context.Background()
	if err := svc.VerifyOTP(ctx, id, code); err != nil {
		t.Fatal(err)
	}
	_, pair, err := svc.Login(ctx, "ref@example.com", "secret-pass")
	if err != nil {
		t.Fatal(err)
	}

	next, uid, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if uid != id {
		t.Errorf("uid = %s", uid)
	}
	before, _ := svc.JWT.ParseAccessToken(pair.AccessToken)
	after, _ := svc.JWT.ParseAccessToken(next.AccessToken)
	if before.SessionID == after.SessionID {
		t.Error("refresh must rotate the session id")
	}
	if _, _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Errorf("access token used as refresh err = %v", err)
	}
}
