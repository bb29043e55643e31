package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/savings-tracker/internal/domain/entity"
	repo "github.com/oksasatya/savings-tracker/internal/domain/repository"
	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

const defaultOTPTTL = 10 * time.Minute

type AuthService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Notifier Notifier
	Logger   *logrus.Logger
	OTPTTL   time.Duration
	Now      func() time.Time
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, n Notifier, logger *logrus.Logger, otpTTL time.Duration) *AuthService {
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	return &AuthService{Repo: r, JWT: jwt, Redis: rdb, Notifier: n, Logger: logger, OTPTTL: otpTTL, Now: time.Now}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an unverified user and sends a verification code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := NormalizeEmail(in.Email)
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return nil, invalid("password", "must be at most 72 bytes")
		}
		return nil, err
	}
	code, err := helpers.GenOTPCode()
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Balance:      decimal.Zero,
	}
	expiry := s.now().Add(s.OTPTTL)
	u.SetOTP(code, expiry)
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")

	s.notifyCode(ctx, u, code, expiry)
	return u, nil
}

// ResendOTP replaces any outstanding code with a fresh one.
func (s *AuthService) ResendOTP(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}
	code, err := helpers.GenOTPCode()
	if err != nil {
		return err
	}
	expiry := s.now().Add(s.OTPTTL)
	if err := s.Repo.UpdateOTP(ctx, u.ID, code, expiry); err != nil {
		return err
	}
	u.SetOTP(code, expiry)
	s.notifyCode(ctx, u, code, expiry)
	return nil
}

// VerifyOTP checks the code and marks the user verified. A consumed code is
// cleared so it can never be replayed.
func (s *AuthService) VerifyOTP(ctx context.Context, userID, code string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}
	if u.OTP == nil || !helpers.OTPEqual(*u.OTP, strings.TrimSpace(code)) {
		return ErrInvalidOTP
	}
	if u.OTPExpiry == nil || !s.now().Before(*u.OTPExpiry) {
		return ErrOTPExpired
	}
	if err := s.Repo.MarkVerified(ctx, u.ID, *u.OTP); err != nil {
		if isNotFound(err) {
			// consumed or replaced by a concurrent request
			return ErrInvalidOTP
		}
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("email verified")
	return nil
}

func (s *AuthService) notifyCode(ctx context.Context, u *entity.User, code string, expiry time.Time) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(ctx, Notice{Kind: NoticeVerification, User: *u, Code: code, ExpiresAt: expiry})
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, ErrEmailNotVerified
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	id := helpers.Identity{UserID: u.ID, Email: u.Email, Name: u.Name}
	pair, err := s.sign(ctx, id, uuid.NewString())
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		return TokenPair{}, err
	}
	return pair, nil
}

func (s *AuthService) sign(ctx context.Context, id helpers.Identity, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(id, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(id, sid)
	if err != nil {
		return TokenPair{}, err
	}
	if s.Redis != nil {
		if rErr := helpers.SaveSession(ctx, s.Redis, id, sid); rErr != nil {
			s.Logger.WithError(rErr).WithField("user_id", id.UserID).Warn("redis session write failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user logged in")
	return u, pair, nil
}

// Refresh rotates the session id and both tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return TokenPair{}, "", ErrInvalidCredentials
		}
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		sid, rErr := helpers.SessionID(ctx, s.Redis, u.ID)
		if rErr != nil || sid == "" || sid != claims.SessionID {
			return TokenPair{}, "", ErrInvalidSession
		}
	}
	pair, err := s.sign(ctx, helpers.Identity{UserID: u.ID, Email: u.Email, Name: u.Name}, uuid.NewString())
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.DeleteSession(ctx, s.Redis, userID)
}
