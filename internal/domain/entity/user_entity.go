package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the aggregate root for the savings domain.
// Passwords are stored as bcrypt hashes; the cash balance is never negative.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsVerified   bool
	OTP          *string
	OTPExpiry    *time.Time
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetOTP stores a fresh verification code valid until expiry.
func (u *User) SetOTP(code string, expiry time.Time) {
	u.OTP = &code
	u.OTPExpiry = &expiry
}

// MarkVerified flips the verified flag and burns the outstanding code.
func (u *User) MarkVerified() {
	u.IsVerified = true
	u.OTP = nil
	u.OTPExpiry = nil
}
