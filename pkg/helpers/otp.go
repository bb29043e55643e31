package helpers

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

var otpSpace = big.NewInt(900000)

// GenOTPCode generates a uniformly random 6-digit code in 100000-999999.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// OTPEqual compares codes in constant time.
func OTPEqual(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
