package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/prperemyshlev/social-service/internal/utils"
)

const (
	minVerificationCode = 1000
	maxVerificationCode = 9999
)

var codeRange = big.NewInt(maxVerificationCode - minVerificationCode + 1)

// GenerateVerificationCode returns a uniformly random four digit code and the
// bcrypt hash of its decimal form.
func GenerateVerificationCode(cost int) (int, string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return 0, "", fmt.Errorf("failed to generate verification code: %w", err)
	}

	code := minVerificationCode + int(n.Int64())

	hash, err := utils.HashSecret(strconv.Itoa(code), cost)
	if err != nil {
		return 0, "", err
	}

	return code, hash, nil
}

// CheckVerificationCode compares a submitted code with the stored hash
func CheckVerificationCode(code int, hash string) bool {
	return utils.CheckSecretHash(strconv.Itoa(code), hash)
}
