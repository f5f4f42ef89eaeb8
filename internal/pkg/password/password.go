package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinLength 密码最短长度，与注册接口的校验一致
const MinLength = 6

// ErrTooShort 密码长度不足
var ErrTooShort = errors.New("password must be at least 6 characters")

// Hash 加密密码
func Hash(password string) (string, error) {
	if len(password) < MinLength {
		return "", ErrTooShort
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify 验证密码
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
