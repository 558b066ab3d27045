// Package crypto 提供密码哈希和脱敏工具
package crypto

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 生成密码哈希
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword 校验密码
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// MaskPhone 电话号码脱敏
func MaskPhone(phone string) string {
	if len(phone) < 7 {
		return phone
	}
	return phone[:3] + "****" + phone[len(phone)-4:]
}

// MaskIDNumber 证件号脱敏
func MaskIDNumber(idNumber string) string {
	if len(idNumber) < 8 {
		return idNumber
	}
	return idNumber[:4] + strings.Repeat("*", len(idNumber)-8) + idNumber[len(idNumber)-4:]
}

// MaskEmail 邮箱脱敏
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
