package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 32

// GenerateToken returns 256 random bits, hex encoded.
func GenerateToken() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// MaskEmail keeps the first character of the local part for log lines.
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case at < 0:
		return "***"
	case at <= 1:
		return "*" + email[at:]
	default:
		return email[:1] + "***" + email[at:]
	}
}
