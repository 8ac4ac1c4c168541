package services

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit. Bytes past it never reach the hash.
const MaxPasswordBytes = 72

// TruncatePassword keeps the first 72 bytes of pw. A code point split by the
// cut is dropped rather than rejected.
func TruncatePassword(pw string) string {
	if len(pw) <= MaxPasswordBytes {
		return pw
	}
	return strings.ToValidUTF8(pw[:MaxPasswordBytes], "")
}

func HashPassword(pw string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(TruncatePassword(pw)), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(TruncatePassword(pw))) == nil
}
