package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

var saltChars = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// CreateSalt sinh salt ngẫu nhiên 16 ký tự alphanumeric.
func CreateSalt() string {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = saltChars[int(b)%len(saltChars)]
	}
	return string(buf)
}

// HashPassword băm mật khẩu bằng argon2id với salt cho trước.
// Cùng mật khẩu + cùng salt luôn cho ra cùng kết quả.
func HashPassword(password, salt string) string {
	hash := argon2.IDKey([]byte(password), []byte(salt), 1, 64*1024, 4, 32)
	return base64.RawStdEncoding.EncodeToString(hash)
}

// VerifyPassword so sánh mật khẩu với hash đã lưu (so sánh thời gian cố định).
func VerifyPassword(password, salt, encodedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(encodedHash)) == 1
}
