package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomString 生成指定长度的随机字符串（URL 安全，用于 OAuth state 等）。
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n], nil
}
