// File: internal/service/password.go
package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"starter-auth/internal/worker"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 600000
	saltLen           = 16
	keyLen            = 32
)

// dummyDigest 格式正確但不對應任何密碼，用於沒有摘要可比對的登入路徑
var dummyDigest = strings.Repeat("00", saltLen) + ":" + strings.Repeat("00", keyLen)

// randRead 產生隨機位元組，測試可覆寫
var randRead = rand.Read

// PasswordHasher 以 PBKDF2-HMAC-SHA256 產生與驗證密碼摘要
// 摘要格式為 hex(salt) + ":" + hex(key)
type PasswordHasher struct {
	pool       worker.Pool
	iterations int
}

// NewPasswordHasher 建立 hasher；pool 為 nil 時直接在呼叫端 goroutine 計算
func NewPasswordHasher(pool worker.Pool) *PasswordHasher {
	return &PasswordHasher{pool: pool, iterations: DefaultIterations}
}

// Hash 接收明文密碼，每次使用新的隨機 salt
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := randRead(salt); err != nil {
		return "", fmt.Errorf("PasswordHasher.Hash: %w", err)
	}
	key, err := h.derive(ctx, password, salt)
	if err != nil {
		return "", fmt.Errorf("PasswordHasher.Hash: %w", err)
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify 比對明文密碼與儲存的摘要；格式錯誤或計算失敗一律回傳 false
func (h *PasswordHasher) Verify(ctx context.Context, password, digest string) bool {
	parts := strings.Split(digest, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got, err := h.derive(ctx, password, salt)
	if err != nil {
		return false
	}
	return hmac.Equal(got, want)
}

func (h *PasswordHasher) derive(ctx context.Context, password string, salt []byte) ([]byte, error) {
	iter := h.iterations
	if iter <= 0 {
		iter = DefaultIterations
	}
	if h.pool == nil {
		return pbkdf2.Key([]byte(password), salt, iter, keyLen, sha256.New), nil
	}
	var key []byte
	if err := h.pool.Run(ctx, func() {
		key = pbkdf2.Key([]byte(password), salt, iter, keyLen, sha256.New)
	}); err != nil {
		return nil, err
	}
	return key, nil
}
