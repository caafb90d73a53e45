// File: internal/service/session.go
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"starter-auth/internal/model"
	"starter-auth/internal/store"
)

const (
	SessionTTL      = 30 * 24 * time.Hour
	sessionIDLength = 32
)

// SessionManager 管理 server-side session；過期判斷只在 Validate 時進行
type SessionManager struct {
	sessions store.Sessions
	users    store.Users
	now      func() time.Time
}

func NewSessionManager(sessions store.Sessions, users store.Users) *SessionManager {
	return &SessionManager{sessions: sessions, users: users, now: time.Now}
}

// Create 建立新的 session 並回傳不透明的 id
func (m *SessionManager) Create(ctx context.Context, userID string) (string, error) {
	id, err := randomToken(sessionIDLength)
	if err != nil {
		return "", fmt.Errorf("SessionManager.Create: %w", err)
	}
	s := &model.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: m.now().Add(SessionTTL),
	}
	if err := m.sessions.CreateSession(ctx, s); err != nil {
		return "", fmt.Errorf("SessionManager.Create: %w", err)
	}
	return id, nil
}

// Validate 回傳 session 擁有者；不存在或已過期時回傳 nil
// 過期的 session 會在此時刪除
func (m *SessionManager) Validate(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	s, err := m.sessions.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("SessionManager.Validate: %w", err)
	}
	if s.Expired(m.now()) {
		if err := m.sessions.DeleteSession(ctx, id); err != nil {
			return nil, fmt.Errorf("SessionManager.Validate: %w", err)
		}
		return nil, nil
	}
	u, err := m.users.GetUserByID(ctx, s.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("SessionManager.Validate: %w", err)
	}
	return u, nil
}

// Revoke 刪除 session；已不存在時不視為錯誤
func (m *SessionManager) Revoke(ctx context.Context, id string) error {
	if err := m.sessions.DeleteSession(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("SessionManager.Revoke: %w", err)
	}
	return nil
}

// randomToken 回傳 n 個隨機位元組的 base64url (無 padding) 字串
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
