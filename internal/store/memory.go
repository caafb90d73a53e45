package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"starter-auth/internal/model"

	"github.com/google/uuid"
)

// Memory 是行程內的 record store，模擬資料表的唯一鍵與 ON DELETE CASCADE
type Memory struct {
	mu         sync.Mutex
	users      map[string]model.User
	byEmail    map[string]string
	byProvider map[string]string
	sessions   map[string]model.Session
	now        func() time.Time
}

var (
	_ Users    = (*Memory)(nil)
	_ Sessions = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		users:      map[string]model.User{},
		byEmail:    map[string]string{},
		byProvider: map[string]string{},
		sessions:   map[string]model.Session{},
		now:        time.Now,
	}
}

func cloneUser(u model.User) *model.User {
	if u.Name != nil {
		name := *u.Name
		u.Name = &name
	}
	return &u
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("GetUserByID: %w", ErrNotFound)
	}
	return cloneUser(u), nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("GetUserByEmail: %w", ErrNotFound)
	}
	return cloneUser(m.users[id]), nil
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	_, providerID, err := u.Columns()
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, fmt.Errorf("CreateUser: %w: users_email_key", ErrDuplicate)
	}
	if providerID != nil {
		if _, ok := m.byProvider[*providerID]; ok {
			return nil, fmt.Errorf("CreateUser: %w: users_provider_id_key", ErrDuplicate)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, ok := m.users[u.ID]; ok {
		return nil, fmt.Errorf("CreateUser: %w: users_pkey", ErrDuplicate)
	}
	now := m.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	m.users[u.ID] = *cloneUser(*u)
	m.byEmail[u.Email] = u.ID
	if providerID != nil {
		m.byProvider[*providerID] = u.ID
	}
	return u, nil
}

func (m *Memory) LinkProviderID(_ context.Context, userID, providerID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("LinkProviderID: %w", ErrNotFound)
	}
	if _, linked := u.ProviderID(); linked {
		return nil, fmt.Errorf("LinkProviderID: %w", ErrNotFound)
	}
	if _, taken := m.byProvider[providerID]; taken {
		return nil, fmt.Errorf("LinkProviderID: %w: users_provider_id_key", ErrDuplicate)
	}
	u.Auth = model.LinkProvider(u.Auth, providerID)
	u.UpdatedAt = m.now().UTC()
	m.users[userID] = u
	m.byProvider[providerID] = userID
	return cloneUser(u), nil
}

// DeleteUser 刪除使用者並連帶刪除其 sessions
func (m *Memory) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	delete(m.users, id)
	delete(m.byEmail, u.Email)
	if p, ok := u.ProviderID(); ok {
		delete(m.byProvider, p)
	}
	for sid, s := range m.sessions {
		if s.UserID == id {
			delete(m.sessions, sid)
		}
	}
	return nil
}

func (m *Memory) CreateSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[s.UserID]; !ok {
		return fmt.Errorf("CreateSession: %w", ErrNotFound)
	}
	if _, ok := m.sessions[s.ID]; ok {
		return fmt.Errorf("CreateSession: %w: sessions_pkey", ErrDuplicate)
	}
	s.CreatedAt = m.now().UTC()
	m.sessions[s.ID] = *s
	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("GetSession: %w", ErrNotFound)
	}
	return &s, nil
}

func (m *Memory) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// SetSessionExpiry 直接改寫 expires_at，測試用來模擬過期
func (m *Memory) SetSessionExpiry(id string, expiresAt time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.ExpiresAt = expiresAt
	m.sessions[id] = s
	return true
}

// SessionCount 回傳目前保存的 session 數量
func (m *Memory) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// UserCount 回傳目前保存的使用者數量
func (m *Memory) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
