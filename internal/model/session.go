package model

import "time"

type Session struct {
	ID        string    `db:"id" json:"-"`
	UserID    string    `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired 判斷 session 在 now 時是否已失效
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
