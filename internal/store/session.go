package store

import (
	"context"

	"starter-auth/internal/database"
	"starter-auth/internal/model"
)

func CreateSession(ctx context.Context, db database.DB, s *model.Session) error {
	row := db.QueryRow(ctx,
		`INSERT INTO sessions (id, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		s.ID,
		s.UserID,
		s.ExpiresAt,
	)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return wrap("CreateSession", err)
	}
	return nil
}

func GetSession(ctx context.Context, db database.DB, id string) (*model.Session, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, expires_at, created_at
		 FROM sessions WHERE id = $1`,
		id,
	)
	s := &model.Session{}
	if err := row.Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return nil, wrap("GetSession", err)
	}
	return s, nil
}

// DeleteSession 刪除 session；不存在時不視為錯誤
func DeleteSession(ctx context.Context, db database.DB, id string) error {
	_, err := db.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1`,
		id,
	)
	if err != nil {
		return wrap("DeleteSession", err)
	}
	return nil
}
