// Package store 負責 users / sessions 的持久化。
//
// Postgres 是正式環境的實作；Memory 提供相同語意 (唯一鍵、cascade) 給測試使用。
package store

import (
	"context"
	"errors"
	"fmt"

	"starter-auth/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// uniqueViolation 是 Postgres 的 unique_violation SQLSTATE
const uniqueViolation = "23505"

type Users interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	LinkProviderID(ctx context.Context, userID, providerID string) (*model.User, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// wrap 將 pgx 錯誤轉成 store 的 sentinel，並保留操作名稱
func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w: %s", op, ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
