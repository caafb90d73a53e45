// File: internal/store/user.go
package store

import (
	"context"

	"starter-auth/internal/database"
	"starter-auth/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_digest, name, provider_id, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var digest, providerID *string
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&digest,
		&u.Name,
		&providerID,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	auth, err := model.AuthMethodFrom(digest, providerID)
	if err != nil {
		return nil, err
	}
	u.Auth = auth
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrap("GetUserByID", err)
	}
	return u, nil
}

// GetUserByEmail 以已正規化 (小寫、去空白) 的 email 查詢
func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrap("GetUserByEmail", err)
	}
	return u, nil
}

// CreateUser 新增使用者；ID 為空時產生 UUID
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	digest, providerID, err := u.Columns()
	if err != nil {
		return nil, wrap("CreateUser", err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := db.QueryRow(ctx,
		`INSERT INTO users (id, email, password_digest, name, provider_id, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		u.ID,
		u.Email,
		digest,
		u.Name,
		providerID,
		u.IsAdmin,
	)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, wrap("CreateUser", err)
	}
	return u, nil
}

// LinkProviderID 只在 provider_id 尚未設定時寫入，否則回傳 ErrNotFound
func LinkProviderID(ctx context.Context, db database.DB, userID, providerID string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`UPDATE users
		 SET provider_id = $1, updated_at = NOW()
		 WHERE id = $2 AND provider_id IS NULL
		 RETURNING `+userColumns,
		providerID,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, wrap("LinkProviderID", err)
	}
	return u, nil
}
