package store

import (
	"context"

	"starter-auth/internal/database"
	"starter-auth/internal/model"
)

// Postgres 把上面的查詢函式綁在注入的連線池上
type Postgres struct {
	db database.DB
}

var (
	_ Users    = (*Postgres)(nil)
	_ Sessions = (*Postgres)(nil)
)

func NewPostgres(db database.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return GetUserByID(ctx, p.db, id)
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return GetUserByEmail(ctx, p.db, email)
}

func (p *Postgres) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	return CreateUser(ctx, p.db, u)
}

func (p *Postgres) LinkProviderID(ctx context.Context, userID, providerID string) (*model.User, error) {
	return LinkProviderID(ctx, p.db, userID, providerID)
}

func (p *Postgres) CreateSession(ctx context.Context, s *model.Session) error {
	return CreateSession(ctx, p.db, s)
}

func (p *Postgres) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return GetSession(ctx, p.db, id)
}

func (p *Postgres) DeleteSession(ctx context.Context, id string) error {
	return DeleteSession(ctx, p.db, id)
}
