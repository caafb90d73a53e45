// File: internal/model/user.go
package model

import (
	"errors"
	"time"
)

// ErrNoAuthMethod 使用者至少需要密碼或外部帳號其中之一
var ErrNoAuthMethod = errors.New("user has no authentication method")

// AuthMethod 描述使用者的登入方式，只有下列三種實作
type AuthMethod interface {
	authMethod()
}

// Credentialed 只有密碼
type Credentialed struct {
	PasswordDigest string
}

// ExternallyLinked 只透過外部提供者 (Apple) 登入
type ExternallyLinked struct {
	ProviderID string
}

// Both 同時擁有密碼與外部帳號
type Both struct {
	PasswordDigest string
	ProviderID     string
}

func (Credentialed) authMethod()     {}
func (ExternallyLinked) authMethod() {}
func (Both) authMethod()             {}

// AuthMethodFrom 由資料表的兩個可為 NULL 欄位組出 AuthMethod
func AuthMethodFrom(passwordDigest, providerID *string) (AuthMethod, error) {
	hasDigest := passwordDigest != nil && *passwordDigest != ""
	hasProvider := providerID != nil && *providerID != ""
	switch {
	case hasDigest && hasProvider:
		return Both{PasswordDigest: *passwordDigest, ProviderID: *providerID}, nil
	case hasDigest:
		return Credentialed{PasswordDigest: *passwordDigest}, nil
	case hasProvider:
		return ExternallyLinked{ProviderID: *providerID}, nil
	}
	return nil, ErrNoAuthMethod
}

// LinkProvider 回傳加上 providerID 之後的登入方式；已有 providerID 時維持原狀
func LinkProvider(m AuthMethod, providerID string) AuthMethod {
	switch v := m.(type) {
	case Credentialed:
		return Both{PasswordDigest: v.PasswordDigest, ProviderID: providerID}
	case nil:
		return ExternallyLinked{ProviderID: providerID}
	}
	return m
}

type User struct {
	ID        string     `db:"id" json:"id"`
	Email     string     `db:"email" json:"email"`
	Name      *string    `db:"name" json:"name"`
	IsAdmin   bool       `db:"is_admin" json:"is_admin"`
	Auth      AuthMethod `db:"-" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// PasswordDigest 回傳儲存的密碼摘要，OAuth-only 帳號回傳 false
func (u *User) PasswordDigest() (string, bool) {
	switch v := u.Auth.(type) {
	case Credentialed:
		return v.PasswordDigest, true
	case Both:
		return v.PasswordDigest, true
	}
	return "", false
}

// ProviderID 回傳外部提供者的 subject id
func (u *User) ProviderID() (string, bool) {
	switch v := u.Auth.(type) {
	case ExternallyLinked:
		return v.ProviderID, true
	case Both:
		return v.ProviderID, true
	}
	return "", false
}

// Columns 將 AuthMethod 拆回資料表欄位
func (u *User) Columns() (passwordDigest, providerID *string, err error) {
	if u.Auth == nil {
		return nil, nil, ErrNoAuthMethod
	}
	if d, ok := u.PasswordDigest(); ok {
		passwordDigest = &d
	}
	if p, ok := u.ProviderID(); ok {
		providerID = &p
	}
	return passwordDigest, providerID, nil
}
