// File: internal/service/auth.go
package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"starter-auth/internal/apple"
	"starter-auth/internal/autherr"
	"starter-auth/internal/model"
	"starter-auth/internal/store"

	"go.uber.org/zap"
)

const (
	// CallbackPath 是 Apple form_post 回呼的路徑
	CallbackPath = "/api/auth/apple/callback"
	// StateTTL 是 CSRF state 的有效時間，與 state cookie 的 max-age 一致
	StateTTL    = 10 * time.Minute
	stateLength = 32
)

// ExternalSignin 是 Apple 授權伺服器的介面，由 *apple.Client 實作
type ExternalSignin interface {
	AuthorizationURL(redirectURI, state string) string
	ExchangeCode(ctx context.Context, code, redirectURI string) (*apple.TokenResponse, error)
	DecodeIdentityToken(ctx context.Context, token string) (*apple.IdentityClaims, error)
}

// StateStore 記錄已發出的 CSRF state，由 *cache.StateStore 實作
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

type AuthDeps struct {
	Users    store.Users
	Hasher   *PasswordHasher
	Sessions *SessionManager
	External ExternalSignin
	// States 為 nil 時只比對 cookie 與表單的 state
	States        StateStore
	PublicBaseURL string
	Logger        *zap.Logger
}

// AuthService 串接密碼、session 與 Apple 登入流程，handler 只呼叫這一層
type AuthService struct {
	users    store.Users
	hasher   *PasswordHasher
	sessions *SessionManager
	external ExternalSignin
	states   StateStore
	baseURL  string
	log      *zap.Logger
}

func NewAuthService(d AuthDeps) *AuthService {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:    d.Users,
		hasher:   d.Hasher,
		sessions: d.Sessions,
		external: d.External,
		states:   d.States,
		baseURL:  strings.TrimRight(d.PublicBaseURL, "/"),
		log:      log,
	}
}

// Authenticated 是登入成功的結果，SessionID 交由 transport 寫入 cookie
type Authenticated struct {
	User      *model.User
	SessionID string
}

// ExternalCallback 是 Apple 回呼帶回的資料
type ExternalCallback struct {
	Code  string
	State string
	// StoredState 來自 state cookie
	StoredState string
	// User 只在第一次授權時出現，內含姓名 JSON
	User string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup 建立密碼帳號，email 已存在時回傳 ConflictError
func (s *AuthService) Signup(ctx context.Context, email, password string, name *string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, autherr.Validation("email is required")
	}
	if password == "" {
		return nil, autherr.Validation("password is required")
	}
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, autherr.Conflict("email already registered")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("Signup: %w", err)
	}

	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("Signup: %w", err)
	}
	u, err := s.users.CreateUser(ctx, &model.User{
		Email: email,
		Name:  name,
		Auth:  model.Credentialed{PasswordDigest: digest},
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, autherr.Conflict("email already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("Signup: %w", err)
	}
	return u, nil
}

// VerifyCredentials 驗證 email 與密碼，任何失敗都回傳 nil 而不區分原因
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		// 帳號不存在時仍跑一次 PBKDF2，回應時間不洩漏帳號是否存在
		s.hasher.Verify(ctx, password, dummyDigest)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("VerifyCredentials: %w", err)
	}
	digest, ok := u.PasswordDigest()
	if !ok {
		s.hasher.Verify(ctx, password, dummyDigest)
		return nil, nil
	}
	if !s.hasher.Verify(ctx, password, digest) {
		return nil, nil
	}
	return u, nil
}

// FindOrCreateOAuthUser 依 email 找出使用者並在需要時綁定 providerID；找不到則建立外部帳號
func (s *AuthService) FindOrCreateOAuthUser(ctx context.Context, email string, name, providerID *string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, autherr.Validation("email is required")
	}
	hasProvider := providerID != nil && *providerID != ""

	u, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return s.linkProvider(ctx, u, providerID)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("FindOrCreateOAuthUser: %w", err)
	}

	if !hasProvider {
		return nil, autherr.Validation("provider id is required to create an external account")
	}
	created, err := s.users.CreateUser(ctx, &model.User{
		Email: email,
		Name:  name,
		Auth:  model.ExternallyLinked{ProviderID: *providerID},
	})
	if errors.Is(err, store.ErrDuplicate) {
		// 同一個 email 的另一個請求搶先建立
		u, err = s.users.GetUserByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			return nil, autherr.Conflict("provider account is linked to another user")
		}
		if err != nil {
			return nil, fmt.Errorf("FindOrCreateOAuthUser: %w", err)
		}
		return s.linkProvider(ctx, u, providerID)
	}
	if err != nil {
		return nil, fmt.Errorf("FindOrCreateOAuthUser: %w", err)
	}
	s.log.Info("created external account", zap.String("user_id", created.ID))
	return created, nil
}

func (s *AuthService) linkProvider(ctx context.Context, u *model.User, providerID *string) (*model.User, error) {
	if providerID == nil || *providerID == "" {
		return u, nil
	}
	if _, linked := u.ProviderID(); linked {
		return u, nil
	}
	linked, err := s.users.LinkProviderID(ctx, u.ID, *providerID)
	switch {
	case err == nil:
		s.log.Info("linked external account", zap.String("user_id", u.ID))
		return linked, nil
	case errors.Is(err, store.ErrNotFound):
		// 已被其他請求綁定
		u, err = s.users.GetUserByID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("FindOrCreateOAuthUser: %w", err)
		}
		return u, nil
	case errors.Is(err, store.ErrDuplicate):
		return nil, autherr.Conflict("provider account is linked to another user")
	}
	return nil, fmt.Errorf("FindOrCreateOAuthUser: %w", err)
}

// Register 註冊並建立 session
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (*Authenticated, error) {
	u, err := s.Signup(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, u)
}

// Login 驗證密碼並建立 session，失敗一律回傳相同的 AuthenticationError
func (s *AuthService) Login(ctx context.Context, email, password string) (*Authenticated, error) {
	u, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, autherr.Authentication("invalid email or password")
	}
	return s.startSession(ctx, u)
}

// Logout 撤銷 session，沒有 session 時直接成功
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, sessionID)
}

// CurrentUser 回傳 session 的擁有者
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	u, err := s.sessions.Validate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, autherr.Authentication("not authenticated")
	}
	return u, nil
}

func (s *AuthService) redirectURI() string {
	return s.baseURL + CallbackPath
}

// BeginExternalSignin 產生 CSRF state 並回傳 Apple 授權網址
func (s *AuthService) BeginExternalSignin(ctx context.Context) (authURL, state string, err error) {
	state, err = randomToken(stateLength)
	if err != nil {
		return "", "", fmt.Errorf("BeginExternalSignin: %w", err)
	}
	if s.states != nil {
		if err := s.states.Save(ctx, state, StateTTL); err != nil {
			return "", "", fmt.Errorf("BeginExternalSignin: %w", err)
		}
	}
	return s.external.AuthorizationURL(s.redirectURI(), state), state, nil
}

// CompleteExternalSignin 處理 Apple 回呼：state 檢查、code 交換、token 驗證、帳號與 session
func (s *AuthService) CompleteExternalSignin(ctx context.Context, cb ExternalCallback) (*Authenticated, error) {
	if cb.State == "" || cb.StoredState == "" ||
		subtle.ConstantTimeCompare([]byte(cb.State), []byte(cb.StoredState)) != 1 {
		return nil, autherr.CSRF("state mismatch")
	}
	if s.states != nil {
		ok, err := s.states.Consume(ctx, cb.State)
		if err != nil {
			return nil, fmt.Errorf("CompleteExternalSignin: %w", err)
		}
		if !ok {
			return nil, autherr.CSRF("state expired or already used")
		}
	}
	if cb.Code == "" {
		return nil, autherr.Validation("authorization code is required")
	}

	tokens, err := s.external.ExchangeCode(ctx, cb.Code, s.redirectURI())
	if err != nil {
		s.log.Warn("apple token exchange failed", zap.Error(err))
		return nil, err
	}
	// 只信任 code 交換取得的 id_token，表單上的 id_token 不採用
	if tokens.IDToken == "" {
		return nil, autherr.ExternalService("token response has no id_token", "", nil)
	}
	claims, err := s.external.DecodeIdentityToken(ctx, tokens.IDToken)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, autherr.Validation("email claim is required")
	}

	var providerID *string
	if claims.Subject != "" {
		sub := claims.Subject
		providerID = &sub
	}
	u, err := s.FindOrCreateOAuthUser(ctx, claims.Email, s.profileName(cb.User), providerID)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, u)
}

func (s *AuthService) startSession(ctx context.Context, u *model.User) (*Authenticated, error) {
	sid, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Authenticated{User: u, SessionID: sid}, nil
}

// profileName 解析第一次授權時的 user 欄位；格式錯誤視為沒有提供姓名
func (s *AuthService) profileName(raw string) *string {
	if raw == "" {
		return nil
	}
	var p struct {
		Name struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Debug("ignoring unparsable apple profile", zap.Error(err))
		return nil
	}
	parts := make([]string, 0, 2)
	for _, v := range []string{p.Name.FirstName, p.Name.LastName} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	name := strings.Join(parts, " ")
	return &name
}
