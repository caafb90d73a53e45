package apple

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"starter-auth/internal/autherr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const DefaultExchangeTimeout = 10 * time.Second

type Config struct {
	Credentials
	// ExchangeTimeout 限制 token endpoint 呼叫時間，0 代表 DefaultExchangeTimeout
	ExchangeTimeout time.Duration
	// Verifier 為 nil 時使用 AcceptAll
	Verifier SignatureVerifier
}

// TokenResponse 是 token endpoint 回傳的內容
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	TokenType    string
	Expiry       time.Time
}

// IdentityClaims 是 Apple identity token 的 payload
type IdentityClaims struct {
	Email          string   `json:"email,omitempty"`
	EmailVerified  flexBool `json:"email_verified,omitempty"`
	IsPrivateEmail flexBool `json:"is_private_email,omitempty"`
	jwt.RegisteredClaims
}

// flexBool 接受 true 或 "true"，Apple 兩種格式都會送
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = flexBool(v)
	return nil
}

// Client 與 Apple 授權伺服器互動
type Client struct {
	clientID   string
	signer     *AssertionSigner
	oauth      oauth2.Config
	httpClient *http.Client
	verifier   SignatureVerifier
	now        func() time.Time
}

func NewClient(cfg Config) *Client {
	timeout := cfg.ExchangeTimeout
	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}
	verifier := cfg.Verifier
	if verifier == nil {
		verifier = AcceptAll{}
	}
	return &Client{
		clientID: cfg.ClientID,
		signer:   NewAssertionSigner(cfg.Credentials),
		oauth: oauth2.Config{
			ClientID: cfg.ClientID,
			Scopes:   []string{"name", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   AuthURL,
				TokenURL:  TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: timeout},
		verifier:   verifier,
		now:        time.Now,
	}
}

// AuthorizationURL 組出授權網址，回應以 form_post 送回 redirectURI
func (c *Client) AuthorizationURL(redirectURI, state string) string {
	cfg := c.oauth // copy
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "form_post"))
}

// ExchangeCode 以 authorization code 換取 token，只嘗試一次
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	secret, err := c.signer.Sign()
	if err != nil {
		return nil, err
	}
	cfg := c.oauth // copy
	cfg.ClientSecret = secret
	cfg.RedirectURL = redirectURI

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, autherr.ExternalService("apple token exchange failed", string(re.Body), err)
		}
		return nil, autherr.ExternalService("apple token exchange failed", "", err)
	}

	resp := &TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if id, ok := tok.Extra("id_token").(string); ok {
		resp.IDToken = id
	}
	return resp, nil
}

// DecodeIdentityToken 解析 identity token 並檢查 iss、aud、exp
// 簽章是否驗證取決於 Verifier
func (c *Client) DecodeIdentityToken(ctx context.Context, token string) (*IdentityClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, autherr.Validation("identity token must have 3 segments")
	}
	if err := c.verifier.Verify(ctx, token); err != nil {
		return nil, &autherr.Error{
			Kind:    autherr.KindTokenValidation,
			Reason:  autherr.ReasonInvalidSignature,
			Message: "identity token signature rejected",
			Err:     err,
		}
	}

	// 只解碼 payload，header 的 alg 交由 Verifier 判斷
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, autherr.Validation("identity token payload is not base64url: %v", err)
	}
	claims := &IdentityClaims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		return nil, autherr.Validation("identity token payload is malformed: %v", err)
	}

	if claims.Issuer != Issuer {
		return nil, autherr.TokenValidation(autherr.ReasonInvalidIssuer, "unexpected issuer "+strconv.Quote(claims.Issuer))
	}
	if !slices.Contains(claims.Audience, c.clientID) {
		return nil, autherr.TokenValidation(autherr.ReasonInvalidAudience, "audience does not match client id")
	}
	if claims.ExpiresAt == nil || !c.now().Before(claims.ExpiresAt.Time) {
		return nil, autherr.TokenValidation(autherr.ReasonTokenExpired, "identity token has expired")
	}
	return claims, nil
}

// MarshalJSON 讓 flexBool 輸出為一般布林值
func (b flexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
