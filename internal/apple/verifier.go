package apple

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
)

// SignatureVerifier 檢查 identity token 的簽章
type SignatureVerifier interface {
	Verify(ctx context.Context, token string) error
}

// AcceptAll 不做簽章驗證，只依 claims 判斷
type AcceptAll struct{}

func (AcceptAll) Verify(context.Context, string) error { return nil }

// JWKSVerifier 以 Apple 公開的 JWKS 驗證簽章，金鑰由 go-oidc 快取並在 kid 不符時重新抓取
type JWKSVerifier struct {
	keys *oidc.RemoteKeySet
}

// NewJWKSVerifier ctx 用於之後抓取金鑰的 HTTP 請求
func NewJWKSVerifier(ctx context.Context, keysURL string) *JWKSVerifier {
	return &JWKSVerifier{keys: oidc.NewRemoteKeySet(ctx, keysURL)}
}

func (v *JWKSVerifier) Verify(ctx context.Context, token string) error {
	_, err := v.keys.VerifySignature(ctx, token)
	return err
}
