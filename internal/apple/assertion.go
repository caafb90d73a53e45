// Package apple 實作 Sign in with Apple：client assertion、授權網址、code 交換與 identity token 驗證。
package apple

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"strings"
	"time"

	"starter-auth/internal/autherr"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer 同時是 identity token 的 iss 與 client assertion 的 aud
	Issuer   = "https://appleid.apple.com"
	AuthURL  = Issuer + "/auth/authorize"
	TokenURL = Issuer + "/auth/token"
	KeysURL  = Issuer + "/auth/keys"

	// AssertionLifetime 是 Apple 允許的最長效期
	AssertionLifetime = 180 * 24 * time.Hour
)

// Credentials 為 Apple Developer 後台提供的憑證
type Credentials struct {
	TeamID     string
	ClientID   string
	KeyID      string
	PrivateKey string // PKCS#8 PEM
}

// AssertionSigner 產生 token endpoint 需要的 client_secret (ES256 JWT)
type AssertionSigner struct {
	creds Credentials
	now   func() time.Time
}

func NewAssertionSigner(creds Credentials) *AssertionSigner {
	return &AssertionSigner{creds: creds, now: time.Now}
}

// Sign 每次呼叫都產生新的 assertion
func (s *AssertionSigner) Sign() (string, error) {
	c := s.creds
	switch {
	case c.TeamID == "":
		return "", autherr.Configuration("apple team id is not configured")
	case c.ClientID == "":
		return "", autherr.Configuration("apple client id is not configured")
	case c.KeyID == "":
		return "", autherr.Configuration("apple key id is not configured")
	case c.PrivateKey == "":
		return "", autherr.Configuration("apple private key is not configured")
	}

	key, err := parsePrivateKey(c.PrivateKey)
	if err != nil {
		return "", err
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": c.TeamID,
		"iat": now.Unix(),
		"exp": now.Add(AssertionLifetime).Unix(),
		"aud": Issuer,
		"sub": c.ClientID,
	})
	token.Header["kid"] = c.KeyID

	signingString, err := token.SigningString()
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(signingString))
	der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return "", err
	}
	sig, err := DERToRaw(der)
	if err != nil {
		return "", err
	}
	return signingString + "." + token.EncodeSegment(sig), nil
}

// parsePrivateKey 接受完整 PEM、去掉換行的 PEM 或以字面 "\n" 串接的環境變數值
func parsePrivateKey(material string) (*ecdsa.PrivateKey, error) {
	material = strings.ReplaceAll(material, `\n`, "\n")
	var b strings.Builder
	for _, line := range strings.Split(material, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "-----") {
			continue
		}
		b.WriteString(strings.Join(strings.Fields(line), ""))
	}
	der, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return nil, autherr.Configuration("apple private key is not valid base64: %v", err)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, autherr.Configuration("apple private key is not PKCS#8: %v", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok || key.Curve != elliptic.P256() {
		return nil, autherr.Configuration("apple private key must be an ECDSA P-256 key")
	}
	return key, nil
}
