package apple

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestKey 產生 P-256 金鑰與對應的 PKCS#8 PEM
func newTestKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func testCredentials(t *testing.T) (*ecdsa.PrivateKey, Credentials) {
	key, pemText := newTestKey(t)
	return key, Credentials{
		TeamID:     "TEAM123456",
		ClientID:   "com.example.web",
		KeyID:      "KEY1234567",
		PrivateKey: pemText,
	}
}
