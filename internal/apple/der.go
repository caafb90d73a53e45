package apple

import (
	"errors"
	"fmt"
)

const (
	rawSignatureLen = 64
	intLen          = 32
	tagInteger      = 0x02
)

var ErrMalformedSignature = errors.New("malformed ECDSA signature")

// DERToRaw 將 ASN.1 DER 編碼的 ECDSA 簽章 (SEQUENCE{r, s}) 轉成 JWS 使用的 r||s (各 32 bytes)
// 已經是 64 bytes 的輸入視為 raw 格式，原樣回傳
func DERToRaw(sig []byte) ([]byte, error) {
	if len(sig) == rawSignatureLen {
		return sig, nil
	}
	out := make([]byte, rawSignatureLen)
	// 跳過 SEQUENCE tag 與長度
	off := 2
	for i := 0; i < 2; i++ {
		if len(sig) < off+2 {
			return nil, fmt.Errorf("%w: truncated", ErrMalformedSignature)
		}
		if sig[off] != tagInteger {
			return nil, fmt.Errorf("%w: expected INTEGER tag, got %#x", ErrMalformedSignature, sig[off])
		}
		n := int(sig[off+1])
		off += 2
		if len(sig) < off+n {
			return nil, fmt.Errorf("%w: truncated", ErrMalformedSignature)
		}
		v := sig[off : off+n]
		off += n
		// 去掉正數的 sign padding
		if n == intLen+1 && v[0] == 0x00 {
			v = v[1:]
		}
		if len(v) > intLen {
			return nil, fmt.Errorf("%w: integer too long", ErrMalformedSignature)
		}
		end := (i + 1) * intLen
		copy(out[end-len(v):end], v)
	}
	return out, nil
}
