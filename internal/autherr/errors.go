// Package autherr 定義認證子系統的錯誤分類。
//
// 每個錯誤都帶有 Kind，handler 依 Kind 決定 HTTP 狀態碼；
// errors.Is 可直接比對下方的 sentinel。
package autherr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthentication
	KindConflict
	KindCSRF
	KindExternalService
	KindTokenValidation
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindConflict:
		return "conflict"
	case KindCSRF:
		return "csrf"
	case KindExternalService:
		return "external_service"
	case KindTokenValidation:
		return "token_validation"
	case KindConfiguration:
		return "configuration"
	}
	return "unknown"
}

// Token validation reasons.
const (
	ReasonInvalidIssuer    = "invalid_issuer"
	ReasonInvalidAudience  = "invalid_audience"
	ReasonTokenExpired     = "token_expired"
	ReasonInvalidSignature = "invalid_signature"
)

type Error struct {
	Kind    Kind
	Reason  string
	Message string
	// Body 保存外部服務回傳的原始內容 (僅 KindExternalService)
	Body string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String() + " error"
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on Reason when the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrAuthentication  = &Error{Kind: KindAuthentication}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrCSRF            = &Error{Kind: KindCSRF}
	ErrExternalService = &Error{Kind: KindExternalService}
	ErrTokenValidation = &Error{Kind: KindTokenValidation}
	ErrConfiguration   = &Error{Kind: KindConfiguration}

	ErrInvalidIssuer    = &Error{Kind: KindTokenValidation, Reason: ReasonInvalidIssuer}
	ErrInvalidAudience  = &Error{Kind: KindTokenValidation, Reason: ReasonInvalidAudience}
	ErrTokenExpired     = &Error{Kind: KindTokenValidation, Reason: ReasonTokenExpired}
	ErrInvalidSignature = &Error{Kind: KindTokenValidation, Reason: ReasonInvalidSignature}
)

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authentication(msg string) error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

func CSRF(msg string) error {
	return &Error{Kind: KindCSRF, Message: msg}
}

func ExternalService(msg, body string, err error) error {
	return &Error{Kind: KindExternalService, Message: msg, Body: body, Err: err}
}

func TokenValidation(reason, msg string) error {
	return &Error{Kind: KindTokenValidation, Reason: reason, Message: msg}
}

func Configuration(format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
