package pkg

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindForbidden
	KindConflict
)

// AppError 业务错误，Kind 决定 HTTP 状态码
type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

func ValidationError(msg string) error { return &AppError{Kind: KindValidation, Msg: msg} }
func NotFoundError(msg string) error   { return &AppError{Kind: KindNotFound, Msg: msg} }
func AuthError(msg string) error       { return &AppError{Kind: KindAuth, Msg: msg} }
func ForbiddenError(msg string) error  { return &AppError{Kind: KindForbidden, Msg: msg} }
func ConflictError(msg string) error   { return &AppError{Kind: KindConflict, Msg: msg} }

// InternalError 包装底层错误，对外只暴露通用信息
func InternalError(err error) error {
	return &AppError{Kind: KindInternal, Msg: "internal server error", Err: err}
}

// KindOf 未识别的错误一律视为内部错误
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func HTTPStatus(k Kind) int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
