package resource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// Kind 는 store 동작이 보고하는 에러 분류다.
type Kind string

const (
	KindNetwork    Kind = "NetworkError"
	KindNotFound   Kind = "NotFound"
	KindValidation Kind = "ValidationError"
	KindServer     Kind = "ServerError"
	KindAuth       Kind = "AuthError"
)

// errors.Is 로 *Error 를 비교할 때 쓰는 센티넬.
var (
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrValidation = &Error{Kind: KindValidation}
	ErrServer     = &Error{Kind: KindServer}
	ErrAuth       = &Error{Kind: KindAuth}
)

// StatusError 는 HTTP 상태 코드를 가진 전송 에러가 구현한다.
type StatusError interface {
	error
	HTTPStatus() int
	ResponseBody() string
}

// Error 는 리소스 동작 하나의 분류된 실패다.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is 는 Kind 로 비교하므로 op 와 상관없이 errors.Is(err, resource.ErrNotFound) 가 동작한다.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindForStatus 는 2xx 가 아닌 HTTP 상태 코드를 Kind 로 바꾼다.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

// Classify 는 전송/클라이언트 에러를 op 의 *Error 로 바꾼다.
// 이미 *Error 이면 Kind 는 유지하고, op 가 비어 있을 때만 채운다.
func Classify(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var re *Error
	if errors.As(err, &re) {
		if re.Op == "" {
			cp := *re
			cp.Op = op
			return &cp
		}
		return re
	}

	var se StatusError
	if errors.As(err, &se) {
		kind := KindForStatus(se.HTTPStatus())
		return &Error{
			Kind:    kind,
			Op:      op,
			Status:  se.HTTPStatus(),
			Message: humanMessage(op, kind, se.ResponseBody()),
			Err:     err,
		}
	}

	// 응답을 받지 못한 경우 (연결 실패, 타임아웃, context 취소)
	var netErr net.Error
	var urlErr *url.Error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return &Error{Kind: KindNetwork, Op: op, Message: humanMessage(op, KindNetwork, ""), Err: err}
	}

	// 나머지(디코딩 실패 등)는 쓸 수 없는 응답으로 본다.
	return &Error{Kind: KindServer, Op: op, Message: humanMessage(op, KindServer, err.Error()), Err: err}
}

// Validation 은 네트워크까지 가지 않은 ValidationError 를 만든다.
func Validation(op string, err error) *Error {
	msg := err.Error()
	if op != "" {
		msg = fmt.Sprintf("%s: %s", op, msg)
	}
	return &Error{Kind: KindValidation, Op: op, Message: msg, Err: err}
}

func humanMessage(op string, kind Kind, detail string) string {
	var base string
	switch kind {
	case KindNetwork:
		base = "could not reach the server"
	case KindNotFound:
		base = "not found"
	case KindValidation:
		base = "request was rejected"
	case KindAuth:
		base = "not authorized"
	default:
		base = "server error"
	}
	msg := fmt.Sprintf("%s: %s", op, base)
	if detail != "" {
		msg += ": " + detail
	}
	return msg
}
