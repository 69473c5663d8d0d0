package newsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an upstream failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindCredential
	KindAccessDenied
	KindRateLimit
	KindUpstreamInternal
	KindStatus
	KindNetwork
)

// Sentinels matched by errors.Is against *Error.
var (
	ErrCredential       = errors.New("invalid or expired API key")
	ErrAccessDenied     = errors.New("access denied, check API permissions")
	ErrRateLimited      = errors.New("rate limited, retry later")
	ErrUpstreamInternal = errors.New("news server internal error")
	ErrStatus           = errors.New("unexpected status")
	ErrNetwork          = errors.New("network error, check your connection")
)

// Error is the single error type returned by Client.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindCredential:
		return ErrCredential.Error()
	case KindAccessDenied:
		return ErrAccessDenied.Error()
	case KindRateLimit:
		return ErrRateLimited.Error()
	case KindUpstreamInternal:
		return ErrUpstreamInternal.Error()
	case KindStatus:
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
	case KindNetwork:
		return ErrNetwork.Error()
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrCredential:
		return e.Kind == KindCredential
	case ErrAccessDenied:
		return e.Kind == KindAccessDenied
	case ErrRateLimited:
		return e.Kind == KindRateLimit
	case ErrUpstreamInternal:
		return e.Kind == KindUpstreamInternal
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrNetwork:
		return e.Kind == KindNetwork
	}
	return false
}

// statusError maps a non-2xx response to an *Error.
func statusError(code int, body []byte) *Error {
	e := &Error{StatusCode: code, Body: bodyMessage(code, body)}
	switch code {
	case http.StatusUnauthorized:
		e.Kind = KindCredential
	case http.StatusForbidden:
		e.Kind = KindAccessDenied
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimit
	case http.StatusInternalServerError:
		e.Kind = KindUpstreamInternal
	default:
		e.Kind = KindStatus
	}
	return e
}

// bodyMessage prefers the message field of an upstream error payload.
func bodyMessage(code int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return http.StatusText(code)
	}
	return msg
}
