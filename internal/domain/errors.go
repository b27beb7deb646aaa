package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures raised while talking to the catalog service
type Kind int

const (
	KindService Kind = iota
	KindAuth
	KindAuthTimeout
	KindNetwork
	KindRateLimit
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindAuthTimeout:
		return "auth timeout"
	case KindNetwork:
		return "network"
	case KindRateLimit:
		return "rate limit"
	case KindNotFound:
		return "not found"
	default:
		return "service"
	}
}

// Sentinel errors for errors.Is matching against an *Error's kind
var (
	// ErrKinoPub matches every *Error
	ErrKinoPub = errors.New("kino.pub error")

	// ErrAuth indicates the user is not authenticated, a refresh failed,
	// or the device flow was rejected
	ErrAuth = errors.New("authentication failed")

	// ErrAuthTimeout indicates the device approval deadline passed
	ErrAuthTimeout = errors.New("device authorization timed out")

	// ErrNetwork indicates the service could not be reached
	ErrNetwork = errors.New("service is unreachable")

	// ErrRateLimited indicates the rate-limit retry budget was exhausted
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound indicates the requested item does not exist
	ErrNotFound = errors.New("item not found")

	// ErrService indicates any other non-2xx response
	ErrService = errors.New("unexpected service response")
)

// Plain sentinels for outcomes that are not service failures
var (
	ErrNoResults          = errors.New("no results found")
	ErrNoEpisodes         = errors.New("no episodes found")
	ErrNoBrowser          = errors.New("no browser found")
	ErrStoreNotConfigured = errors.New("database URL not set")
)

// Error is a typed failure carrying its kind, the operation, and
// the HTTP status when one was received.
type Error struct {
	Kind   Kind
	Op     string // e.g. "GET /items/search"
	Status int    // 0 when no response was received
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.sentinel().Error()
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinel, the family root, and ErrAuth for auth timeouts
func (e *Error) Is(target error) bool {
	switch target {
	case ErrKinoPub:
		return true
	case ErrAuth:
		return e.Kind == KindAuth || e.Kind == KindAuthTimeout
	case ErrService:
		return e.Kind == KindService || e.Kind == KindNotFound
	}
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindAuth:
		return ErrAuth
	case KindAuthTimeout:
		return ErrAuthTimeout
	case KindNetwork:
		return ErrNetwork
	case KindRateLimit:
		return ErrRateLimited
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrService
	}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func NewAuthError(msg string) *Error {
	return &Error{Kind: KindAuth, Msg: msg}
}

func NewNetworkError(op, msg string, cause error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Msg: msg, Err: cause}
}

func NewStatusError(kind Kind, op string, status int, msg string) *Error {
	return &Error{Kind: kind, Op: op, Status: status, Msg: msg}
}
