package authclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failure surfaced by Client.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindAuthExpired
	KindAuthForbidden
	KindBusiness
	KindServer
	KindRefreshFailed
)

var (
	ErrNetwork       = errors.New("network error")
	ErrAuthExpired   = errors.New("access token expired")
	ErrAuthForbidden = errors.New("session is no longer valid")
	ErrBusiness      = errors.New("request rejected")
	ErrServer        = errors.New("server error")
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrNoRefreshToken is wrapped by refresh failures caused by an empty store.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrSessionEnded is wrapped by refresh failures whose session was logged
	// out or replaced while the exchange was in flight.
	ErrSessionEnded = errors.New("session ended during refresh")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindAuthExpired:
		return ErrAuthExpired
	case KindAuthForbidden:
		return ErrAuthForbidden
	case KindBusiness:
		return ErrBusiness
	case KindServer:
		return ErrServer
	case KindRefreshFailed:
		return ErrRefreshFailed
	}
	return nil
}

// String returns the name of the kind.
func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ClientError is the failure returned by Client and Coordinator.
//
// errors.Is matches the sentinel of its Kind (ErrRefreshFailed, ErrBusiness,
// ...) as well as the wrapped cause.
type ClientError struct {
	Kind    Kind
	Status  int
	Code    int
	Message string
	// ReturnPath is set when the failure terminated the session.
	ReturnPath string
	Err        error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ClientError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's Kind.
func (e *ClientError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// ForcedLogout reports whether this failure ended the session.
func (e *ClientError) ForcedLogout() bool {
	return e.Kind == KindAuthForbidden || e.Kind == KindRefreshFailed
}

func outcomeError(o Outcome) *ClientError {
	e := &ClientError{Status: o.Status, Code: o.Code, Message: o.Message, Err: o.Err}
	switch o.Kind {
	case OutcomeNetworkError:
		e.Kind = KindNetwork
	case OutcomeAuthExpired:
		e.Kind = KindAuthExpired
	case OutcomeAuthForbidden:
		e.Kind = KindAuthForbidden
	case OutcomeServerError:
		e.Kind = KindServer
	default:
		e.Kind = KindBusiness
	}
	return e
}

func refreshFailed(err error) *ClientError {
	var ce *ClientError
	if errors.As(err, &ce) && ce.Kind == KindRefreshFailed {
		return ce
	}
	return &ClientError{Kind: KindRefreshFailed, Message: msgRefreshFailed, Err: err}
}
