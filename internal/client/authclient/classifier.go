package authclient

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// OutcomeKind tags a classified response.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeBusinessError
	OutcomeAuthExpired
	OutcomeAuthForbidden
	OutcomeServerError
	OutcomeNetworkError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeBusinessError:
		return "business_error"
	case OutcomeAuthExpired:
		return "auth_expired"
	case OutcomeAuthForbidden:
		return "auth_forbidden"
	case OutcomeServerError:
		return "server_error"
	case OutcomeNetworkError:
		return "network_error"
	}
	return "unknown"
}

// Outcome is a response (or transport failure) mapped onto what the client
// has to do next. It is consumed immediately and never stored.
type Outcome struct {
	Kind    OutcomeKind
	Status  int
	Code    int
	Message string
	Data    json.RawMessage
	Body    []byte
	Err     error
}

// Envelope is the business wrapper {code, data, msg} used by the backend.
type Envelope struct {
	Code *int            `json:"code"`
	Data json.RawMessage `json:"data,omitempty"`
	Msg  string          `json:"msg,omitempty"`
}

const (
	msgNetwork        = "network request failed"
	msgAuthExpired    = "access token expired"
	msgSessionInvalid = "session expired, please log in again"
	msgNoPermission   = "insufficient permissions"
	msgServer         = "server error"
	msgUnknown        = "unknown error"
	msgRefreshFailed  = "token refresh failed, please log in again"
)

// Classify maps a transport result onto an Outcome.
//
// HTTP 401 means the access token expired and is the only signal that leads
// to a refresh. An envelope code 401 is a permission denial and is reported as
// a business error. HTTP 403 and envelope code 403 both end the session.
// The envelope is only interpreted on 2xx responses: any other status is a
// failure whatever the body says, and only its msg is kept.
func Classify(resp *Response, err error) Outcome {
	if err != nil || resp == nil {
		return Outcome{Kind: OutcomeNetworkError, Message: msgNetwork, Err: err}
	}

	switch resp.Status {
	case http.StatusUnauthorized:
		return Outcome{Kind: OutcomeAuthExpired, Status: resp.Status, Message: msgAuthExpired, Body: resp.Body}
	case http.StatusForbidden:
		return Outcome{Kind: OutcomeAuthForbidden, Status: resp.Status, Message: msgSessionInvalid, Body: resp.Body}
	}

	env, hasEnvelope := DecodeEnvelope(resp.Body)

	if !isSuccessStatus(resp.Status) {
		o := Outcome{Kind: OutcomeBusinessError, Status: resp.Status, Code: resp.Status, Body: resp.Body}
		fallback := msgUnknown
		if resp.Status >= 500 {
			o.Kind = OutcomeServerError
			fallback = msgServer
		}
		o.Message = statusMessage(resp.Status, fallback)
		if hasEnvelope && env.Msg != "" {
			o.Message = env.Msg
		}
		return o
	}

	if !hasEnvelope {
		return Outcome{Kind: OutcomeSuccess, Status: resp.Status, Data: json.RawMessage(resp.Body), Body: resp.Body}
	}

	o := Outcome{Status: resp.Status, Code: *env.Code, Message: env.Msg, Data: env.Data, Body: resp.Body}
	switch *env.Code {
	case common.CodeOK:
		o.Kind = OutcomeSuccess
	case common.CodeUnauthorized:
		o.Kind = OutcomeBusinessError
		o.Message = orDefault(env.Msg, msgNoPermission)
	case common.CodeForbidden:
		o.Kind = OutcomeAuthForbidden
		o.Message = orDefault(env.Msg, msgSessionInvalid)
	case common.CodeInternal:
		o.Kind = OutcomeServerError
		o.Message = orDefault(env.Msg, msgServer)
	default:
		o.Kind = OutcomeBusinessError
		o.Message = orDefault(env.Msg, msgUnknown)
	}
	return o
}

func isSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// DecodeEnvelope parses body as an Envelope. It reports false unless body is a
// JSON object carrying a code member.
func DecodeEnvelope(body []byte) (Envelope, bool) {
	var env Envelope
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, false
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Code == nil {
		return env, false
	}
	return env, true
}

func statusMessage(status int, fallback string) string {
	return orDefault(http.StatusText(status), fallback)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
