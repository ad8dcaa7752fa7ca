package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Request describes a single outgoing HTTP exchange. URL is either absolute or
// a path the Transport resolves against its base URL.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
	Query  url.Values
}

// Clone returns a deep copy so that header mutations never leak into the
// caller's request or into a concurrent replay.
func (r *Request) Clone() *Request {
	c := &Request{Method: r.Method, URL: r.URL}
	if r.Header != nil {
		c.Header = make(map[string]string, len(r.Header))
		for k, v := range r.Header {
			c.Header[k] = v
		}
	}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	if r.Query != nil {
		c.Query = make(url.Values, len(r.Query))
		for k, v := range r.Query {
			c.Query[k] = append([]string(nil), v...)
		}
	}
	return c
}

// Path returns the path component of URL, or URL itself when it cannot be parsed.
func (r *Request) Path() string {
	u, err := url.Parse(r.URL)
	if err != nil || u.Path == "" {
		return r.URL
	}
	return u.Path
}

// Response is what came back from the server.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport performs one HTTP exchange. A non-nil error means that no
// response reached the client.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// RequestAttempt pairs a request with its auth-retry state. It is a value:
// Retry returns a new attempt rather than mutating the receiver.
type RequestAttempt struct {
	Request *Request
	// Token is the access token the request was sent with, empty when none.
	Token   string
	Retried bool
}

// NewAttempt wraps req as a first attempt.
func NewAttempt(req *Request) RequestAttempt {
	return RequestAttempt{Request: req}
}

// Retry returns the attempt used for the single replay after a refresh.
func (a RequestAttempt) Retry() RequestAttempt {
	a.Retried = true
	return a
}

// Result is the payload handed back to callers on success.
type Result struct {
	Status  int
	Code    int
	Message string
	// Data is the envelope's data member, or the raw body when the response
	// carried no envelope.
	Data json.RawMessage
	Body []byte
}

// Decode unmarshals Data into v.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}
