// Package transport sends authclient requests over HTTP and performs the
// refresh exchange against the token endpoint.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/authclient"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/netx"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
)

// HTTPTransport implements authclient.Transport on a pooled net/http client.
type HTTPTransport struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// Option customizes an HTTPTransport.
type Option func(*HTTPTransport)

// WithHTTPClient replaces the pooled client, e.g. with an httptest server's.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransport) { t.client = c }
}

// NewHTTPTransport resolves request paths against baseURL. A positive
// timeout bounds every exchange.
func NewHTTPTransport(baseURL string, timeout time.Duration, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		client:  cleanhttp.DefaultPooledClient(),
		baseURL: baseURL,
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send performs req. Any HTTP status is a response; only failures to get
// one are errors.
func (t *HTTPTransport) Send(ctx context.Context, req *authclient.Request) (*authclient.Response, error) {
	target, err := netx.ResolveURL(t.baseURL, req.URL, req.Query)
	if err != nil {
		return nil, err
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var body *bytes.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := newRequest(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get(common.RequestIDHeaderName) == "" {
		httpReq.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, target, err)
	}
	data, err := netx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	return &authclient.Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func newRequest(ctx context.Context, method, target string, body *bytes.Reader) (*http.Request, error) {
	// A typed nil reader must not reach http.NewRequest as a non-nil io.Reader.
	if body == nil {
		return http.NewRequestWithContext(ctx, method, target, nil)
	}
	return http.NewRequestWithContext(ctx, method, target, body)
}
