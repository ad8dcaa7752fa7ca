package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// Client is the authenticated HTTP facade. It is safe for concurrent use;
// all clients sharing a CredentialStore should share one Coordinator.
type Client struct {
	transport     Transport
	authenticator *Authenticator
	coordinator   *Coordinator
	terminator    *Terminator
	refreshPath   string
	logger        logging.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRefreshPath sets the path of the refresh endpoint. Requests to it are
// never answered with a nested refresh.
func WithRefreshPath(path string) Option {
	return func(c *Client) { c.refreshPath = path }
}

// DefaultRefreshPath is the refresh endpoint used unless WithRefreshPath is given.
const DefaultRefreshPath = "/auth/refresh"

// New assembles a Client.
func New(transport Transport, store CredentialStore, coordinator *Coordinator, terminator *Terminator, opts ...Option) *Client {
	c := &Client{
		transport:     transport,
		authenticator: NewAuthenticator(store),
		coordinator:   coordinator,
		terminator:    terminator,
		refreshPath:   DefaultRefreshPath,
		logger:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Coordinator returns the coordinator used by c.
func (c *Client) Coordinator() *Coordinator { return c.coordinator }

// Do sends req, renewing the access token and replaying req once if the
// server reports it expired. Failures are *ClientError values.
func (c *Client) Do(ctx context.Context, req *Request) (*Result, error) {
	attempt, authed, err := c.authenticator.Prepare(ctx, req)
	if err != nil {
		return nil, &ClientError{Kind: KindNetwork, Message: "cannot read credentials", Err: err}
	}
	return c.handle(ctx, attempt, c.send(ctx, authed))
}

// Get issues a GET with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Result, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: path, Query: query})
}

// Post issues a POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (*Result, error) {
	req, err := jsonRequest(http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Put issues a PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) (*Result, error) {
	req, err := jsonRequest(http.MethodPut, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Delete issues a DELETE; body may be nil.
func (c *Client) Delete(ctx context.Context, path string, body any) (*Result, error) {
	req, err := jsonRequest(http.MethodDelete, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

func (c *Client) send(ctx context.Context, req *Request) Outcome {
	resp, err := c.transport.Send(ctx, req)
	return Classify(resp, err)
}

func (c *Client) handle(ctx context.Context, attempt RequestAttempt, o Outcome) (*Result, error) {
	switch o.Kind {
	case OutcomeSuccess:
		return &Result{Status: o.Status, Code: o.Code, Message: o.Message, Data: o.Data, Body: o.Body}, nil

	case OutcomeAuthExpired:
		if attempt.Retried {
			return nil, outcomeError(o)
		}
		if c.isRefreshRequest(attempt.Request) {
			path := c.logout(ctx, attempt)
			return nil, &ClientError{Kind: KindRefreshFailed, Status: o.Status, Message: msgRefreshFailed, ReturnPath: path, Err: outcomeError(o)}
		}

		token, err := c.coordinator.OnAuthExpired(ctx, attempt)
		if err != nil {
			if ce, ok := err.(*ClientError); ok {
				// The coordinator hands the same error to every waiter of an episode.
				cp := *ce
				cp.ReturnPath = ReturnPathFrom(ctx, attempt.Request.Path())
				return nil, &cp
			}
			return nil, err
		}

		retry := attempt.Retry()
		retry.Token = token
		c.logger.Debug(ctx, "replaying request with renewed token", "method", retry.Request.Method, "path", retry.Request.Path())
		return c.handle(ctx, retry, c.send(ctx, AttachToken(retry.Request, token)))

	case OutcomeAuthForbidden:
		e := outcomeError(o)
		e.ReturnPath = c.logout(ctx, attempt)
		return nil, e

	default:
		return nil, outcomeError(o)
	}
}

func (c *Client) logout(ctx context.Context, attempt RequestAttempt) string {
	path := ReturnPathFrom(ctx, attempt.Request.Path())
	if c.terminator != nil {
		c.terminator.Logout(ctx, path)
	}
	return path
}

func (c *Client) isRefreshRequest(req *Request) bool {
	return c.refreshPath != "" && strings.Contains(req.Path(), c.refreshPath)
}

func jsonRequest(method, path string, body any) (*Request, error) {
	req := &Request{Method: method, URL: path}
	switch b := body.(type) {
	case nil:
		return req, nil
	case []byte:
		req.Body = b
	case json.RawMessage:
		req.Body = b
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = data
	}
	req.Header = map[string]string{"Content-Type": "application/json"}
	return req, nil
}
