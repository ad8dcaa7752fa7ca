package authclient

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
)

type memStore struct {
	mu      sync.Mutex
	m       map[string]string
	getErr  error
	cleared atomic.Int32
}

func newMemStore(kv ...string) *memStore {
	s := &memStore{m: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		s.m[kv[i]] = kv[i+1]
	}
	return s
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.m[key], nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	s.cleared.Add(1)
	return nil
}

func (s *memStore) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key]
}

// fakeTransport answers requests with handler and records what was sent.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []*Request
	handler func(req *Request) (*Response, error)
}

func (f *fakeTransport) Send(_ context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	f.sent = append(f.sent, req.Clone())
	f.mu.Unlock()
	return f.handler(req)
}

func (f *fakeTransport) requests() []*Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Request(nil), f.sent...)
}

func (f *fakeTransport) authHeaders(path string) []string {
	var out []string
	for _, r := range f.requests() {
		if r.Path() == path {
			out = append(out, r.Header["Authorization"])
		}
	}
	return out
}

// countingObserver records forced logout notifications.
type countingObserver struct {
	mu    sync.Mutex
	paths []string
}

func (o *countingObserver) OnForcedLogout(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paths = append(o.paths, path)
}

func (o *countingObserver) calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.paths...)
}

func newSyncTerminator(store CredentialStore, obs SessionObserver) *Terminator {
	t := NewTerminator(store, obs, nil)
	t.notify = func(o SessionObserver, path string) { o.OnForcedLogout(path) }
	return t
}

func jsonResponse(status int, body string) *Response {
	return &Response{Status: status, Header: http.Header{"Content-Type": []string{"application/json"}}, Body: []byte(body)}
}

// bearerOnly accepts requests carrying exactly the given bearer token and
// answers 401 otherwise.
func bearerOnly(t *testing.T, token string, ok string) func(req *Request) (*Response, error) {
	t.Helper()
	return func(req *Request) (*Response, error) {
		if req.Header["Authorization"] == "Bearer "+token {
			return jsonResponse(http.StatusOK, ok), nil
		}
		return jsonResponse(http.StatusUnauthorized, `{"code":401,"msg":"token expired"}`), nil
	}
}

var errDown = errors.New("connection refused")
