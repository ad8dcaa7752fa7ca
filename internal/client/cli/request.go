package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophauth/internal/client/authclient"
	"golang.org/x/sync/errgroup"
)

// Request sends one authenticated request and prints the response data.
func (a *App) Request(ctx context.Context, method, path, body string, query map[string][]string) error {
	req := &authclient.Request{Method: method, URL: path, Query: url.Values(query)}
	if body != "" {
		if !json.Valid([]byte(body)) {
			return fmt.Errorf("request body is not valid JSON")
		}
		req.Body = []byte(body)
		req.Header = map[string]string{"Content-Type": "application/json"}
	}

	res, err := a.client.Do(authclient.WithReturnPath(ctx, a.config.ReturnPath), req)
	if err != nil {
		return fmt.Errorf("%s %s: %s", method, path, describe(err))
	}
	a.printData(res)
	return nil
}

func (a *App) printData(res *authclient.Result) {
	if len(res.Data) == 0 || string(res.Data) == "null" {
		fmt.Fprintln(a.out, "OK")
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, res.Data, "", "  "); err != nil {
		fmt.Fprintln(a.out, string(res.Data))
		return
	}
	fmt.Fprintln(a.out, buf.String())
}

// Burst fires n concurrent GETs at path through the shared client and
// reports how many refresh episodes they caused.
func (a *App) Burst(ctx context.Context, path string, n int) error {
	if n < 1 {
		return fmt.Errorf("burst size must be positive")
	}
	before := a.client.Coordinator().Episodes()
	ctx = authclient.WithReturnPath(ctx, a.config.ReturnPath)

	var ok, failed atomic.Int32
	var mu sync.Mutex
	var firstErr error

	var g errgroup.Group
	g.SetLimit(n)
	for range n {
		g.Go(func() error {
			if _, err := a.client.Do(ctx, &authclient.Request{Method: http.MethodGet, URL: path}); err != nil {
				failed.Add(1)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(a.out, "%d succeeded, %d failed, %d refresh episode(s)\n",
		ok.Load(), failed.Load(), a.client.Coordinator().Episodes()-before)
	if firstErr != nil {
		fmt.Fprintf(a.out, "first failure: %s\n", describe(firstErr))
	}
	return nil
}
