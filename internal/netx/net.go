// Package netx holds small HTTP helpers shared by the client transport and
// the server.
package netx

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// MaxBodySize caps how much of a response body ReadBody keeps.
const MaxBodySize = 4 << 20

// ResolveURL joins ref onto base and merges query into the result. An
// absolute ref ignores base.
func ResolveURL(base, ref string, query url.Values) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", ref, err)
	}
	if !r.IsAbs() {
		if base == "" {
			return "", fmt.Errorf("relative url %q without base", ref)
		}
		b, err := url.Parse(strings.TrimRight(base, "/") + "/")
		if err != nil {
			return "", fmt.Errorf("parse base url %q: %w", base, err)
		}
		r = b.ResolveReference(&url.URL{Path: strings.TrimLeft(r.Path, "/"), RawQuery: r.RawQuery})
	}
	if len(query) > 0 {
		q := r.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		r.RawQuery = q.Encode()
	}
	return r.String(), nil
}

// ReadBody drains and closes resp.Body, keeping at most MaxBodySize bytes.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	// Drain the rest so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return b, nil
}
