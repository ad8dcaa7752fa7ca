package authclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// Coordinator serializes access token renewal.
//
// It is either idle or refreshing. The first caller that reports an expired
// token while idle starts a refresh episode; callers arriving while the
// episode runs are queued behind it. When the refresh exchange completes every
// queued caller, the first one included, receives the same token or the same
// error, in queue order, and the coordinator is idle again.
//
// The exchange runs detached from the callers' contexts: a caller that gives
// up only leaves the queue, it never aborts the refresh the others wait for.
type Coordinator struct {
	store      CredentialStore
	refresher  Refresher
	terminator *Terminator
	logger     logging.Logger

	mu         sync.Mutex
	refreshing bool
	waiters    []*waiter
	episodes   uint64
}

type waiter struct {
	attempt RequestAttempt
	done    chan refreshResult
}

type refreshResult struct {
	token string
	err   error
}

// NewCoordinator builds a Coordinator. terminator runs the forced logout when
// an episode fails; nil means credentials are cleared without notification.
func NewCoordinator(store CredentialStore, refresher Refresher, terminator *Terminator, logger logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Nop()
	}
	if terminator == nil {
		terminator = NewTerminator(store, nil, logger)
	}
	return &Coordinator{
		store:      store,
		refresher:  refresher,
		terminator: terminator,
		logger:     logger,
	}
}

// OnAuthExpired returns a fresh access token for attempt, starting a refresh
// or joining the one in flight. Refresh failures are *ClientError values of
// KindRefreshFailed; a cancelled ctx yields ctx.Err().
//
// When no episode is running and the store already holds a token other than
// the one attempt was sent with, that token is returned without a refresh:
// the rejection was for a token an earlier episode has replaced.
func (c *Coordinator) OnAuthExpired(ctx context.Context, attempt RequestAttempt) (string, error) {
	w := &waiter{attempt: attempt, done: make(chan refreshResult, 1)}

	c.mu.Lock()
	if !c.refreshing && attempt.Token != "" {
		current, err := c.store.Get(ctx, AccessTokenKey)
		if err == nil && current != "" && current != attempt.Token {
			c.mu.Unlock()
			c.logger.Debug(ctx, "token already renewed", "path", attempt.Request.Path())
			return current, nil
		}
	}
	c.waiters = append(c.waiters, w)
	start := !c.refreshing
	if start {
		c.refreshing = true
		c.episodes++
	}
	episode := c.episodes
	queued := len(c.waiters)
	c.mu.Unlock()

	if start {
		returnPath := ReturnPathFrom(ctx, attempt.Request.Path())
		go c.run(context.WithoutCancel(ctx), episode, returnPath)
	} else {
		c.logger.Debug(ctx, "waiting for token refresh", "episode", episode, "position", queued, "path", attempt.Request.Path())
	}

	select {
	case r := <-w.done:
		return r.token, r.err
	case <-ctx.Done():
		c.leave(w)
		return "", ctx.Err()
	}
}

// Refreshing reports whether a refresh episode is in flight.
func (c *Coordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// Waiting returns the number of queued callers.
func (c *Coordinator) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// Episodes returns how many refresh episodes have been started.
func (c *Coordinator) Episodes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.episodes
}

func (c *Coordinator) leave(w *waiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, q := range c.waiters {
		if q == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

func (c *Coordinator) run(ctx context.Context, episode uint64, returnPath string) {
	var res refreshResult

	defer func() {
		if p := recover(); p != nil {
			res = refreshResult{err: refreshFailed(fmt.Errorf("refresh panicked: %v", p))}
			c.terminator.Logout(ctx, returnPath)
		}

		c.mu.Lock()
		waiters := c.waiters
		c.waiters = nil
		c.refreshing = false
		c.mu.Unlock()

		for _, w := range waiters {
			w.done <- res
		}

		if res.err != nil {
			c.logger.Warn(ctx, "token refresh failed", "episode", episode, "waiters", len(waiters), "error", res.err)
			return
		}
		c.logger.Info(ctx, "token refreshed", "episode", episode, "waiters", len(waiters))
	}()

	c.logger.Debug(ctx, "token refresh started", "episode", episode)

	token, err := c.refresh(ctx)
	if err != nil {
		res = refreshResult{err: refreshFailed(err)}
		// A session ended mid-flight was already logged out, and may have been
		// replaced by a new login since.
		if !errors.Is(err, ErrSessionEnded) {
			c.terminator.Logout(ctx, returnPath)
		}
		return
	}
	res = refreshResult{token: token}
}

// refresh reads the refresh token and writes the renewed tokens. It only runs
// inside an episode, so no second refresh can observe a half-written pair.
// The tokens are dropped if the session was ended while the exchange ran.
func (c *Coordinator) refresh(ctx context.Context) (string, error) {
	gen := c.terminator.Generation()

	refreshToken, err := c.store.Get(ctx, RefreshTokenKey)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	pair, err := c.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if pair == nil || pair.AccessToken == "" {
		return "", errors.New("refresh response carried no access token")
	}

	err = c.terminator.Renew(gen, func() error {
		if err := c.store.Set(ctx, AccessTokenKey, pair.AccessToken); err != nil {
			return fmt.Errorf("store access token: %w", err)
		}
		if pair.RefreshToken != "" {
			if err := c.store.Set(ctx, RefreshTokenKey, pair.RefreshToken); err != nil {
				return fmt.Errorf("store refresh token: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}
