package authclient

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// Terminator performs the forced logout: both credentials are cleared and the
// SessionObserver is notified.
//
// Only the first Logout after Arm notifies the observer, so a burst of
// failing requests (or a failed refresh with many queued waiters) produces a
// single notification. Credentials are cleared on every call.
//
// Every Arm, Logout and Reset starts a new session generation. A refresh
// captures the generation before the exchange and stores its tokens through
// Renew, which refuses them once the generation has moved on.
type Terminator struct {
	store    CredentialStore
	observer SessionObserver
	logger   logging.Logger

	mu    sync.Mutex
	armed bool
	gen   uint64
	// notify runs the observer; tests replace it to run synchronously.
	notify func(SessionObserver, string)
}

// NewTerminator returns an armed Terminator. observer may be nil.
func NewTerminator(store CredentialStore, observer SessionObserver, logger logging.Logger) *Terminator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Terminator{
		store:    store,
		observer: observer,
		logger:   logger,
		armed:    true,
		notify: func(o SessionObserver, path string) {
			go o.OnForcedLogout(path)
		},
	}
}

// Arm marks the session as live again, typically after a login or a
// successful refresh.
func (t *Terminator) Arm() {
	t.mu.Lock()
	t.armed = true
	t.gen++
	t.mu.Unlock()
}

// Generation returns the current session generation.
func (t *Terminator) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Renew runs write and re-arms the session, provided no Arm, Logout or Reset
// happened since gen was read. Otherwise write is skipped and
// ErrSessionEnded is returned.
func (t *Terminator) Renew(gen uint64, write func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		return ErrSessionEnded
	}
	if err := write(); err != nil {
		return err
	}
	t.armed = true
	return nil
}

// Logout clears the credentials and, once per armed session, notifies the
// observer with returnPath. It reports whether the observer was notified.
func (t *Terminator) Logout(ctx context.Context, returnPath string) bool {
	t.mu.Lock()
	first := t.armed
	t.armed = false
	t.gen++
	t.mu.Unlock()

	if err := t.clear(ctx); err != nil {
		t.logger.Error(ctx, "forced logout: clearing credentials failed", "error", err)
	}
	if !first {
		return false
	}

	t.logger.Warn(ctx, "session terminated, re-authentication required", "return_path", returnPath)
	if t.observer != nil {
		t.notify(t.observer, returnPath)
	}
	return true
}

// Reset clears the credentials without notifying anyone. Used for a logout
// the user asked for.
func (t *Terminator) Reset(ctx context.Context) error {
	t.mu.Lock()
	t.armed = false
	t.gen++
	t.mu.Unlock()
	return t.clear(ctx)
}

func (t *Terminator) clear(ctx context.Context) error {
	return errors.Join(
		t.store.Clear(ctx, AccessTokenKey),
		t.store.Clear(ctx, RefreshTokenKey),
	)
}
