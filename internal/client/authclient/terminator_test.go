package authclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminator_RenewChecksGeneration(t *testing.T) {
	tests := []struct {
		name    string
		between func(*Terminator)
		wantErr error
	}{
		{name: "unchanged", between: func(*Terminator) {}},
		{name: "forced logout", between: func(term *Terminator) { term.Logout(context.Background(), "/") }, wantErr: ErrSessionEnded},
		{name: "user logout", between: func(term *Terminator) { _ = term.Reset(context.Background()) }, wantErr: ErrSessionEnded},
		{name: "new login", between: func(term *Terminator) { term.Arm() }, wantErr: ErrSessionEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			term := newSyncTerminator(store, nil)
			gen := term.Generation()
			tt.between(term)

			wrote := false
			err := term.Renew(gen, func() error {
				wrote = true
				return nil
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, wrote)
				return
			}
			require.NoError(t, err)
			assert.True(t, wrote)
		})
	}
}

func TestTerminator_RenewRearmsSession(t *testing.T) {
	store := newMemStore(AccessTokenKey, "A1")
	obs := &countingObserver{}
	term := newSyncTerminator(store, obs)

	require.True(t, term.Logout(context.Background(), "/a"))
	require.NoError(t, term.Renew(term.Generation(), func() error { return nil }))
	assert.True(t, term.Logout(context.Background(), "/b"))
	assert.Equal(t, []string{"/a", "/b"}, obs.calls())
}

func TestTerminator_RenewWriteErrorLeavesSessionDisarmed(t *testing.T) {
	obs := &countingObserver{}
	term := newSyncTerminator(newMemStore(), obs)
	term.Logout(context.Background(), "/a")

	boom := errors.New("disk full")
	assert.ErrorIs(t, term.Renew(term.Generation(), func() error { return boom }), boom)
	assert.False(t, term.Logout(context.Background(), "/b"))
	assert.Equal(t, []string{"/a"}, obs.calls())
}
