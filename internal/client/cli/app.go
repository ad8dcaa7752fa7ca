package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/client/authclient"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/credstore"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/client/transport"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// App holds the client stack shared by all commands.
type App struct {
	config      *config.Config
	logger      logging.Logger
	store       *credstore.SQLiteStore
	coordinator *authclient.Coordinator
	terminator  *authclient.Terminator
	client      *authclient.Client
	auth        services.AuthService
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the credential store and assembles the authenticated client.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	store, err := credstore.Open(ctx, c.StorePath, c.StorePassphrase)
	if err != nil {
		return nil, fmt.Errorf("error opening credential store: %w", err)
	}

	tr := transport.NewHTTPTransport(c.ServerBaseURL, c.RequestTimeout)
	observer := authclient.SessionObserverFunc(func(returnPath string) {
		logger.Warn(context.Background(), "session ended, log in again", "return_path", returnPath)
	})
	terminator := authclient.NewTerminator(store, observer, logger)
	coordinator := authclient.NewCoordinator(store, transport.NewHTTPRefresher(tr, c.RefreshPath), terminator, logger)

	return &App{
		config:      c,
		logger:      logger,
		store:       store,
		coordinator: coordinator,
		terminator:  terminator,
		client: authclient.New(tr, store, coordinator, terminator,
			authclient.WithLogger(logger), authclient.WithRefreshPath(c.RefreshPath)),
		auth:   services.NewAuthService(tr, store, terminator, c.LoginPath, c.RegisterPath),
		reader: bufio.NewReader(in),
		out:    out,
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) isLoggedIn() bool {
	s, err := a.auth.Status(context.Background())
	return err == nil && s.LoggedIn
}

// describe turns a client failure into a line for the user.
func describe(err error) string {
	var ce *authclient.ClientError
	if !errors.As(err, &ce) {
		return err.Error()
	}
	switch ce.Kind {
	case authclient.KindRefreshFailed, authclient.KindAuthForbidden:
		return fmt.Sprintf("session ended (%s); log in again to return to %s", ce.Error(), ce.ReturnPath)
	case authclient.KindBusiness:
		return fmt.Sprintf("rejected [%d]: %s", ce.Code, ce.Error())
	case authclient.KindServer:
		return fmt.Sprintf("server error [%d]: %s", ce.Status, ce.Error())
	}
	return ce.Error()
}
