package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// action is a subcommand body run against the App.
type action func(ctx context.Context, app *App, args []string) error

// NewRootCommand builds the command tree over cfg. The App is created after
// flags are parsed and closed when the command finishes.
func NewRootCommand(cfg *config.Config, in io.Reader, out io.Writer) *cobra.Command {
	var (
		app   *App
		debug bool
	)

	run := runner(func(f action) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			defer app.Close()
			return f(cmd.Context(), app, args)
		}
	})

	root := &cobra.Command{
		Use:           "gophauth",
		Short:         "Authenticated HTTP client with transparent token refresh",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if debug {
				level = slog.LevelDebug
			}
			var err error
			app, err = NewApp(cmd.Context(), cfg, logging.NewTextLogger(os.Stderr, level), in, out)
			return err
		},
	}
	root.SetOut(out)
	root.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nPlatform: %s/%s\n",
		BuildTime, runtime.GOOS, runtime.GOARCH))

	config.BindFlags(root.PersistentFlags(), cfg)
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log refresh activity to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "register [username]",
			Short: "Create an account",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(ctx context.Context, app *App, args []string) error {
				return app.Register(ctx, arg(args, 0))
			}),
		},
		&cobra.Command{
			Use:   "login [username]",
			Short: "Log in and store the session tokens",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(ctx context.Context, app *App, args []string) error {
				return app.Login(ctx, arg(args, 0))
			}),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, app *App, _ []string) error {
				return app.Logout(ctx)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Describe the stored session",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, app *App, _ []string) error {
				return app.Status(ctx)
			}),
		},
		newGetCommand(run),
		newBodyCommand(run, http.MethodPost),
		newBodyCommand(run, http.MethodPut),
		newDeleteCommand(run),
		newBurstCommand(run),
		&cobra.Command{
			Use:   "health",
			Short: "Check the server over gRPC with the stored session",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, app *App, _ []string) error {
				return app.Health(ctx)
			}),
		},
		&cobra.Command{
			Use:   "shell",
			Short: "Interactive session",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, app *App, _ []string) error {
				runREPL(ctx, app, app.prompt, bufio.NewScanner(app.reader))
				return nil
			}),
		},
	)
	return root
}

type runner func(action) func(*cobra.Command, []string) error

func newGetCommand(run runner) *cobra.Command {
	var query []string
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "GET an authenticated resource",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, app *App, args []string) error {
			q, err := parseQuery(query)
			if err != nil {
				return err
			}
			return app.Request(ctx, http.MethodGet, args[0], "", q)
		}),
	}
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query parameter key=value (repeatable)")
	return cmd
}

func newBodyCommand(run runner, method string) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ToLower(method) + " <path> [json]",
		Short: method + " a JSON body to an authenticated resource",
		Args:  cobra.RangeArgs(1, 2),
		RunE: run(func(ctx context.Context, app *App, args []string) error {
			return app.Request(ctx, method, args[0], arg(args, 1), nil)
		}),
	}
}

func newDeleteCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "DELETE an authenticated resource",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, app *App, args []string) error {
			return app.Request(ctx, http.MethodDelete, args[0], "", nil)
		}),
	}
}

func newBurstCommand(run runner) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "burst <path>",
		Short: "Send concurrent GETs through one client",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, app *App, args []string) error {
			return app.Burst(ctx, args[0], n)
		}),
	}
	cmd.Flags().IntVarP(&n, "count", "n", defaultBurst, "number of concurrent requests")
	return cmd
}

func parseQuery(pairs []string) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	q := map[string][]string{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid query parameter %q, want key=value", p)
		}
		q[k] = append(q[k], v)
	}
	return q, nil
}

func (a *App) prompt() string {
	s, err := a.auth.Status(context.Background())
	if err != nil || !s.LoggedIn {
		return ""
	}
	return "(" + s.Subject + ")"
}
