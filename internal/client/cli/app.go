package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/gate"
	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/realtime"
	"github.com/dmitrijs2005/jobfit/internal/client/session"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

// Route names used as gate redirects.
const (
	routeSignIn  = "login"
	routeLanding = "whoami"
)

// sessionManager is the part of session.Manager the REPL drives.
type sessionManager interface {
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, reg models.Registration) error
	Logout(ctx context.Context)
	Snapshot() session.Snapshot
	Token() string
	Resolved() <-chan struct{}
	Changes() <-chan struct{}
}

var _ sessionManager = (*session.Manager)(nil)

type App struct {
	session sessionManager
	gate    *gate.Gate
	api     client.Client
	sub     realtime.Subscriber
	logger  logging.Logger

	in  *bufio.Reader
	out io.Writer

	commands []command
	last     *lastJob
}

// NewApp builds the REPL. sub is the view side of the event channel; the
// connection itself belongs to the session manager.
func NewApp(sess sessionManager, api client.Client, sub realtime.Subscriber, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	a := &App{
		session: sess,
		gate:    gate.New(sess, gate.Redirects{SignIn: routeSignIn, Landing: routeLanding}),
		api:     api,
		sub:     sub,
		logger:  logger.With("component", "cli"),
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	a.commands = a.commandTable()
	return a
}

// Run restores the saved session in the background and starts the REPL.
// Commands issued before the restore finishes wait for it at the gate.
func (a *App) Run(ctx context.Context) {
	go a.restore(ctx)
	a.Root(ctx)
}

func (a *App) restore(ctx context.Context) {
	if err := a.session.Bootstrap(ctx); err != nil {
		a.logger.Warn(ctx, "saved session could not be restored", "error", err)
	}
}
