package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobfit/internal/client/gate"
)

var errUnknownCommand = errors.New("unknown command")

// command is one REPL view guarded by the access gate.
type command struct {
	usage string
	help  string
	route gate.Route
	run   func(ctx context.Context, args []string) error
}

func (a *App) commandTable() []command {
	return []command{
		{usage: "help", help: "show available commands", route: gate.Route{Name: "help"}, run: a.Help},
		{usage: "login", help: "sign in", route: gate.Route{Name: routeSignIn}, run: a.Login},
		{usage: "register", help: "create an account and sign in", route: gate.Route{Name: "register"}, run: a.Register},
		{usage: "logout", help: "sign out", route: gate.Route{Name: "logout"}, run: a.Logout},
		{usage: "whoami", help: "show the signed-in user", route: gate.Route{Name: routeLanding, Protected: true}, run: a.Whoami},
		{usage: "upload <file.pdf>", help: "upload a résumé and follow its analysis", route: gate.Route{Name: "upload", Protected: true}, run: a.Upload},
		{usage: "match", help: "match your résumé against a job description", route: gate.Route{Name: "match", Protected: true}, run: a.Match},
		{usage: "refresh [match_id]", help: "read the result of the last job again (match_id after a match)", route: gate.Route{Name: "refresh", Protected: true}, run: a.Refresh},
		{usage: "stats", help: "platform statistics (admin)", route: gate.Route{Name: "stats", Protected: true, AdminOnly: true}, run: a.Stats},
	}
}

func (a *App) lookup(name string) (command, bool) {
	for _, c := range a.commands {
		if c.route.Name == name {
			return c, true
		}
	}
	return command{}, false
}

// getStatus renders the prompt suffix.
func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	switch {
	case !snap.Resolved:
		return "(restoring session)"
	case snap.Authenticated():
		if snap.User.IsAdmin {
			return fmt.Sprintf("(%s admin)", snap.User.Email)
		}
		return fmt.Sprintf("(%s)", snap.User.Email)
	default:
		return ""
	}
}

// dispatch runs name once the gate allows it. A denied command is followed
// by its redirect, but only one redirect deep.
func (a *App) dispatch(ctx context.Context, name string, args []string, redirected bool) error {
	cmd, ok := a.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownCommand, name)
	}

	dec, err := a.gate.Await(ctx, cmd.route)
	if err != nil {
		return err
	}

	switch dec.State {
	case gate.Authorized:
		return cmd.run(ctx, args)
	case gate.Unauthorized:
		fmt.Fprintf(a.out, "%q requires you to sign in.\n", name)
	case gate.Forbidden:
		fmt.Fprintf(a.out, "%q is available to administrators only.\n", name)
	}

	if dec.Redirect == "" || redirected {
		return nil
	}
	return a.dispatch(ctx, dec.Redirect, nil, true)
}

// Help lists the commands the gate currently allows.
func (a *App) Help(ctx context.Context, _ []string) error {
	fmt.Fprintln(a.out, "Available commands:")
	for _, c := range a.commands {
		if !a.gate.Decide(c.route).Allowed() {
			continue
		}
		fmt.Fprintf(a.out, "  %-20s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(a.out, "  %-20s %s\n", "exit", "leave the program")
	return nil
}

// Root prints the banner and blocks in the REPL until the user exits. The
// prompt is redrawn when the session changes in the background.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to JobFit CLI (type 'help' for commands)")

	p := newPrompter(a.out, a.getStatus)
	watchCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		followSession(watchCtx, a.session.Changes(), p)
	}()

	runREPL(ctx, a, p, a.in)
	stop()
	wg.Wait()
}
