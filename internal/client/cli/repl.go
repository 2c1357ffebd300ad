package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// dispatcher is the command surface the REPL needs. App satisfies it;
// tests can provide a lightweight stub.
type dispatcher interface {
	dispatch(ctx context.Context, name string, args []string, redirected bool) error
}

// prompter owns the prompt line. While the REPL waits for input the
// prompt may be redrawn from another goroutine when the session changes
// underneath it; once a command runs, only the REPL writes to out.
type prompter struct {
	out    io.Writer
	status func() string

	mu      sync.Mutex
	waiting bool
	shown   string
}

func newPrompter(out io.Writer, status func() string) *prompter {
	return &prompter{out: out, status: status}
}

func promptFor(status string) string {
	if status == "" {
		return "jobfit> "
	}
	return fmt.Sprintf("jobfit %s> ", status)
}

// show prints the prompt and marks the REPL as waiting for input.
func (p *prompter) show() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = p.status()
	fmt.Fprint(p.out, promptFor(p.shown))
	p.waiting = true
}

// busy hands out back to the REPL.
func (p *prompter) busy() {
	p.mu.Lock()
	p.waiting = false
	p.mu.Unlock()
}

// redraw reprints the prompt on a new line when the status shown is stale.
func (p *prompter) redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.waiting {
		return
	}
	s := p.status()
	if s == p.shown {
		return
	}
	p.shown = s
	fmt.Fprint(p.out, "\n"+promptFor(s))
}

// followSession redraws the prompt on every session change until ctx ends.
func followSession(ctx context.Context, changes <-chan struct{}, p *prompter) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			p.redraw()
		}
	}
}

// runREPL reads commands from in until EOF, "exit" or "quit", or ctx ends.
//
// The first token of a line is the command and the rest are its arguments.
// Handlers report their own failures to the user, so errors only matter
// here for unknown commands.
func runREPL(ctx context.Context, a dispatcher, p *prompter, in *bufio.Reader) {
	out := p.out
	for {
		if ctx.Err() != nil {
			return
		}

		p.show()
		line, err := in.ReadString('\n')
		p.busy()
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		}

		if err := a.dispatch(ctx, cmd, args, false); errors.Is(err, errUnknownCommand) {
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
