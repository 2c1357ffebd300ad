package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/session"
	"github.com/dmitrijs2005/jobfit/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for an email and password and signs in through the
// session manager. The password is wiped before returning.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.report("Login", err)
		return err
	}

	a.last = nil
	a.greet()
	return nil
}

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context, _ []string) error {
	fullName, err := getSimpleText(a.in, "Enter full name", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	reg := models.Registration{FullName: fullName, Email: email, Password: string(password)}
	if err := a.session.Register(ctx, reg); err != nil {
		a.report("Registration", err)
		return err
	}

	a.last = nil
	a.greet()
	return nil
}

// Logout always succeeds.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.last = nil
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// Whoami is the landing view for signed-in users.
func (a *App) Whoami(_ context.Context, _ []string) error {
	u := a.session.Snapshot().User
	if u == nil {
		return session.ErrNoSession
	}

	fmt.Fprintf(a.out, "%s <%s>\n", u.FullName, u.Email)
	if u.IsAdmin {
		fmt.Fprintln(a.out, "Role: administrator")
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Member since %s\n", u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) greet() {
	if u := a.session.Snapshot().User; u != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", u.FullName)
	}
}

// report turns a failure into text for the user.
func (a *App) report(action string, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(a.out, "%s cancelled.\n", action)
		return
	}

	if f, ok := session.AsFailure(err); ok {
		fmt.Fprintf(a.out, "%s failed: %s\n", action, f.Reason)
		if f.Retryable() {
			fmt.Fprintln(a.out, "Please try again in a moment.")
		}
		return
	}

	fmt.Fprintf(a.out, "%s failed: %s\n", action, client.Detail(err))
}
