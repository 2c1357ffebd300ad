// Package cli provides the interactive JobFit command-line client.
//
// Every command is a view behind the access gate: it waits until the saved
// session has been restored, then runs, or redirects to "login" (no session)
// or "whoami" (admin-only command, non-admin user).
//
// Key features:
//   - Login / Register / Logout through the session manager
//   - Résumé upload and job matching with live progress from the event channel
//   - Refresh of the last job's result when its completion event was missed
//   - Platform statistics for administrators
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
