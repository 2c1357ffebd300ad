// Package session owns the authentication lifecycle of the jobfit client:
// bootstrap from persisted credentials, login, registration and logout.
//
// The Manager is the single writer of session state and the only holder of
// the realtime.Connector, so it alone opens and closes the event channel.
// Other components read state through Snapshot, Resolved and Changes.
//
// Session state is two-phase. Between the start of Bootstrap and the end of
// verification the snapshot may carry a tentative token and user with
// Resolved == false; consumers such as the access gate must not act on it
// until Resolved is true.
package session
