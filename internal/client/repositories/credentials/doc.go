// Package credentials implements the persisted credential store of the
// jobfit client.
//
// Two layers are provided:
//
//   - Repository: a raw key/value table (SQLiteRepository) bound to a
//     dbx.DBTX, usable inside or outside a transaction.
//   - Store: the session-facing view that keeps the bearer token and the
//     cached user record under two well-known keys and writes or clears
//     them atomically.
//
// Absence of either key means "no session".
package credentials
