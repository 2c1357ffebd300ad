// Package realtime implements the shared event channel of the jobfit client:
// one WebSocket connection per session token, fanning pushed progress events
// out to every handler registered for the event's topic.
//
// The channel is exposed through two interfaces. Views get a Subscriber
// (On/Off) and can only manage their own handlers. The session manager owns
// the Connector (Connect/Disconnect) and is the only code that opens or
// closes the connection.
//
// # Delivery
//
// Frames are read on a single goroutine and dispatched serially. Handlers
// for a topic run in registration order. A handler removed with Off (or
// Subscription.Close) is never invoked for an event dispatched after the
// call returns. Handlers may call On and Off re-entrantly but must not call
// Connect or Disconnect, and should hand slow work to another goroutine.
//
// Registration does not require a live connection. Events arrive only while
// connected; there is no replay after a reconnect.
package realtime
