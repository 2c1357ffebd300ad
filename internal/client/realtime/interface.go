package realtime

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
)

var (
	// ErrTokenRejected means the server refused the session token. The
	// channel stops reconnecting when it sees it.
	ErrTokenRejected = errors.New("token rejected by event channel")
	// ErrMalformedFrame is a frame that could not be decoded; it is skipped.
	ErrMalformedFrame = errors.New("malformed frame")
)

// Handler receives events of one topic.
type Handler func(ev models.ProgressEvent)

// Subscriber is the view-facing half of the channel.
type Subscriber interface {
	// On registers h for topic and returns a handle that must be closed
	// when the owner goes away.
	On(topic string, h Handler) *Subscription
	// Off removes the given subscriptions of topic, or every handler of
	// topic when none are given.
	Off(topic string, subs ...*Subscription)
}

// Connector is the session-facing half of the channel.
type Connector interface {
	// Connect opens the connection for token in the background. It is a
	// no-op when already serving the same token.
	Connect(token string)
	// Disconnect closes the connection and drops every handler.
	Disconnect()
	// OnRejected installs the callback run when the server rejects the
	// token the channel was connected with.
	OnRejected(fn func(token string))
}

// Conn is one live transport connection.
type Conn interface {
	Read(ctx context.Context) (models.ProgressEvent, error)
	Write(ctx context.Context, v any) error
	Close() error
}

// Dialer opens transport connections.
type Dialer interface {
	Dial(ctx context.Context, url, token string) (Conn, error)
}
