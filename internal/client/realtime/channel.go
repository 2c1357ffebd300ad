package realtime

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

// Options tune reconnects and keepalive.
type Options struct {
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	PingInterval      time.Duration
}

func (o *Options) setDefaults() {
	if o.ReconnectDelay <= 0 {
		o.ReconnectDelay = 2 * time.Second
	}
	if o.MaxReconnectDelay < o.ReconnectDelay {
		o.MaxReconnectDelay = o.ReconnectDelay
	}
}

// Channel implements Subscriber and Connector.
type Channel struct {
	url    string
	dialer Dialer
	opts   Options
	logger logging.Logger

	mu         sync.Mutex
	handlers   map[string][]*Subscription
	token      string
	cancel     context.CancelFunc
	done       chan struct{}
	connected  bool
	onRejected func(token string)
}

var (
	_ Subscriber = (*Channel)(nil)
	_ Connector  = (*Channel)(nil)
)

func NewChannel(url string, dialer Dialer, opts Options, logger logging.Logger) *Channel {
	opts.setDefaults()
	if logger == nil {
		logger = logging.Nop()
	}
	return &Channel{
		url:      url,
		dialer:   dialer,
		opts:     opts,
		logger:   logger.With("component", "realtime"),
		handlers: make(map[string][]*Subscription),
	}
}

func (c *Channel) On(topic string, h Handler) *Subscription {
	sub := newSubscription(c, topic, h)

	c.mu.Lock()
	c.handlers[topic] = append(c.handlers[topic], sub)
	n := len(c.handlers[topic])
	c.mu.Unlock()

	c.logger.Debug(context.Background(), "handler registered", "topic", topic, "id", sub.id, "handlers", n)
	return sub
}

func (c *Channel) Off(topic string, subs ...*Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.handlers[topic]
	if len(subs) == 0 {
		for _, s := range current {
			s.active.Store(false)
		}
		delete(c.handlers, topic)
		return
	}

	for _, s := range subs {
		if s == nil {
			continue
		}
		s.active.Store(false)
		current = slices.DeleteFunc(current, func(x *Subscription) bool { return x == s })
	}
	if len(current) == 0 {
		delete(c.handlers, topic)
	} else {
		c.handlers[topic] = current
	}
}

// Handlers returns the number of handlers registered for topic.
func (c *Channel) Handlers(topic string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers[topic])
}

func (c *Channel) OnRejected(fn func(token string)) {
	c.mu.Lock()
	c.onRejected = fn
	c.mu.Unlock()
}

func (c *Channel) Connect(token string) {
	ctx := context.Background()
	if token == "" {
		c.logger.Warn(ctx, "connect ignored: empty token")
		return
	}

	c.mu.Lock()
	if c.cancel != nil && c.token == token {
		c.mu.Unlock()
		return
	}
	oldCancel, oldDone := c.cancel, c.done

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.token, c.cancel, c.done = token, cancel, done
	c.mu.Unlock()

	if oldCancel != nil {
		c.logger.Info(ctx, "replacing connection for new token", "token", logging.Fingerprint(token))
		oldCancel()
		<-oldDone
	}

	go c.run(runCtx, token, done)
}

func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.token, c.cancel, c.done = "", nil, nil
	for _, subs := range c.handlers {
		for _, s := range subs {
			s.active.Store(false)
		}
	}
	c.handlers = make(map[string][]*Subscription)
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
		c.logger.Info(context.Background(), "disconnected")
	}
}

// Connected reports whether a transport connection is currently open.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Token returns the token the channel is serving, or "".
func (c *Channel) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Channel) run(ctx context.Context, token string, done chan struct{}) {
	defer close(done)

	delay := c.opts.ReconnectDelay
	for {
		established, err := c.serve(ctx, token)
		if ctx.Err() != nil {
			return
		}

		if errors.Is(err, ErrTokenRejected) {
			c.logger.Warn(ctx, "token rejected, giving up", "token", logging.Fingerprint(token), "error", err)
			c.rejected(token, done)
			return
		}

		if established {
			delay = c.opts.ReconnectDelay
		}
		c.logger.Warn(ctx, "connection lost, reconnecting", "error", err, "delay", delay)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}

		delay = min(delay*2, c.opts.MaxReconnectDelay)
	}
}

// rejected detaches the finished run loop and notifies the owner. The
// callback runs on its own goroutine so it may call Disconnect.
func (c *Channel) rejected(token string, done chan struct{}) {
	c.mu.Lock()
	var cancel context.CancelFunc
	if c.done == done {
		cancel = c.cancel
		c.token, c.cancel, c.done = "", nil, nil
	}
	fn := c.onRejected
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if fn != nil {
		go fn(token)
	}
}

func (c *Channel) serve(ctx context.Context, token string) (bool, error) {
	conn, err := c.dialer.Dial(ctx, c.url, token)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	c.setConnected(true)
	defer c.setConnected(false)
	c.logger.Info(ctx, "connected", "token", logging.Fingerprint(token))

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.opts.PingInterval > 0 {
		go c.keepalive(connCtx, conn)
	}

	for {
		ev, err := conn.Read(connCtx)
		if err != nil {
			if errors.Is(err, ErrMalformedFrame) {
				c.logger.Warn(ctx, "skipping frame", "error", err)
				continue
			}
			return true, err
		}
		c.dispatch(ctx, ev)
	}
}

func (c *Channel) keepalive(ctx context.Context, conn Conn) {
	t := time.NewTicker(c.opts.PingInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			ping := map[string]any{"type": models.TopicPing, "timestamp": float64(now.UnixMilli()) / 1000}
			if err := conn.Write(ctx, ping); err != nil {
				if ctx.Err() == nil {
					c.logger.Warn(ctx, "ping failed", "error", err)
					_ = conn.Close()
				}
				return
			}
		}
	}
}

func (c *Channel) dispatch(ctx context.Context, ev models.ProgressEvent) {
	switch ev.Type {
	case models.TopicConnection:
		c.logger.Info(ctx, "server greeting", "status", ev.Status, "message", ev.Message)
		return
	case models.TopicPong:
		c.logger.Debug(ctx, "pong")
		return
	case "error":
		c.logger.Warn(ctx, "server reported error", "message", ev.Message)
		return
	case "":
		c.logger.Warn(ctx, "frame without type skipped")
		return
	}

	c.mu.Lock()
	subs := slices.Clone(c.handlers[ev.Type])
	c.mu.Unlock()

	if len(subs) == 0 {
		c.logger.Debug(ctx, "no handlers for event", "topic", ev.Type, "status", ev.Status)
		return
	}

	for _, s := range subs {
		if !s.active.Load() {
			continue
		}
		s.handler(ev)
	}
}

func (c *Channel) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
