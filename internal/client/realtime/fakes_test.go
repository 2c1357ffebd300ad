package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
)

type frame struct {
	ev  models.ProgressEvent
	err error
}

type fakeConn struct {
	token  string
	frames chan frame
	writes chan any
	closed chan struct{}
	once   sync.Once
}

func newFakeConn(token string) *fakeConn {
	return &fakeConn{
		token:  token,
		frames: make(chan frame, 16),
		writes: make(chan any, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) Read(ctx context.Context) (models.ProgressEvent, error) {
	select {
	case fr := <-f.frames:
		return fr.ev, fr.err
	case <-f.closed:
		return models.ProgressEvent{}, errors.New("connection closed")
	case <-ctx.Done():
		return models.ProgressEvent{}, ctx.Err()
	}
}

func (f *fakeConn) Write(ctx context.Context, v any) error {
	select {
	case <-f.closed:
		return errors.New("connection closed")
	case f.writes <- v:
		return nil
	default:
		return nil
	}
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func (f *fakeConn) push(ev models.ProgressEvent) { f.frames <- frame{ev: ev} }
func (f *fakeConn) fail(err error)               { f.frames <- frame{err: err} }

// fakeDialer hands out a fresh fakeConn per dial unless a queued error is
// pending. Every dialed conn is published on conns.
type fakeDialer struct {
	mu     sync.Mutex
	errs   []error
	tokens []string
	conns  chan *fakeConn
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{conns: make(chan *fakeConn, 16)}
}

func (d *fakeDialer) Dial(ctx context.Context, url, token string) (Conn, error) {
	d.mu.Lock()
	d.tokens = append(d.tokens, token)
	var err error
	if len(d.errs) > 0 {
		err, d.errs = d.errs[0], d.errs[1:]
	}
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}
	c := newFakeConn(token)
	d.conns <- c
	return c, nil
}

func (d *fakeDialer) failNext(errs ...error) {
	d.mu.Lock()
	d.errs = append(d.errs, errs...)
	d.mu.Unlock()
}

func (d *fakeDialer) dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.tokens...)
}
