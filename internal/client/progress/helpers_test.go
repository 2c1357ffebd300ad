package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/realtime"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

const waitFor = 2 * time.Second
const tick = 2 * time.Millisecond

// pipeConn feeds events pushed by the test to the channel's reader.
type pipeConn struct {
	frames chan models.ProgressEvent
	closed chan struct{}
	once   sync.Once
}

func (c *pipeConn) Read(ctx context.Context) (models.ProgressEvent, error) {
	select {
	case ev := <-c.frames:
		return ev, nil
	case <-c.closed:
		return models.ProgressEvent{}, errors.New("closed")
	case <-ctx.Done():
		return models.ProgressEvent{}, ctx.Err()
	}
}

func (c *pipeConn) Write(ctx context.Context, v any) error { return nil }

func (c *pipeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

type pipeDialer struct{ conn *pipeConn }

func (d *pipeDialer) Dial(ctx context.Context, url, token string) (realtime.Conn, error) {
	return d.conn, nil
}

// bus is a connected realtime.Channel whose frames are pushed by the test.
type bus struct {
	*realtime.Channel
	conn *pipeConn
}

func newBus(t *testing.T) *bus {
	t.Helper()
	conn := &pipeConn{frames: make(chan models.ProgressEvent, 16), closed: make(chan struct{})}
	ch := realtime.NewChannel("ws://test", &pipeDialer{conn: conn}, realtime.Options{}, logging.Nop())
	ch.Connect("tok")
	t.Cleanup(ch.Disconnect)
	require.Eventually(t, ch.Connected, waitFor, tick)
	return &bus{Channel: ch, conn: conn}
}

// emit pushes ev followed by a marker on a private topic and waits for the
// marker, so ev has been fully dispatched when emit returns.
func (b *bus) emit(t *testing.T, ev models.ProgressEvent) {
	t.Helper()
	seen := make(chan struct{})
	sub := b.On("test_marker", func(models.ProgressEvent) { close(seen) })
	defer sub.Close()

	b.conn.frames <- ev
	b.conn.frames <- models.ProgressEvent{Type: "test_marker"}

	select {
	case <-seen:
	case <-time.After(waitFor):
		t.Fatal("event not dispatched")
	}
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

// fakeAPI records terminal reads. Unimplemented Client methods panic via
// the nil embed.
type fakeAPI struct {
	client.Client

	mu          sync.Mutex
	resumeReads []models.ID
	matchReads  []models.ID
	readGate    chan struct{}
	readErr     error

	uploadErr     error
	uploadReceipt *models.UploadReceipt
	matchErr      error
	uploads       []string
	matchRequests []models.MatchRequest
}

func (f *fakeAPI) UploadResume(ctx context.Context, token, filename string, r io.Reader) (*models.UploadReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if f.uploadReceipt != nil {
		return f.uploadReceipt, nil
	}
	return &models.UploadReceipt{Message: "uploaded"}, nil
}

func (f *fakeAPI) SubmitMatch(ctx context.Context, token string, req models.MatchRequest) (*models.MatchReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchRequests = append(f.matchRequests, req)
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return &models.MatchReceipt{Message: "matching started"}, nil
}

func (f *fakeAPI) GetResume(ctx context.Context, token string, id models.ID) (*models.ResumeRecord, error) {
	f.mu.Lock()
	f.resumeReads = append(f.resumeReads, id)
	gate, err := f.readGate, f.readErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &models.ResumeRecord{ID: id, Status: models.StatusAnalyzed, Skills: []string{"Go"}}, nil
}

func (f *fakeAPI) GetMatch(ctx context.Context, token string, id models.ID) (*models.MatchRecord, error) {
	f.mu.Lock()
	f.matchReads = append(f.matchReads, id)
	gate, err := f.readGate, f.readErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &models.MatchRecord{ID: id, FitScore: 80}, nil
}

func (f *fakeAPI) reads() (resumes, matches []models.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ID(nil), f.resumeReads...), append([]models.ID(nil), f.matchReads...)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("projection did not finish")
	}
}

func resumeEvent(status models.Status, progress int) models.ProgressEvent {
	return models.ProgressEvent{Type: models.TopicResume, Status: status, Progress: progress}
}

func dataID(key, id string) map[string]json.RawMessage {
	return map[string]json.RawMessage{key: json.RawMessage(`"` + id + `"`)}
}
