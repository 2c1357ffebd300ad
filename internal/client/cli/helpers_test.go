package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/gate"
	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/realtime"
	"github.com/dmitrijs2005/jobfit/internal/client/session"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

const waitFor = 2 * time.Second

// fakeSession is an in-memory sessionManager.
type fakeSession struct {
	mu       sync.Mutex
	snap     session.Snapshot
	resolved chan struct{}
	changes  chan struct{}

	bootErr  error
	booted   int
	loginErr error
	regErr   error

	loginEmail, loginPassword string
	registered                []models.Registration
	logouts                   int
}

func newFakeSession() *fakeSession {
	return &fakeSession{resolved: make(chan struct{}), changes: make(chan struct{}, 1)}
}

// signedIn returns a resolved session for user.
func signedIn(user *models.UserRecord) *fakeSession {
	s := newFakeSession()
	s.snap = session.Snapshot{Token: "tok", User: user}
	s.resolve()
	return s
}

func signedOut() *fakeSession {
	s := newFakeSession()
	s.resolve()
	return s
}

func (s *fakeSession) resolve() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.snap.Resolved {
		s.snap.Resolved = true
		close(s.resolved)
		s.notify()
	}
}

// notify signals a change the same way session.Manager does: coalesced.
func (s *fakeSession) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// rejectToken mimics the channel rejecting the current token.
func (s *fakeSession) rejectToken() {
	s.mu.Lock()
	s.snap.Token, s.snap.User = "", nil
	s.mu.Unlock()
	s.notify()
}

func (s *fakeSession) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	s.booted++
	err := s.bootErr
	s.mu.Unlock()
	s.resolve()
	return err
}

func (s *fakeSession) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginEmail, s.loginPassword = email, password
	if s.loginErr != nil {
		return s.loginErr
	}
	s.snap.Token = "tok"
	s.snap.User = &models.UserRecord{ID: "1", FullName: "Alice", Email: email}
	return nil
}

func (s *fakeSession) Register(ctx context.Context, reg models.Registration) error {
	s.mu.Lock()
	s.registered = append(s.registered, reg)
	err := s.regErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Login(ctx, reg.Email, reg.Password)
}

func (s *fakeSession) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	s.snap.Token, s.snap.User = "", nil
}

func (s *fakeSession) Snapshot() session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *fakeSession) Token() string { return s.Snapshot().Token }

func (s *fakeSession) Resolved() <-chan struct{} { return s.resolved }

func (s *fakeSession) Changes() <-chan struct{} { return s.changes }

// fakeAPI pushes scripted events into the feed when a job is submitted.
// Unimplemented Client methods panic via the nil embed.
type fakeAPI struct {
	client.Client

	mu         sync.Mutex
	feed       *feed
	onSubmit   []models.ProgressEvent
	submitErr  error
	readErr    error
	uploads    []string
	matchReqs  []models.MatchRequest
	resumeRead []models.ID
	matchRead  []models.ID
	stats      *models.AdminStats
	statsErr   error
}

func (f *fakeAPI) UploadResume(ctx context.Context, token, filename string, r io.Reader) (*models.UploadReceipt, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, filename)
	err := f.submitErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	f.feed.push(f.onSubmit...)
	return &models.UploadReceipt{ResumeID: "r1", Filename: filename, Message: "uploaded"}, nil
}

func (f *fakeAPI) SubmitMatch(ctx context.Context, token string, req models.MatchRequest) (*models.MatchReceipt, error) {
	f.mu.Lock()
	f.matchReqs = append(f.matchReqs, req)
	err := f.submitErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	f.feed.push(f.onSubmit...)
	return &models.MatchReceipt{Message: "matching started"}, nil
}

func (f *fakeAPI) GetResume(ctx context.Context, token string, id models.ID) (*models.ResumeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeRead = append(f.resumeRead, id)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return &models.ResumeRecord{ID: id, Filename: "cv.pdf", Status: models.StatusAnalyzed, Skills: []string{"Go", "SQL"}}, nil
}

func (f *fakeAPI) GetMatch(ctx context.Context, token string, id models.ID) (*models.MatchRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchRead = append(f.matchRead, id)
	if f.readErr != nil {
		return nil, f.readErr
	}
	return &models.MatchRecord{ID: id, FitScore: 72, Strengths: []string{"Go"}, MissingSkills: []string{"Kafka"}}, nil
}

func (f *fakeAPI) AdminStats(ctx context.Context, token string) (*models.AdminStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

// feed is a realtime.Dialer whose single connection replays pushed events.
type feed struct {
	events chan models.ProgressEvent
}

func (f *feed) push(evs ...models.ProgressEvent) {
	for _, ev := range evs {
		f.events <- ev
	}
}

func (f *feed) Dial(ctx context.Context, url, token string) (realtime.Conn, error) {
	return &feedConn{events: f.events, closed: make(chan struct{})}, nil
}

type feedConn struct {
	events <-chan models.ProgressEvent
	once   sync.Once
	closed chan struct{}
}

func (c *feedConn) Read(ctx context.Context) (models.ProgressEvent, error) {
	select {
	case ev := <-c.events:
		return ev, nil
	case <-c.closed:
		return models.ProgressEvent{}, io.EOF
	case <-ctx.Done():
		return models.ProgressEvent{}, ctx.Err()
	}
}

func (c *feedConn) Write(ctx context.Context, v any) error { return nil }

func (c *feedConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// newChannel returns a connected channel fed by the returned feed.
func newChannel(t *testing.T) (*realtime.Channel, *feed) {
	t.Helper()
	f := &feed{events: make(chan models.ProgressEvent, 32)}
	ch := realtime.NewChannel("ws://test/ws/updates", f, realtime.Options{ReconnectDelay: 10 * time.Millisecond}, logging.Nop())
	ch.Connect("tok")
	t.Cleanup(ch.Disconnect)
	require.Eventually(t, ch.Connected, waitFor, 5*time.Millisecond)
	return ch, f
}

// newTestApp builds an App around sess and api with scripted stdin.
func newTestApp(t *testing.T, sess *fakeSession, api *fakeAPI, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	ch, f := newChannel(t)
	if api == nil {
		api = &fakeAPI{}
	}
	api.feed = f

	out := &bytes.Buffer{}
	a := NewApp(sess, api, ch, logging.Nop())
	a.in = bufio.NewReader(strings.NewReader(strings.Join(input, "\n")))
	a.out = out
	return a, out
}

func stubInputs(t *testing.T, lines []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	next := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if next >= len(lines) {
			return "", io.EOF
		}
		next++
		return lines[next-1], nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
}

func noInterrupt(t *testing.T) {
	t.Helper()
	orig := interruptContext
	interruptContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithCancel(ctx)
	}
	t.Cleanup(func() { interruptContext = orig })
}

var _ gate.SessionSource = (*fakeSession)(nil)
