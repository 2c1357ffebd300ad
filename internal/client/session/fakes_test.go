package session

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/models"
)

type fakeAPI struct {
	mu sync.Mutex

	loginToken string
	loginErr   error
	loginCalls int

	meUser  *models.UserRecord
	meErr   error
	meCalls []string
	meGate  chan struct{} // when set, Me blocks until closed

	registerErr   error
	registerCalls []models.Registration
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginCalls++
	return f.loginToken, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, reg models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls = append(f.registerCalls, reg)
	return f.registerErr
}

func (f *fakeAPI) Me(ctx context.Context, token string) (*models.UserRecord, error) {
	f.mu.Lock()
	gate := f.meGate
	f.meCalls = append(f.meCalls, token)
	user, err := f.meUser, f.meErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	u := *user
	return &u, nil
}

func (f *fakeAPI) UploadResume(ctx context.Context, token, filename string, r io.Reader) (*models.UploadReceipt, error) {
	return nil, client.ErrUnavailable
}

func (f *fakeAPI) GetResume(ctx context.Context, token string, id models.ID) (*models.ResumeRecord, error) {
	return nil, client.ErrUnavailable
}

func (f *fakeAPI) SubmitMatch(ctx context.Context, token string, req models.MatchRequest) (*models.MatchReceipt, error) {
	return nil, client.ErrUnavailable
}

func (f *fakeAPI) GetMatch(ctx context.Context, token string, id models.ID) (*models.MatchRecord, error) {
	return nil, client.ErrUnavailable
}

func (f *fakeAPI) AdminStats(ctx context.Context, token string) (*models.AdminStats, error) {
	return nil, client.ErrUnavailable
}

func (f *fakeAPI) meCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.meCalls)
}

type fakeConnector struct {
	mu          sync.Mutex
	connects    []string
	disconnects int
	onRejected  func(token string)
}

func (c *fakeConnector) Connect(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects = append(c.connects, token)
}

func (c *fakeConnector) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects++
}

func (c *fakeConnector) OnRejected(fn func(token string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRejected = fn
}

func (c *fakeConnector) reject(token string) {
	c.mu.Lock()
	fn := c.onRejected
	c.mu.Unlock()
	fn(token)
}

func (c *fakeConnector) state() ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.connects...), c.disconnects
}
