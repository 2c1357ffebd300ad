package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/realtime"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

// Snapshot is a copy of the session state.
type Snapshot struct {
	Token    string
	User     *models.UserRecord
	Resolved bool
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Manager implements the session lifecycle.
//
// Mutating operations (Bootstrap, Login, Register, Logout and token
// rejection reported by the channel) are serialized. Readers never block on
// network calls.
type Manager struct {
	api     client.Client
	store   CredentialStore
	channel realtime.Connector
	logger  logging.Logger
	now     func() time.Time

	bootOnce sync.Once
	opMu     sync.Mutex

	mu       sync.RWMutex
	token    string
	user     *models.UserRecord
	resolved bool

	resolvedCh chan struct{}
	changes    chan struct{}
}

// NewManager builds a Manager and registers it as the channel's rejection
// handler.
func NewManager(api client.Client, store CredentialStore, channel realtime.Connector, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	m := &Manager{
		api:        api,
		store:      store,
		channel:    channel,
		logger:     logger.With("component", "session"),
		now:        time.Now,
		resolvedCh: make(chan struct{}),
		changes:    make(chan struct{}, 1),
	}
	channel.OnRejected(m.handleRejected)
	return m
}

// Bootstrap restores the persisted session and verifies it with the
// server. Only the first call does anything. It never leaves the session
// unresolved; the returned error explains why a stored session was
// discarded and is informational.
func (m *Manager) Bootstrap(ctx context.Context) error {
	var err error
	m.bootOnce.Do(func() {
		m.opMu.Lock()
		defer m.opMu.Unlock()
		defer m.markResolved()

		err = m.bootstrap(ctx)
	})
	return err
}

func (m *Manager) bootstrap(ctx context.Context) error {
	token, user, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn(ctx, "persisted session unreadable, discarding", "error", err)
		m.discard(ctx)
		return storageFailure(err, "saved session could not be read")
	}
	if token == "" {
		m.logger.Debug(ctx, "no persisted session")
		return nil
	}

	m.set(token, user)

	if m.expired(token) {
		m.logger.Info(ctx, "persisted token expired", "token", logging.Fingerprint(token))
		m.discard(ctx)
		return &Failure{Kind: KindAuthentication, Reason: "session expired, please log in again"}
	}

	fresh, err := m.api.Me(ctx, token)
	if err != nil {
		f := classify(err, "session could not be verified")
		m.logger.Info(ctx, "session verification failed", "kind", f.Kind, "error", err)
		m.discard(ctx)
		return f
	}

	if err := m.store.Save(ctx, token, fresh); err != nil {
		m.logger.Error(ctx, "failed to persist verified session", "error", err)
		m.discard(ctx)
		return storageFailure(err, "could not save session")
	}

	m.set(token, fresh)
	m.channel.Connect(token)
	m.logger.Info(ctx, "session restored", "user", fresh.Email)
	return nil
}

// Login exchanges credentials for a token, fetches the user and persists
// both. On failure nothing changes.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return validation("email and password are required")
	}

	m.bootOnce.Do(m.markResolved)
	m.opMu.Lock()
	defer m.opMu.Unlock()

	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		f := classify(err, "login failed")
		m.logger.Info(ctx, "login failed", "kind", f.Kind, "error", err)
		return f
	}

	user, err := m.api.Me(ctx, token)
	if err != nil {
		f := classify(err, "could not load user profile")
		m.logger.Info(ctx, "profile fetch after login failed", "kind", f.Kind, "error", err)
		return f
	}

	if err := m.store.Save(ctx, token, user); err != nil {
		m.logger.Error(ctx, "failed to persist session", "error", err)
		return storageFailure(err, "could not save session")
	}

	m.set(token, user)
	m.channel.Connect(token)
	m.logger.Info(ctx, "logged in", "user", user.Email, "token", logging.Fingerprint(token))
	return nil
}

// Register creates an account and logs in with the same credentials.
func (m *Manager) Register(ctx context.Context, reg models.Registration) error {
	reg.FullName = strings.TrimSpace(reg.FullName)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.FullName == "" || reg.Email == "" || reg.Password == "" {
		return validation("full name, email and password are required")
	}

	if err := m.api.Register(ctx, reg); err != nil {
		f := classify(err, "registration failed")
		m.logger.Info(ctx, "registration failed", "kind", f.Kind, "error", err)
		return f
	}
	return m.Login(ctx, reg.Email, reg.Password)
}

// Logout clears the session and closes the channel. It never fails;
// storage errors are logged.
func (m *Manager) Logout(ctx context.Context) {
	m.bootOnce.Do(m.markResolved)
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.discard(ctx)
	m.logger.Info(ctx, "logged out")
}

// Close releases the event channel at process exit. The persisted session
// is kept for the next start.
func (m *Manager) Close() {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.channel.Disconnect()
}

// handleRejected runs when the channel reports that the server refused
// token. A rejection for a token that is no longer current is ignored.
func (m *Manager) handleRejected(token string) {
	ctx := context.Background()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.Token() != token {
		m.logger.Debug(ctx, "ignoring rejection of stale token", "token", logging.Fingerprint(token))
		return
	}

	m.logger.Warn(ctx, "event channel rejected token, clearing session", "token", logging.Fingerprint(token))
	m.discard(ctx)
}

// discard clears memory, the channel and the store. Callers hold opMu.
func (m *Manager) discard(ctx context.Context) {
	m.set("", nil)
	m.channel.Disconnect()
	if err := m.store.Clear(context.WithoutCancel(ctx)); err != nil {
		m.logger.Error(ctx, "failed to clear persisted session", "error", err)
	}
}

func (m *Manager) expired(token string) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Not a JWT; only the server can judge it.
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(m.now())
}

func (m *Manager) set(token string, user *models.UserRecord) {
	if (token == "") != (user == nil) {
		panic("session: token and user must be set together")
	}

	m.mu.Lock()
	m.token, m.user = token, user
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) markResolved() {
	m.mu.Lock()
	already := m.resolved
	m.resolved = true
	m.mu.Unlock()

	if !already {
		close(m.resolvedCh)
		m.notify()
	}
}

func (m *Manager) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{Token: m.token, Resolved: m.resolved}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Token returns the current token or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns a copy of the current user or nil.
func (m *Manager) User() *models.UserRecord {
	return m.Snapshot().User
}

// Resolved is closed once the session has been resolved.
func (m *Manager) Resolved() <-chan struct{} {
	return m.resolvedCh
}

// Changes is signalled after state changes. Signals are coalesced and the
// channel is meant for a single consumer.
func (m *Manager) Changes() <-chan struct{} {
	return m.changes
}
