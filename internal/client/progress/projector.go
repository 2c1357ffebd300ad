package progress

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/realtime"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

// TokenSource supplies the bearer token for REST calls.
type TokenSource interface {
	Token() string
}

// Kind describes one job type.
type Kind[R any] struct {
	Name     string
	Topic    string
	Terminal models.Status
	// Artifact picks the id to read from the terminal event; hint is the id
	// learned from the submission response, if any.
	Artifact func(ev models.ProgressEvent, hint models.ID) (models.ID, error)
	Fetch    func(ctx context.Context, token string, id models.ID) (*R, error)
}

const updatesBuffer = 16

// Projector folds one topic into State. Create it with NewProjector (or the
// résumé and match constructors), then Mount, Submit and finally Unmount.
type Projector[R any] struct {
	kind   Kind[R]
	sub    realtime.Subscriber
	tokens TokenSource
	logger logging.Logger

	mu           sync.Mutex
	ctx          context.Context
	mounted      bool
	subscription *realtime.Subscription
	state        State[R]
	terminal     bool
	hint         models.ID
	doneClosed   bool

	updates chan State[R]
	done    chan struct{}
}

func NewProjector[R any](kind Kind[R], sub realtime.Subscriber, tokens TokenSource, logger logging.Logger) *Projector[R] {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Projector[R]{
		kind:    kind,
		sub:     sub,
		tokens:  tokens,
		logger:  logger.With("component", "progress", "kind", kind.Name),
		updates: make(chan State[R], updatesBuffer),
		done:    make(chan struct{}),
	}
}

// Mount registers the projector's handler. ctx bounds the REST calls the
// projector makes on its own, such as the terminal read; Unmount does not
// cancel it. Mounting twice is a no-op.
func (p *Projector[R]) Mount(ctx context.Context) {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return
	}
	p.ctx = ctx
	p.mounted = true
	p.mu.Unlock()

	s := p.sub.On(p.kind.Topic, p.handle)

	p.mu.Lock()
	p.subscription = s
	stillMounted := p.mounted
	p.mu.Unlock()

	if !stillMounted {
		s.Close()
	}
}

// Unmount releases the subscription. Later events and REST completions
// produce no state writes.
func (p *Projector[R]) Unmount() {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return
	}
	p.mounted = false
	s := p.subscription
	p.subscription = nil
	p.mu.Unlock()

	s.Close()
	p.logger.Debug(context.Background(), "unmounted")
}

// Mounted reports whether the projector is mounted.
func (p *Projector[R]) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// State returns the current projection.
func (p *Projector[R]) State() State[R] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Updates delivers every state change. When the reader falls behind, the
// oldest pending states are dropped.
func (p *Projector[R]) Updates() <-chan State[R] {
	return p.updates
}

// Done is closed when the projection reaches PhaseReady or PhaseFailed.
func (p *Projector[R]) Done() <-chan struct{} {
	return p.done
}

// submit runs the triggering request. A failed submission moves the
// projection straight to PhaseFailed. hint, when non-empty, is used as the
// artifact id if the terminal event does not carry one.
func (p *Projector[R]) submit(ctx context.Context, call func(ctx context.Context, token string) (models.ID, string, error)) error {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return ErrNotMounted
	}
	if p.state.Phase == PhaseIdle {
		p.state.Phase = PhaseSubmitting
		p.publishLocked()
	}
	p.mu.Unlock()

	hint, message, err := call(ctx, p.tokens.Token())

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mounted {
		p.logger.Debug(ctx, "dropping submission result after unmount", "error", err)
		return err
	}

	if err != nil {
		p.logger.Warn(ctx, "submission failed", "error", err)
		if !p.terminal {
			p.terminal = true
			p.state.Phase = PhaseFailed
			p.state.Err = err
			p.publishLocked()
			p.closeDoneLocked()
		}
		return err
	}

	if !hint.IsZero() {
		p.hint = hint
	}
	if p.state.Phase == PhaseSubmitting {
		p.state.Phase = PhaseInProgress
		if p.state.Message == "" {
			p.state.Message = message
		}
		p.publishLocked()
	}
	return nil
}

func (p *Projector[R]) handle(ev models.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mounted {
		return
	}
	if p.terminal {
		p.logger.Debug(p.ctx, "ignoring event after terminal status", "status", ev.Status)
		return
	}

	isTerminal := ev.Status == p.kind.Terminal || ev.Status == models.StatusFailed
	if !isTerminal {
		if ev.Progress < p.state.Progress {
			p.logger.Debug(p.ctx, "ignoring stale event", "status", ev.Status, "progress", ev.Progress)
			return
		}
		if p.state.Phase == PhaseInProgress && ev.Status == p.state.Status &&
			ev.Progress == p.state.Progress && ev.Message == p.state.Message {
			return
		}
	}

	p.state.Status = ev.Status
	p.state.Progress = clamp(ev.Progress)
	p.state.Message = ev.Message

	switch {
	case ev.Status == models.StatusFailed:
		p.terminal = true
		p.state.Phase = PhaseFailed
		p.state.Err = &JobError{Message: ev.Message}
		p.publishLocked()
		p.closeDoneLocked()

	case isTerminal:
		p.terminal = true
		id, err := p.kind.Artifact(ev, p.hint)
		if err != nil {
			p.state.Phase = PhaseFailed
			p.state.Err = err
			p.publishLocked()
			p.closeDoneLocked()
			return
		}
		p.state.Phase = PhaseFetching
		p.publishLocked()
		go p.fetch(p.ctx, id)

	default:
		p.state.Phase = PhaseInProgress
		p.publishLocked()
	}
}

// fetch performs the terminal read.
func (p *Projector[R]) fetch(ctx context.Context, id models.ID) {
	result, err := p.kind.Fetch(ctx, p.tokens.Token(), id)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.mounted {
		p.logger.Debug(ctx, "dropping result after unmount", "id", id)
		return
	}
	p.applyResultLocked(result, err)
}

// Track sets the artifact id used when the terminal event, or a Refresh,
// carries none.
func (p *Projector[R]) Track(id models.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !id.IsZero() {
		p.hint = id
	}
}

// Refresh reads the artifact on demand. It recovers a projection whose
// terminal event was lost, for example across a reconnect.
func (p *Projector[R]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return ErrNotMounted
	}
	id, err := p.kind.Artifact(models.ProgressEvent{}, p.hint)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	result, err := p.kind.Fetch(ctx, p.tokens.Token(), id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return ErrNotMounted
	}
	if err != nil {
		p.logger.Warn(ctx, "refresh failed", "error", err)
		return err
	}

	p.terminal = true
	p.state.Status = p.kind.Terminal
	p.state.Progress = 100
	p.applyResultLocked(result, nil)
	return nil
}

func (p *Projector[R]) applyResultLocked(result *R, err error) {
	if err != nil {
		p.logger.Warn(p.ctx, "terminal read failed", "error", err)
		p.state.Phase = PhaseFailed
		p.state.Err = err
	} else {
		p.state.Phase = PhaseReady
		p.state.Result = result
		p.state.Err = nil
	}
	p.publishLocked()
	p.closeDoneLocked()
}

func (p *Projector[R]) publishLocked() {
	s := p.state
	for {
		select {
		case p.updates <- s:
			return
		default:
			select {
			case <-p.updates:
			default:
			}
		}
	}
}

func (p *Projector[R]) closeDoneLocked() {
	if !p.doneClosed {
		p.doneClosed = true
		close(p.done)
	}
}

func clamp(v int) int {
	return max(0, min(100, v))
}
