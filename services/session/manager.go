package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"choreify/models"
	"choreify/services/identity"

	"go.uber.org/zap"
)

// ErrStopped is returned by Dispatch once Run has returned.
var ErrStopped = errors.New("session manager stopped")

const attachTimeout = 5 * time.Second

// Listener observes an event after it has been applied. s is the stored
// session, nil when the event destroyed it.
type Listener func(ev identity.Event, s *models.Session)

type envelope struct {
	ev   identity.Event
	done chan error
}

// Manager owns the session store. Run is its only writer; everything else
// goes through Dispatch.
type Manager struct {
	repo   Repository
	grace  time.Duration
	logger *zap.Logger
	now    func() time.Time

	events  chan envelope
	stopped chan struct{}
	ready   atomic.Bool

	provider identity.Provider

	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

// NewManager creates a Manager. grace is how long a session is kept past its
// token expiry so it can still be refreshed.
func NewManager(repo Repository, grace time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		repo:      repo,
		grace:     grace,
		logger:    logger,
		now:       time.Now,
		events:    make(chan envelope),
		stopped:   make(chan struct{}),
		listeners: make(map[int]Listener),
	}
}

// Run applies dispatched events until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	m.ready.Store(true)
	m.logger.Info("Session manager started")
	defer func() {
		m.ready.Store(false)
		close(m.stopped)
		m.logger.Info("Session manager stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case env := <-m.events:
			env.done <- m.apply(ctx, env.ev)
		}
	}
}

// Ready reports whether the writer is running. Until then session state is
// unknown and access decisions report Loading.
func (m *Manager) Ready() bool {
	return m.ready.Load()
}

// Dispatch hands ev to the writer and waits for it to be applied.
func (m *Manager) Dispatch(ctx context.Context, ev identity.Event) error {
	env := envelope{ev: ev, done: make(chan error, 1)}
	select {
	case m.events <- env:
	case <-m.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-env.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attach subscribes the manager to p's change stream and uses p to refresh
// expired sessions. The returned func detaches it.
func (m *Manager) Attach(p identity.Provider) func() {
	m.provider = p
	return p.OnChange(func(ev identity.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), attachTimeout)
		defer cancel()
		if err := m.Dispatch(ctx, ev); err != nil {
			m.logger.Error("Failed to apply auth event",
				zap.String("event", string(ev.Type)),
				zap.String("sessionID", ev.SessionID),
				zap.Error(err))
		}
	})
}

// Subscribe registers fn for every applied event.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// Current returns the live session for id, or nil. An expired session is
// refreshed when possible and otherwise expired through the writer.
func (m *Manager) Current(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, nil
	}
	s, err := m.repo.Get(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	if !s.Expired(m.now()) {
		return s, nil
	}

	if m.provider != nil && s.RefreshToken != "" {
		next, err := m.provider.Refresh(ctx, s)
		if err == nil {
			return next, nil
		}
		m.logger.Debug("Session refresh failed", zap.String("sessionID", id), zap.Error(err))
	}

	if err := m.Dispatch(ctx, identity.Event{Type: identity.EventSessionExpired, SessionID: id}); err != nil {
		return nil, err
	}
	return nil, nil
}

// Store records s as the current session through the writer. Used for
// sessions resolved from bearer tokens, which no provider event announces.
func (m *Manager) Store(ctx context.Context, s *models.Session) error {
	return m.Dispatch(ctx, identity.NewEvent(identity.EventUserUpdated, s))
}

func (m *Manager) apply(ctx context.Context, ev identity.Event) error {
	id := ev.SessionID
	if id == "" && ev.Session != nil {
		id = ev.Session.ID
	}
	if id == "" {
		return errors.New("session event without session id")
	}

	prev, err := m.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	next := Reduce(prev, ev)

	if next == nil {
		if prev != nil {
			if err := m.repo.Delete(ctx, id); err != nil {
				return err
			}
		}
	} else {
		next.ID = id
		if err := m.repo.Put(ctx, next, m.ttl(next)); err != nil {
			return err
		}
	}

	m.logger.Debug("Session event applied",
		zap.String("event", string(ev.Type)),
		zap.String("sessionID", id),
		zap.Bool("present", next != nil))
	m.notify(identity.Event{Type: ev.Type, SessionID: id, Session: next}, next)
	return nil
}

func (m *Manager) ttl(s *models.Session) time.Duration {
	if s.ExpiresAt.IsZero() {
		return m.grace
	}
	ttl := s.ExpiresAt.Sub(m.now()) + m.grace
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func (m *Manager) notify(ev identity.Event, s *models.Session) {
	m.mu.RLock()
	ls := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		ls = append(ls, fn)
	}
	m.mu.RUnlock()

	for _, fn := range ls {
		fn(ev, s)
	}
}
