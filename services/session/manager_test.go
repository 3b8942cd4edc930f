package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"choreify/models"
	"choreify/services/identity"
)

func startManager(t *testing.T) (*Manager, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	m := NewManager(repo, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, m.Ready, time.Second, 5*time.Millisecond)
	return m, repo
}

func testSession(id string, role models.Role) *models.Session {
	return &models.Session{
		ID:          id,
		User:        models.SessionUser{ID: "u-" + id, Email: id + "@example.com"},
		Role:        role,
		AccessToken: "token-" + id,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestReduce(t *testing.T) {
	prev := testSession("s1", models.RoleCustomer)
	prev.Profile = &models.Profile{City: "Toronto"}

	next := testSession("s1", models.RoleWorker)
	got := Reduce(prev, identity.NewEvent(identity.EventUserUpdated, next))
	require.NotNil(t, got)
	assert.Equal(t, models.RoleWorker, got.Role)
	assert.Nil(t, got.Profile, "sessions are replaced, not merged")

	assert.Nil(t, Reduce(prev, identity.Event{Type: identity.EventSignedOut, SessionID: "s1"}))
	assert.Nil(t, Reduce(prev, identity.Event{Type: identity.EventSessionExpired, SessionID: "s1"}))
	assert.Same(t, prev, Reduce(prev, identity.Event{Type: identity.EventTokenRefreshed}))
	assert.Same(t, prev, Reduce(prev, identity.Event{Type: "UNKNOWN", SessionID: "s1"}))
}

func TestManager_NotReadyBeforeRun(t *testing.T) {
	m := NewManager(NewMemoryRepository(), time.Hour, zap.NewNop())
	assert.False(t, m.Ready())
}

func TestManager_DispatchStoresAndDeletes(t *testing.T) {
	m, _ := startManager(t)
	ctx := context.Background()

	s := testSession("s1", models.RoleCustomer)
	require.NoError(t, m.Dispatch(ctx, identity.NewEvent(identity.EventSignedIn, s)))

	got, err := m.Current(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleCustomer, got.Role)

	require.NoError(t, m.Dispatch(ctx, identity.Event{Type: identity.EventSignedOut, SessionID: "s1"}))
	got, err = m.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_ListenersSeeAppliedState(t *testing.T) {
	m, _ := startManager(t)
	ctx := context.Background()

	var mu sync.Mutex
	var seen []identity.EventType
	unsubscribe := m.Subscribe(func(ev identity.Event, s *models.Session) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ev.Type)
		if ev.Type == identity.EventSignedOut {
			assert.Nil(t, s)
		} else {
			assert.NotNil(t, s)
		}
	})

	require.NoError(t, m.Dispatch(ctx, identity.NewEvent(identity.EventSignedIn, testSession("s1", ""))))
	require.NoError(t, m.Dispatch(ctx, identity.Event{Type: identity.EventSignedOut, SessionID: "s1"}))
	unsubscribe()
	require.NoError(t, m.Dispatch(ctx, identity.NewEvent(identity.EventSignedIn, testSession("s2", ""))))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []identity.EventType{identity.EventSignedIn, identity.EventSignedOut}, seen)
}

func TestManager_ExpiredSessionIsAbsent(t *testing.T) {
	m, repo := startManager(t)
	ctx := context.Background()

	s := testSession("s1", models.RoleCustomer)
	s.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Put(ctx, s, time.Hour))

	var expired bool
	defer m.Subscribe(func(ev identity.Event, _ *models.Session) {
		if ev.Type == identity.EventSessionExpired {
			expired = true
		}
	})()

	got, err := m.Current(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, expired)

	stored, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestManager_AttachAppliesProviderEvents(t *testing.T) {
	m, _ := startManager(t)
	ctx := context.Background()

	p, err := identity.NewLocalProvider(identity.LocalConfig{
		Secret:     []byte("secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zap.NewNop())
	require.NoError(t, err)
	defer m.Attach(p)()

	s, err := p.SignUp(ctx, identity.SignUpRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := m.Current(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.AccessToken, got.AccessToken)

	require.NoError(t, p.SignOut(ctx, s))
	got, err = m.Current(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManager_ExpiredSessionRefreshes(t *testing.T) {
	m, repo := startManager(t)
	ctx := context.Background()

	p, err := identity.NewLocalProvider(identity.LocalConfig{
		Secret:     []byte("secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zap.NewNop())
	require.NoError(t, err)
	defer m.Attach(p)()

	s, err := p.SignUp(ctx, identity.SignUpRequest{Email: "b@example.com", Password: "secret1"})
	require.NoError(t, err)

	stale := *s
	stale.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, repo.Put(ctx, &stale, time.Hour))

	got, err := m.Current(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.ID, got.ID)
	assert.NotEqual(t, s.RefreshToken, got.RefreshToken)

	stored, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Expired(time.Now()))
}

func TestManager_DispatchAfterStop(t *testing.T) {
	m := NewManager(NewMemoryRepository(), time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	err := m.Dispatch(context.Background(), identity.NewEvent(identity.EventSignedIn, testSession("s1", "")))
	assert.ErrorIs(t, err, ErrStopped)
	assert.False(t, m.Ready())
}

func TestMemoryRepository_TTL(t *testing.T) {
	repo := NewMemoryRepository()
	now := time.Now()
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, testSession("s1", ""), time.Minute))
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(2 * time.Minute)
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
