package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"choreify/models"
)

func newTestLocalProvider(t *testing.T) *LocalProvider {
	t.Helper()
	p, err := NewLocalProvider(LocalConfig{
		Secret:     []byte("test-secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestLocalProvider_SignUpThenSignIn(t *testing.T) {
	p := newTestLocalProvider(t)
	ctx := context.Background()

	var events []Event
	unsubscribe := p.OnChange(func(ev Event) { events = append(events, ev) })
	defer unsubscribe()

	created, err := p.SignUp(ctx, SignUpRequest{
		Email:    "Jo@Example.com",
		Password: "hunter22",
		Metadata: map[string]string{"fullName": "Jo Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", created.User.Email)
	assert.Equal(t, "Jo Doe", created.User.FullName)
	assert.Equal(t, models.RoleCustomer, created.Role)
	assert.NotEmpty(t, created.AccessToken)

	signedIn, err := p.SignIn(ctx, Credentials{Email: "jo@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, signedIn.ID)
	assert.Equal(t, created.User.ID, signedIn.User.ID)

	require.Len(t, events, 2)
	assert.Equal(t, EventSignedIn, events[0].Type)
	assert.Equal(t, created.ID, events[0].SessionID)
	assert.Equal(t, EventSignedIn, events[1].Type)
}

func TestLocalProvider_DuplicateEmail(t *testing.T) {
	p := newTestLocalProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, SignUpRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = p.SignUp(ctx, SignUpRequest{Email: "A@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLocalProvider_WrongPassword(t *testing.T) {
	p := newTestLocalProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, SignUpRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = p.SignIn(ctx, Credentials{Email: "a@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.SignIn(ctx, Credentials{Email: "ghost@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalProvider_GetSessionFromToken(t *testing.T) {
	p := newTestLocalProvider(t)
	ctx := context.Background()

	created, err := p.SignUp(ctx, SignUpRequest{Email: "w@example.com", Password: "secret1", Metadata: map[string]string{"role": "worker"}})
	require.NoError(t, err)

	got, err := p.GetSession(ctx, created.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, got.User.ID)
	assert.Equal(t, models.RoleWorker, got.Role)
	assert.False(t, got.Expired(time.Now()))

	_, err = p.GetSession(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLocalProvider_RefreshKeepsSessionID(t *testing.T) {
	p := newTestLocalProvider(t)
	ctx := context.Background()

	created, err := p.SignUp(ctx, SignUpRequest{Email: "r@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, p.SetRole("r@example.com", models.RoleAdmin))

	var got []Event
	defer p.OnChange(func(ev Event) { got = append(got, ev) })()

	refreshed, err := p.Refresh(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, refreshed.ID)
	assert.Equal(t, models.RoleAdmin, refreshed.Role)
	assert.NotEqual(t, created.RefreshToken, refreshed.RefreshToken)
	require.Len(t, got, 1)
	assert.Equal(t, EventTokenRefreshed, got[0].Type)

	// Refresh tokens are single use.
	_, err = p.Refresh(ctx, created)
	assert.ErrorIs(t, err, ErrRefreshUnavailable)
}

func TestLocalProvider_SignOutEmitsEvent(t *testing.T) {
	p := newTestLocalProvider(t)
	ctx := context.Background()

	created, err := p.SignUp(ctx, SignUpRequest{Email: "o@example.com", Password: "secret1"})
	require.NoError(t, err)

	var got []Event
	defer p.OnChange(func(ev Event) { got = append(got, ev) })()

	require.NoError(t, p.SignOut(ctx, created))
	require.Len(t, got, 1)
	assert.Equal(t, EventSignedOut, got[0].Type)
	assert.Equal(t, created.ID, got[0].SessionID)
	assert.Nil(t, got[0].Session)
}

func TestEmitter_Unsubscribe(t *testing.T) {
	var e Emitter
	calls := 0
	unsubscribe := e.OnChange(func(Event) { calls++ })

	e.Emit(Event{Type: EventUserUpdated})
	unsubscribe()
	unsubscribe()
	e.Emit(Event{Type: EventUserUpdated})

	assert.Equal(t, 1, calls)
}
