package access

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"choreify/models"
)

func sessionWithRole(role string) *models.Session {
	return &models.Session{ID: "s-1", User: models.SessionUser{ID: "u-1", Email: "sam@example.com"}, Role: models.Role(role)}
}

func TestDecide_LoadingMakesNoDecision(t *testing.T) {
	d := Decide(State{Loading: true}, Guard{RequireAuth: true, AllowedRoles: []string{"ADMIN"}}, "/admin")
	assert.Equal(t, OutcomeLoading, d.Outcome)
	assert.Empty(t, d.RedirectTo)
}

func TestDecide_UnauthenticatedRedirectsWithReturnTo(t *testing.T) {
	d := Decide(State{}, Guard{RequireAuth: true}, "/dashboard/bookings")

	require.Equal(t, OutcomeRedirect, d.Outcome)
	u, err := url.Parse(d.RedirectTo)
	require.NoError(t, err)
	assert.Equal(t, "/login", u.Path)
	assert.Equal(t, "/dashboard/bookings", u.Query().Get("returnTo"))
	assert.Equal(t, "Please sign in to continue booking", u.Query().Get("message"))
}

func TestDecide_RedirectUsesGuardLoginPathAndMessage(t *testing.T) {
	d := Decide(State{}, Guard{RequireAuth: true, LoginPath: "/signin", Message: "Workers only"}, "/worker/dashboard")

	u, err := url.Parse(d.RedirectTo)
	require.NoError(t, err)
	assert.Equal(t, "/signin", u.Path)
	assert.Equal(t, "Workers only", u.Query().Get("message"))
	assert.Equal(t, "Workers only", d.Message)
}

func TestDecide_PublicRouteAllowsAnonymous(t *testing.T) {
	d := Decide(State{}, Guard{}, "/services")
	assert.Equal(t, OutcomeAllowed, d.Outcome)
}

func TestDecide_AnyAuthenticatedRole(t *testing.T) {
	d := Decide(State{Session: sessionWithRole("")}, Guard{RequireAuth: true}, "/dashboard")
	assert.Equal(t, OutcomeAllowed, d.Outcome)
}

func TestDecide_RoleMatchIsCaseInsensitive(t *testing.T) {
	d := Decide(State{Session: sessionWithRole(" worker ")}, Guard{RequireAuth: true, AllowedRoles: []string{"Worker", "admin"}}, "/worker/dashboard")
	assert.Equal(t, OutcomeAllowed, d.Outcome)
	assert.False(t, d.ReadOnly)
}

func TestDecide_RoleMismatchIsDeniedNotRedirected(t *testing.T) {
	d := Decide(State{Session: sessionWithRole("worker")}, Guard{RequireAuth: true, AllowedRoles: []string{"ADMIN"}}, "/admin")
	assert.Equal(t, OutcomeDenied, d.Outcome)
	assert.Empty(t, d.RedirectTo)
}

func TestDecide_MissingRoleIsDenied(t *testing.T) {
	d := Decide(State{Session: sessionWithRole("")}, Guard{RequireAuth: true, AllowedRoles: []string{"CUSTOMER"}}, "/dashboard")
	assert.Equal(t, OutcomeDenied, d.Outcome)
}

func TestDecide_ApplicantCarveOut(t *testing.T) {
	guard := Guard{RequireAuth: true, AllowedRoles: []string{"worker", "admin"}}

	d := Decide(State{Session: sessionWithRole("CUSTOMER")}, guard, "/worker/application-status")
	assert.Equal(t, OutcomeAllowed, d.Outcome)
	assert.True(t, d.ReadOnly)

	d = Decide(State{Session: sessionWithRole("customer")}, guard, "/api/worker/application-status")
	assert.Equal(t, OutcomeAllowed, d.Outcome)
	assert.True(t, d.ReadOnly)
}

func TestDecide_CarveOutNeedsWorkerPathAndExactRoleSet(t *testing.T) {
	customer := State{Session: sessionWithRole("CUSTOMER")}

	d := Decide(customer, Guard{RequireAuth: true, AllowedRoles: []string{"worker", "admin"}}, "/admin")
	assert.Equal(t, OutcomeDenied, d.Outcome)

	d = Decide(customer, Guard{RequireAuth: true, AllowedRoles: []string{"worker"}}, "/worker/dashboard")
	assert.Equal(t, OutcomeDenied, d.Outcome)

	d = Decide(customer, Guard{RequireAuth: true, AllowedRoles: []string{"worker", "admin", "support"}}, "/worker/dashboard")
	assert.Equal(t, OutcomeDenied, d.Outcome)

	d = Decide(State{Session: sessionWithRole("")}, Guard{RequireAuth: true, AllowedRoles: []string{"worker", "admin"}}, "/worker/dashboard")
	assert.Equal(t, OutcomeDenied, d.Outcome)
}

func TestLoginMessage(t *testing.T) {
	assert.Equal(t, "Please sign in to access the worker portal", LoginMessage("/api/worker/bookings"))
	assert.Equal(t, "Please sign in with an administrator account", LoginMessage("/admin"))
	assert.Equal(t, "Please sign in to continue", LoginMessage("/apiary"))
}
