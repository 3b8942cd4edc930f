// Package access decides whether a caller may reach protected content.
package access

import (
	"net/url"
	"strings"

	"choreify/models"
)

// Outcome is the terminal state of one navigation attempt.
type Outcome int

const (
	// OutcomeLoading means the session is still being restored; no decision is made.
	OutcomeLoading Outcome = iota
	// OutcomeRedirect sends the caller to the login page.
	OutcomeRedirect
	// OutcomeDenied renders a not-authorized view in place.
	OutcomeDenied
	// OutcomeAllowed renders the protected content.
	OutcomeAllowed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeDenied:
		return "denied"
	case OutcomeAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// DefaultLoginPath is where unauthenticated callers are sent.
const DefaultLoginPath = "/login"

// State is the caller's session as seen by the gate.
type State struct {
	Loading bool
	Session *models.Session
}

// Role returns the normalized role of the session, or "" when absent.
func (s State) Role() models.Role {
	if s.Session == nil {
		return ""
	}
	return models.NormalizeRole(string(s.Session.Role))
}

// Guard describes who may reach a route.
type Guard struct {
	RequireAuth bool
	// AllowedRoles is matched case-insensitively; empty means any authenticated role.
	AllowedRoles []string
	LoginPath    string
	// Message is shown on the login page; derived from the path when empty.
	Message string
}

// Decision is the gate's verdict.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
	Message    string
	// ReadOnly is set when access comes from the applicant carve-out.
	ReadOnly bool
}

// Decide runs the gate for a caller attempting to reach path.
func Decide(state State, guard Guard, path string) Decision {
	if state.Loading {
		return Decision{Outcome: OutcomeLoading}
	}

	if state.Session == nil {
		if !guard.RequireAuth {
			return Decision{Outcome: OutcomeAllowed}
		}
		msg := guard.Message
		if msg == "" {
			msg = LoginMessage(path)
		}
		return Decision{
			Outcome:    OutcomeRedirect,
			RedirectTo: LoginURL(guard.LoginPath, path, msg),
			Message:    msg,
		}
	}

	allowed := normalizeRoles(guard.AllowedRoles)
	if len(allowed) == 0 {
		return Decision{Outcome: OutcomeAllowed}
	}

	role := state.Role()
	if role != "" {
		if _, ok := allowed[role]; ok {
			return Decision{Outcome: OutcomeAllowed}
		}
	}

	if applicantCarveOut(allowed, role, path) {
		return Decision{Outcome: OutcomeAllowed, ReadOnly: true}
	}

	return Decision{
		Outcome: OutcomeDenied,
		Message: "You are not authorized to view this page.",
	}
}

// applicantCarveOut lets a pending applicant (still a CUSTOMER) read the
// worker pages, where the application status lives. It is a single allow
// rule, not a role hierarchy.
func applicantCarveOut(allowed map[models.Role]struct{}, role models.Role, path string) bool {
	if role != models.RoleCustomer || len(allowed) != 2 {
		return false
	}
	_, worker := allowed[models.RoleWorker]
	_, admin := allowed[models.RoleAdmin]
	return worker && admin && strings.HasPrefix(areaPath(path), "/worker")
}

// areaPath maps a JSON endpoint onto the page area it serves, so
// "/api/worker/bookings" belongs to "/worker".
func areaPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/api"); ok && strings.HasPrefix(rest, "/") {
		return rest
	}
	return path
}

func normalizeRoles(roles []string) map[models.Role]struct{} {
	out := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		if n := models.NormalizeRole(r); n != "" {
			out[n] = struct{}{}
		}
	}
	return out
}

// LoginURL builds the login redirect carrying the requested path.
func LoginURL(loginPath, returnTo, message string) string {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	q := url.Values{}
	q.Set("returnTo", returnTo)
	if message != "" {
		q.Set("message", message)
	}
	return loginPath + "?" + q.Encode()
}

// LoginMessage picks the sign-in prompt for the area being entered.
func LoginMessage(path string) string {
	area := areaPath(path)
	switch {
	case strings.HasPrefix(area, "/worker"):
		return "Please sign in to access the worker portal"
	case strings.HasPrefix(area, "/admin"):
		return "Please sign in with an administrator account"
	case strings.HasPrefix(area, "/dashboard"), strings.HasPrefix(area, "/book"), strings.HasPrefix(area, "/profile"), strings.HasPrefix(area, "/cart"):
		return "Please sign in to continue booking"
	default:
		return "Please sign in to continue"
	}
}
