package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"choreify/models"
	"choreify/utils"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// adminClient is the part of the Firebase Admin auth client this provider uses.
type adminClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseConfig configures the Firebase identity provider.
type FirebaseConfig struct {
	APIKey          string
	ProjectID       string
	CredentialsFile string
	HTTPClient      *http.Client
}

// FirebaseProvider signs users in with Firebase Authentication. Password
// flows use the Identity Toolkit REST API; tokens are verified, created and
// revoked with the Admin SDK.
type FirebaseProvider struct {
	Emitter

	admin       adminClient
	apiKey      string
	httpClient  *http.Client
	identityURL string
	tokenURL    string
	logger      *zap.Logger
}

// NewFirebaseProvider initializes the Firebase app and its auth client.
func NewFirebaseProvider(ctx context.Context, cfg FirebaseConfig, logger *zap.Logger) (*FirebaseProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("firebase: api key is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	var fbCfg *firebase.Config
	if cfg.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}

	return newFirebaseProvider(client, cfg.APIKey, cfg.HTTPClient, identityToolkitURL, secureTokenURL, logger), nil
}

func newFirebaseProvider(admin adminClient, apiKey string, httpClient *http.Client, identityURL, tokenURL string, logger *zap.Logger) *FirebaseProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &FirebaseProvider{
		admin:       admin,
		apiKey:      apiKey,
		httpClient:  httpClient,
		identityURL: strings.TrimRight(identityURL, "/"),
		tokenURL:    strings.TrimRight(tokenURL, "/"),
		logger:      logger,
	}
}

type passwordSignInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

type firebaseErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) SignIn(ctx context.Context, creds Credentials) (*models.Session, error) {
	var out passwordSignInResponse
	err := p.postJSON(ctx, p.identityURL+"/accounts:signInWithPassword", map[string]any{
		"email":             creds.Email,
		"password":          creds.Password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}

	session, err := p.sessionFromToken(ctx, out.IDToken, uuid.New().String())
	if err != nil {
		return nil, err
	}
	session.RefreshToken = out.RefreshToken
	if secs, err := strconv.Atoi(out.ExpiresIn); err == nil && session.ExpiresAt.IsZero() {
		session.ExpiresAt = time.Now().Add(time.Duration(secs) * time.Second)
	}

	p.Emit(NewEvent(EventSignedIn, session))
	return session, nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error) {
	params := (&auth.UserToCreate{}).
		Email(req.Email).
		Password(req.Password)
	if name := req.Metadata["fullName"]; name != "" {
		params = params.DisplayName(name)
	}

	rec, err := p.admin.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("firebase: failed to create user: %w", err)
	}

	role := string(models.RoleCustomer)
	if r := req.Metadata["role"]; r != "" {
		role = string(models.NormalizeRole(r))
	}
	if err := p.admin.SetCustomUserClaims(ctx, rec.UID, map[string]interface{}{"role": role}); err != nil {
		p.logger.Warn("firebase: failed to set role claim", zap.String("uid", rec.UID), zap.Error(err))
	}

	return p.SignIn(ctx, Credentials{Email: req.Email, Password: req.Password})
}

func (p *FirebaseProvider) SignOut(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrSessionNotFound
	}
	if err := p.admin.RevokeRefreshTokens(ctx, session.User.ID); err != nil {
		return fmt.Errorf("firebase: failed to revoke tokens: %w", err)
	}
	p.Emit(Event{Type: EventSignedOut, SessionID: session.ID})
	return nil
}

func (p *FirebaseProvider) GetSession(ctx context.Context, accessToken string) (*models.Session, error) {
	return p.sessionFromToken(ctx, accessToken, utils.HashToken(accessToken))
}

func (p *FirebaseProvider) Refresh(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session == nil || session.RefreshToken == "" {
		return nil, ErrRefreshUnavailable
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", session.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL+"/token?key="+url.QueryEscape(p.apiKey), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("firebase: failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out refreshResponse
	if err := p.do(req, &out); err != nil {
		return nil, err
	}

	next, err := p.sessionFromToken(ctx, out.IDToken, session.ID)
	if err != nil {
		return nil, err
	}
	next.RefreshToken = out.RefreshToken
	next.Profile = session.Profile
	if next.Role == "" {
		next.Role = session.Role
	}

	p.Emit(NewEvent(EventTokenRefreshed, next))
	return next, nil
}

// sessionFromToken verifies an ID token and builds a session from its claims.
func (p *FirebaseProvider) sessionFromToken(ctx context.Context, idToken, sessionID string) (*models.Session, error) {
	tok, err := p.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		p.logger.Debug("firebase: token verification failed", zap.Error(err))
		return nil, ErrSessionNotFound
	}

	email, _ := tok.Claims["email"].(string)
	name, _ := tok.Claims["name"].(string)
	role, _ := tok.Claims["role"].(string)

	session := &models.Session{
		ID:          sessionID,
		User:        models.SessionUser{ID: tok.UID, Email: email, FullName: name},
		Role:        models.NormalizeRole(role),
		AccessToken: idToken,
	}
	if tok.Expires > 0 {
		session.ExpiresAt = time.Unix(tok.Expires, 0)
	}
	return session, nil
}

func (p *FirebaseProvider) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("firebase: failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+url.QueryEscape(p.apiKey), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("firebase: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, out)
}

func (p *FirebaseProvider) do(req *http.Request, out any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firebase: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var body firebaseErrorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return mapFirebaseError(resp.StatusCode, body.Error.Message)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("firebase: failed to decode response: %w", err)
	}
	return nil
}

// mapFirebaseError turns Identity Toolkit error codes into package errors.
// Codes may carry a suffix, e.g. "WEAK_PASSWORD : Password should be ...".
func mapFirebaseError(status int, message string) error {
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return ErrInvalidCredentials
	case "EMAIL_EXISTS":
		return ErrEmailInUse
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "USER_NOT_FOUND":
		return ErrRefreshUnavailable
	}
	if code == "" {
		code = strconv.Itoa(status)
	}
	return &ProviderError{Code: code, Message: message}
}
