package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"choreify/models"
	"choreify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LocalConfig configures the in-process identity provider.
type LocalConfig struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

type localUser struct {
	ID           string
	Email        string
	FullName     string
	Role         string
	PasswordHash []byte
}

// LocalProvider is an in-memory identity provider issuing HS256 tokens.
// It backs development environments and tests.
type LocalProvider struct {
	Emitter

	cfg    LocalConfig
	logger *zap.Logger

	mu    sync.RWMutex
	users map[string]*localUser
	// refresh tokens to user email
	refresh map[string]string
}

// NewLocalProvider creates a LocalProvider.
func NewLocalProvider(cfg LocalConfig, logger *zap.Logger) (*LocalProvider, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("local identity provider: secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &LocalProvider{
		cfg:     cfg,
		logger:  logger,
		users:   make(map[string]*localUser),
		refresh: make(map[string]string),
	}, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), p.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := string(models.RoleCustomer)
	if r := req.Metadata["role"]; r != "" {
		role = string(models.NormalizeRole(r))
	}

	p.mu.Lock()
	if _, exists := p.users[email]; exists {
		p.mu.Unlock()
		return nil, ErrEmailInUse
	}
	u := &localUser{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     req.Metadata["fullName"],
		Role:         role,
		PasswordHash: hash,
	}
	p.users[email] = u
	p.mu.Unlock()

	p.logger.Info("local identity: user registered", zap.String("userID", u.ID))
	return p.issue(u, EventSignedIn, "")
}

func (p *LocalProvider) SignIn(ctx context.Context, creds Credentials) (*models.Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	p.mu.RLock()
	u, ok := p.users[email]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return p.issue(u, EventSignedIn, "")
}

func (p *LocalProvider) SignOut(ctx context.Context, session *models.Session) error {
	if session == nil {
		return ErrSessionNotFound
	}
	p.mu.Lock()
	delete(p.refresh, session.RefreshToken)
	p.mu.Unlock()

	p.Emit(Event{Type: EventSignedOut, SessionID: session.ID})
	return nil
}

func (p *LocalProvider) GetSession(ctx context.Context, accessToken string) (*models.Session, error) {
	claims, expiresAt, err := utils.ValidateToken(p.cfg.Secret, accessToken)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return &models.Session{
		ID:          utils.HashToken(accessToken),
		User:        models.SessionUser{ID: claims.Subject, Email: claims.Email, FullName: claims.FullName},
		Role:        models.NormalizeRole(claims.Role),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

func (p *LocalProvider) Refresh(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session == nil || session.RefreshToken == "" {
		return nil, ErrRefreshUnavailable
	}

	p.mu.Lock()
	email, ok := p.refresh[session.RefreshToken]
	if ok {
		delete(p.refresh, session.RefreshToken)
	}
	u := p.users[email]
	p.mu.Unlock()

	if !ok || u == nil {
		return nil, ErrRefreshUnavailable
	}
	return p.issue(u, EventTokenRefreshed, session.ID)
}

// SetRole changes a user's role claim; the next issued token carries it.
func (p *LocalProvider) SetRole(email string, role models.Role) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[strings.ToLower(email)]
	if !ok {
		return errors.New("local identity: user not found")
	}
	u.Role = string(role)
	return nil
}

// issue signs a token for u and emits ev. An empty sessionID starts a new session.
func (p *LocalProvider) issue(u *localUser, ev EventType, sessionID string) (*models.Session, error) {
	token, err := utils.GenerateToken(p.cfg.Secret, utils.TokenClaims{
		Subject:  u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}, p.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	refreshToken := uuid.New().String()

	p.mu.Lock()
	p.refresh[refreshToken] = u.Email
	p.mu.Unlock()

	session := &models.Session{
		ID:           sessionID,
		User:         models.SessionUser{ID: u.ID, Email: u.Email, FullName: u.FullName},
		Role:         models.NormalizeRole(u.Role),
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(p.cfg.TokenTTL),
	}
	p.Emit(NewEvent(ev, session))
	return session, nil
}
