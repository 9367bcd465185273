// Package authsession owns the client credential lifecycle: cached
// identity, login/register/logout, and startup verification. The rest of
// the client only ever asks it two questions: "what token?" and "drop it".
package authsession

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"zenfocus/internal/localstore"
	"zenfocus/internal/model"
	"zenfocus/internal/remote"
)

// State of the session manager.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateAuthenticated State = "authenticated"
	StateGuest         State = "guest"
)

// FailureReason classifies a login/register failure.
type FailureReason string

const (
	ReasonInvalidCredentials FailureReason = "invalid_credentials"
	ReasonDuplicateAccount   FailureReason = "duplicate_account"
	ReasonValidation         FailureReason = "validation"
	ReasonNetwork            FailureReason = "network"
)

// Result is the outcome of a login or register attempt. A failure leaves
// the manager's state untouched.
type Result struct {
	OK      bool
	Reason  FailureReason
	Message string
}

type Manager struct {
	store  localstore.Store
	client *remote.Client
	log    *zap.Logger

	mu       sync.RWMutex
	state    State
	identity *model.AuthIdentity
}

func NewManager(store localstore.Store, client *remote.Client, log *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		client: client,
		log:    log,
		state:  StateUninitialized,
	}
}

// Init loads any cached credential. A cached pair makes the session
// optimistically authenticated; Verify confirms it against the server.
func (m *Manager) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var token string
	var user model.User
	tokenErr := m.store.Get(localstore.KeyToken, &token)
	userErr := m.store.Get(localstore.KeyUser, &user)
	if tokenErr != nil || userErr != nil || token == "" {
		m.state = StateGuest
		return
	}

	m.identity = &model.AuthIdentity{User: user, Token: token}
	m.state = StateAuthenticated
}

// Verify confirms a cached token against /auth/me. An unauthorized reply
// clears the credential and degrades to guest; a network error keeps the
// optimistic state so a flaky connection does not log the user out.
func (m *Manager) Verify(ctx context.Context) {
	token := m.Token()
	if token == "" {
		return
	}

	user, err := m.client.Me(ctx, token)
	if err != nil {
		if errors.Is(err, remote.ErrUnauthorized) {
			m.log.Info("stored token rejected, continuing as guest")
			m.ClearCredentials()
		} else {
			m.log.Debug("token verification skipped", zap.Error(err))
		}
		return
	}

	m.mu.Lock()
	if m.identity != nil {
		m.identity.User = *user
		if err := m.store.Put(localstore.KeyUser, *user); err != nil {
			m.log.Warn("cache verified user", zap.Error(err))
		}
	}
	m.mu.Unlock()
}

func (m *Manager) Login(ctx context.Context, email, password string) Result {
	identity, err := m.client.Login(ctx, email, password)
	if err != nil {
		return loginFailure(err)
	}
	m.adopt(identity)
	return Result{OK: true}
}

func (m *Manager) Register(ctx context.Context, email, password, name string) Result {
	identity, err := m.client.Register(ctx, email, password, name)
	if err != nil {
		return registerFailure(err)
	}
	m.adopt(identity)
	return Result{OK: true}
}

// Logout unconditionally clears the credential and transitions to guest.
func (m *Manager) Logout() {
	m.ClearCredentials()
}

// ClearCredentials drops the stored token and user. Called on logout and by
// the persistence gateway when a request comes back 401.
func (m *Manager) ClearCredentials() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = nil
	m.state = StateGuest
	if err := m.store.Delete(localstore.KeyToken); err != nil {
		m.log.Warn("clear stored token", zap.Error(err))
	}
	if err := m.store.Delete(localstore.KeyUser); err != nil {
		m.log.Warn("clear stored user", zap.Error(err))
	}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token returns the current bearer token, or "" in guest mode.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return ""
	}
	return m.identity.Token
}

// Identity returns a copy of the signed-in identity, or nil in guest mode.
func (m *Manager) Identity() *model.AuthIdentity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	identity := *m.identity
	return &identity
}

func (m *Manager) adopt(identity *model.AuthIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = identity
	m.state = StateAuthenticated
	if err := m.store.Put(localstore.KeyToken, identity.Token); err != nil {
		m.log.Warn("cache token", zap.Error(err))
	}
	if err := m.store.Put(localstore.KeyUser, identity.User); err != nil {
		m.log.Warn("cache user", zap.Error(err))
	}
}

func loginFailure(err error) Result {
	if errors.Is(err, remote.ErrUnauthorized) {
		return Result{Reason: ReasonInvalidCredentials, Message: "invalid email or password"}
	}
	var failure *remote.APIFailure
	if errors.As(err, &failure) {
		return Result{Reason: ReasonValidation, Message: failure.Message}
	}
	return Result{Reason: ReasonNetwork, Message: "network error, please try again"}
}

func registerFailure(err error) Result {
	var failure *remote.APIFailure
	if errors.As(err, &failure) {
		if failure.Code == "email_exists" {
			return Result{Reason: ReasonDuplicateAccount, Message: failure.Message}
		}
		return Result{Reason: ReasonValidation, Message: failure.Message}
	}
	if errors.Is(err, remote.ErrUnauthorized) {
		return Result{Reason: ReasonValidation, Message: "registration rejected"}
	}
	return Result{Reason: ReasonNetwork, Message: "network error, please try again"}
}
