package authsession

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zenfocus/internal/localstore"
	"zenfocus/internal/model"
	"zenfocus/internal/remote"
)

func newManager(serverURL string) (*Manager, localstore.Store) {
	store := localstore.NewMemory()
	client := remote.NewClient(serverURL, time.Second)
	return NewManager(store, client, zap.NewNop()), store
}

func writeAuthResponse(w http.ResponseWriter, token string) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  model.User{ID: "u-1", Email: "ada@example.com", Name: "Ada"},
	})
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}

func TestInitWithoutCachedCredentialIsGuest(t *testing.T) {
	m, _ := newManager("http://127.0.0.1:1")

	m.Init()

	assert.Equal(t, StateGuest, m.State())
	assert.Empty(t, m.Token())
	assert.Nil(t, m.Identity())
}

func TestInitAdoptsCachedCredential(t *testing.T) {
	m, store := newManager("http://127.0.0.1:1")
	require.NoError(t, store.Put(localstore.KeyToken, "cached-token"))
	require.NoError(t, store.Put(localstore.KeyUser, model.User{ID: "u-1", Email: "ada@example.com"}))

	m.Init()

	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "cached-token", m.Token())
	require.NotNil(t, m.Identity())
	assert.Equal(t, "ada@example.com", m.Identity().User.Email)
}

func TestLoginSuccessPersistsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		writeAuthResponse(w, "fresh-token")
	}))
	defer server.Close()

	m, store := newManager(server.URL)
	m.Init()

	result := m.Login(context.Background(), "ada@example.com", "secret1")

	assert.True(t, result.OK)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "fresh-token", m.Token())

	var token string
	require.NoError(t, store.Get(localstore.KeyToken, &token))
	assert.Equal(t, "fresh-token", token)
	var user model.User
	require.NoError(t, store.Get(localstore.KeyUser, &user))
	assert.Equal(t, "Ada", user.Name)
}

func TestLoginFailureLeavesGuestUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	}))
	defer server.Close()

	m, store := newManager(server.URL)
	m.Init()

	result := m.Login(context.Background(), "ada@example.com", "wrong")

	assert.False(t, result.OK)
	assert.Equal(t, ReasonInvalidCredentials, result.Reason)
	assert.Equal(t, StateGuest, m.State())
	var token string
	assert.ErrorIs(t, store.Get(localstore.KeyToken, &token), localstore.ErrNotFound)
}

func TestLoginNetworkErrorReportsNetworkReason(t *testing.T) {
	m, _ := newManager("http://127.0.0.1:1")
	m.Init()

	result := m.Login(context.Background(), "ada@example.com", "secret1")

	assert.False(t, result.OK)
	assert.Equal(t, ReasonNetwork, result.Reason)
	assert.Equal(t, StateGuest, m.State())
}

func TestRegisterDuplicateAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusConflict, "email_exists", "an account with this email already exists")
	}))
	defer server.Close()

	m, _ := newManager(server.URL)
	m.Init()

	result := m.Register(context.Background(), "ada@example.com", "secret1", "Ada")

	assert.False(t, result.OK)
	assert.Equal(t, ReasonDuplicateAccount, result.Reason)
	assert.Equal(t, StateGuest, m.State())
}

func TestRegisterSuccessAuthenticates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)
		writeAuthResponse(w, "new-token")
	}))
	defer server.Close()

	m, _ := newManager(server.URL)
	m.Init()

	result := m.Register(context.Background(), "ada@example.com", "secret1", "Ada")

	assert.True(t, result.OK)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "new-token", m.Token())
}

func TestVerifyRejectedTokenClearsCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	m, store := newManager(server.URL)
	require.NoError(t, store.Put(localstore.KeyToken, "stale-token"))
	require.NoError(t, store.Put(localstore.KeyUser, model.User{ID: "u-1"}))
	m.Init()
	require.Equal(t, StateAuthenticated, m.State())

	m.Verify(context.Background())

	assert.Equal(t, StateGuest, m.State())
	assert.Empty(t, m.Token())
	var token string
	assert.ErrorIs(t, store.Get(localstore.KeyToken, &token), localstore.ErrNotFound)
}

func TestVerifyNetworkErrorKeepsOptimisticState(t *testing.T) {
	m, store := newManager("http://127.0.0.1:1")
	require.NoError(t, store.Put(localstore.KeyToken, "cached-token"))
	require.NoError(t, store.Put(localstore.KeyUser, model.User{ID: "u-1"}))
	m.Init()

	m.Verify(context.Background())

	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "cached-token", m.Token())
}

func TestVerifyRefreshesCachedUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer cached-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"user": model.User{ID: "u-1", Email: "ada@example.com", Name: "Ada Lovelace"},
		})
	}))
	defer server.Close()

	m, store := newManager(server.URL)
	require.NoError(t, store.Put(localstore.KeyToken, "cached-token"))
	require.NoError(t, store.Put(localstore.KeyUser, model.User{ID: "u-1", Name: "Ada"}))
	m.Init()

	m.Verify(context.Background())

	require.NotNil(t, m.Identity())
	assert.Equal(t, "Ada Lovelace", m.Identity().User.Name)
	var user model.User
	require.NoError(t, store.Get(localstore.KeyUser, &user))
	assert.Equal(t, "Ada Lovelace", user.Name)
}

func TestLogoutDropsCredential(t *testing.T) {
	m, store := newManager("http://127.0.0.1:1")
	require.NoError(t, store.Put(localstore.KeyToken, "cached-token"))
	require.NoError(t, store.Put(localstore.KeyUser, model.User{ID: "u-1"}))
	m.Init()

	m.Logout()

	assert.Equal(t, StateGuest, m.State())
	assert.Empty(t, m.Token())
	var token string
	assert.ErrorIs(t, store.Get(localstore.KeyToken, &token), localstore.ErrNotFound)
}
