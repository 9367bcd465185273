package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zenfocus/internal/localstore"
	"zenfocus/internal/model"
	"zenfocus/internal/remote"
)

type stubIdentity struct {
	mu      sync.Mutex
	token   string
	cleared bool
}

func (s *stubIdentity) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubIdentity) ClearCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared = true
}

func (s *stubIdentity) wasCleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

func newGateway(serverURL, token string) (*Gateway, *stubIdentity, localstore.Store) {
	store := localstore.NewMemory()
	client := remote.NewClient(serverURL, time.Second)
	identity := &stubIdentity{token: token}
	return New(store, client, identity, zap.NewNop()), identity, store
}

func TestGuestModeNeverTouchesNetwork(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gw, _, _ := newGateway(server.URL, "")

	task := model.Task{ID: "t-1", Title: "write tests", CreatedAt: time.Now().UnixMilli()}
	gw.CreateTask(task)
	gw.Wait()

	tasks := gw.GetTasks(context.Background())
	require.Len(t, tasks, 1)
	assert.Equal(t, "write tests", tasks[0].Title)
	assert.Equal(t, int64(0), requests.Load(), "guest mode must make zero network calls")
}

func TestAuthenticatedWriteSurvivesNetworkFailure(t *testing.T) {
	// Nothing is listening on this address.
	gw, _, _ := newGateway("http://127.0.0.1:1", "token-1")

	settings := model.DefaultSettings()
	settings.FocusDuration = 50
	gw.PutSettings(settings)
	gw.Wait()

	// Still offline: the read falls back to the locally cached update.
	got := gw.GetSettings(context.Background())
	assert.Equal(t, 50, got.FocusDuration)
}

func TestWriteFailurePublishesSyncEvent(t *testing.T) {
	gw, _, _ := newGateway("http://127.0.0.1:1", "token-1")

	gw.PutTheme(model.ThemeLofi)
	gw.Wait()

	select {
	case event := <-gw.Events():
		assert.Equal(t, EntityTheme, event.Entity)
		assert.Equal(t, OpPut, event.Op)
		assert.Error(t, event.Err)
	default:
		t.Fatal("expected a sync event for the failed write")
	}

	assert.Equal(t, model.ThemeLofi, gw.GetTheme(context.Background()))
}

func TestUnauthorizedDegradesToGuest(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "unauthorized", "message": "invalid token"},
		})
	}))
	defer server.Close()

	gw, identity, store := newGateway(server.URL, "expired-token")
	require.NoError(t, store.Put(localstore.KeyTasks, []model.Task{{ID: "t-1", Title: "cached"}}))

	// The 401 clears credentials and the read falls back to the cache.
	tasks := gw.GetTasks(context.Background())
	require.Len(t, tasks, 1)
	assert.Equal(t, "cached", tasks[0].Title)
	assert.True(t, identity.wasCleared())

	// Same process, next call: guest mode, no further network traffic.
	before := requests.Load()
	tasks = gw.GetTasks(context.Background())
	require.Len(t, tasks, 1)
	assert.Equal(t, before, requests.Load())
}

func TestRemoteReadWinsAndRecaches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]model.Task{{ID: "t-9", Title: "from server"}})
	}))
	defer server.Close()

	gw, _, store := newGateway(server.URL, "token-1")
	require.NoError(t, store.Put(localstore.KeyTasks, []model.Task{{ID: "t-1", Title: "stale"}}))

	tasks := gw.GetTasks(context.Background())
	require.Len(t, tasks, 1)
	assert.Equal(t, "from server", tasks[0].Title)

	var cached []model.Task
	require.NoError(t, store.Get(localstore.KeyTasks, &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, "from server", cached[0].Title)
}

func TestGetSettingsDefaultsWhenNothingStored(t *testing.T) {
	gw, _, _ := newGateway("http://127.0.0.1:1", "")

	settings := gw.GetSettings(context.Background())
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestUpdateAndDeleteTaskApplyLocally(t *testing.T) {
	gw, _, _ := newGateway("http://127.0.0.1:1", "")

	gw.CreateTask(model.Task{ID: "t-1", Title: "one"})
	gw.CreateTask(model.Task{ID: "t-2", Title: "two"})

	completed := true
	gw.UpdateTask("t-1", TaskPatch{Completed: &completed})
	gw.DeleteTask("t-2")
	gw.Wait()

	tasks := gw.GetTasks(context.Background())
	require.Len(t, tasks, 1)
	assert.Equal(t, "t-1", tasks[0].ID)
	assert.True(t, tasks[0].Completed)
}
