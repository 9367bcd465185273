// Package gateway unifies local and remote persistence behind one
// local-first interface. Guests read and write on-device storage only.
// Authenticated sessions read remote-first with a local fallback, and every
// write lands locally before an independent best-effort remote sync. The
// timer and ledger never see a persistence error.
package gateway

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"zenfocus/internal/localstore"
	"zenfocus/internal/model"
	"zenfocus/internal/remote"
)

// Entity names a synced domain object.
type Entity string

const (
	EntitySettings Entity = "settings"
	EntityTasks    Entity = "tasks"
	EntitySessions Entity = "sessions"
	EntityTheme    Entity = "theme"
)

// Op names a gateway operation.
type Op string

const (
	OpGet    Op = "get"
	OpPut    Op = "put"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// SyncEvent reports the outcome of one remote attempt. Err is nil on
// success. Failed syncs are reported here instead of surfacing to callers;
// there is no retry.
type SyncEvent struct {
	Entity Entity
	Op     Op
	Err    error
}

// Identity is what the gateway needs from the auth session: the current
// bearer token ("" means guest) and a way to drop an expired credential.
type Identity interface {
	Token() string
	ClearCredentials()
}

// TaskPatch mirrors remote.TaskPatch for local application.
type TaskPatch = remote.TaskPatch

type Gateway struct {
	store    localstore.Store
	client   *remote.Client
	identity Identity
	log      *zap.Logger

	events chan SyncEvent
	wg     sync.WaitGroup
}

func New(store localstore.Store, client *remote.Client, identity Identity, log *zap.Logger) *Gateway {
	return &Gateway{
		store:    store,
		client:   client,
		identity: identity,
		log:      log,
		events:   make(chan SyncEvent, 64),
	}
}

// Events exposes remote sync outcomes. The channel is never closed and
// publishes drop rather than block when nobody is listening.
func (g *Gateway) Events() <-chan SyncEvent {
	return g.events
}

// Wait blocks until all in-flight background syncs have finished.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

// GetSettings never fails: remote when authenticated and reachable, else
// the local cache, else defaults.
func (g *Gateway) GetSettings(ctx context.Context) model.Settings {
	return fetch(g, ctx, EntitySettings, localstore.KeySettings, model.DefaultSettings(),
		func(ctx context.Context, token string) (model.Settings, error) {
			settings, err := g.client.GetSettings(ctx, token)
			if err != nil {
				return model.Settings{}, err
			}
			return *settings, nil
		})
}

func (g *Gateway) PutSettings(settings model.Settings) {
	g.writeLocal(localstore.KeySettings, settings)
	g.sync(EntitySettings, OpPut, func(ctx context.Context, token string) error {
		return g.client.PutSettings(ctx, token, settings)
	})
}

func (g *Gateway) GetTasks(ctx context.Context) []model.Task {
	return fetch(g, ctx, EntityTasks, localstore.KeyTasks, []model.Task{},
		func(ctx context.Context, token string) ([]model.Task, error) {
			return g.client.GetTasks(ctx, token)
		})
}

// CreateTask prepends the task locally (newest first, matching the server's
// createdAt ordering) and syncs it remotely.
func (g *Gateway) CreateTask(task model.Task) {
	tasks := g.localTasks()
	g.writeLocal(localstore.KeyTasks, append([]model.Task{task}, tasks...))
	g.sync(EntityTasks, OpCreate, func(ctx context.Context, token string) error {
		return g.client.CreateTask(ctx, token, task)
	})
}

func (g *Gateway) UpdateTask(taskID string, patch TaskPatch) {
	tasks := g.localTasks()
	for i := range tasks {
		if tasks[i].ID != taskID {
			continue
		}
		if patch.Title != nil {
			tasks[i].Title = *patch.Title
		}
		if patch.Completed != nil {
			tasks[i].Completed = *patch.Completed
		}
	}
	g.writeLocal(localstore.KeyTasks, tasks)
	g.sync(EntityTasks, OpUpdate, func(ctx context.Context, token string) error {
		return g.client.UpdateTask(ctx, token, taskID, patch)
	})
}

func (g *Gateway) DeleteTask(taskID string) {
	tasks := g.localTasks()
	kept := tasks[:0]
	for _, task := range tasks {
		if task.ID != taskID {
			kept = append(kept, task)
		}
	}
	g.writeLocal(localstore.KeyTasks, kept)
	g.sync(EntityTasks, OpDelete, func(ctx context.Context, token string) error {
		return g.client.DeleteTask(ctx, token, taskID)
	})
}

func (g *Gateway) GetSessions(ctx context.Context) []model.Session {
	return fetch(g, ctx, EntitySessions, localstore.KeySessions, []model.Session{},
		func(ctx context.Context, token string) ([]model.Session, error) {
			return g.client.GetSessions(ctx, token)
		})
}

// AppendSession adds a completed session to the local history and syncs it.
// The entry is appended at the back; history stays chronological.
func (g *Gateway) AppendSession(session model.Session) {
	var sessions []model.Session
	if err := g.store.Get(localstore.KeySessions, &sessions); err != nil && err != localstore.ErrNotFound {
		g.log.Warn("read local sessions", zap.Error(err))
	}
	g.writeLocal(localstore.KeySessions, append(sessions, session))
	g.sync(EntitySessions, OpCreate, func(ctx context.Context, token string) error {
		return g.client.RecordSession(ctx, token, session)
	})
}

func (g *Gateway) GetTheme(ctx context.Context) string {
	return fetch(g, ctx, EntityTheme, localstore.KeyTheme, model.ThemeNature,
		func(ctx context.Context, token string) (string, error) {
			return g.client.GetTheme(ctx, token)
		})
}

func (g *Gateway) PutTheme(theme string) {
	g.writeLocal(localstore.KeyTheme, theme)
	g.sync(EntityTheme, OpPut, func(ctx context.Context, token string) error {
		return g.client.PutTheme(ctx, token, theme)
	})
}

// fetch is the one read-with-default-then-reconcile algorithm shared by all
// four entities: remote first when authenticated (re-caching locally), the
// local copy on any remote failure, the default when neither exists.
func fetch[T any](
	g *Gateway,
	ctx context.Context,
	entity Entity,
	key string,
	defaultValue T,
	remoteGet func(ctx context.Context, token string) (T, error),
) T {
	if token := g.identity.Token(); token != "" {
		value, err := remoteGet(ctx, token)
		if err == nil {
			g.writeLocal(key, value)
			g.publish(SyncEvent{Entity: entity, Op: OpGet})
			return value
		}
		g.remoteFailed(entity, OpGet, err)
	}

	var value T
	err := g.store.Get(key, &value)
	if err == nil {
		return value
	}
	if err != localstore.ErrNotFound {
		g.log.Warn("read local store", zap.String("key", key), zap.Error(err))
	}
	return defaultValue
}

// sync fires one best-effort remote write in the background. Guests skip
// the network entirely. Failures are logged and published, never returned,
// and never retried.
func (g *Gateway) sync(entity Entity, op Op, write func(ctx context.Context, token string) error) {
	token := g.identity.Token()
	if token == "" {
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := write(context.Background(), token); err != nil {
			g.remoteFailed(entity, op, err)
			return
		}
		g.publish(SyncEvent{Entity: entity, Op: op})
	}()
}

func (g *Gateway) remoteFailed(entity Entity, op Op, err error) {
	if errors.Is(err, remote.ErrUnauthorized) {
		g.log.Info("session expired, continuing as guest",
			zap.String("entity", string(entity)), zap.String("op", string(op)))
		g.identity.ClearCredentials()
	} else {
		g.log.Warn("remote sync failed",
			zap.String("entity", string(entity)), zap.String("op", string(op)), zap.Error(err))
	}
	g.publish(SyncEvent{Entity: entity, Op: op, Err: err})
}

func (g *Gateway) publish(event SyncEvent) {
	select {
	case g.events <- event:
	default:
	}
}

func (g *Gateway) writeLocal(key string, v interface{}) {
	if err := g.store.Put(key, v); err != nil {
		g.log.Warn("write local store", zap.String("key", key), zap.Error(err))
	}
}

func (g *Gateway) localTasks() []model.Task {
	var tasks []model.Task
	if err := g.store.Get(localstore.KeyTasks, &tasks); err != nil && err != localstore.ErrNotFound {
		g.log.Warn("read local tasks", zap.Error(err))
	}
	return tasks
}
