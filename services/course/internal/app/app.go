package app

import (
	"context"
	"errors"
	"os"
	"time"

	"coursehub/internal/util"
	"coursehub/pkg/events"
	"coursehub/pkg/media"
	"coursehub/pkg/queue"
	"coursehub/pkg/storage"
	"coursehub/pkg/store"
)

// ListingCache caches course listings. Invalidate drops every cached listing.
type ListingCache interface {
	Get(ctx context.Context, name string, dst any) (bool, error)
	Set(ctx context.Context, name string, v any) error
	Invalidate(ctx context.Context) error
}

// CleanupQueue accepts media cleanup jobs for the cleanup worker.
type CleanupQueue interface {
	Enqueue(ctx context.Context, kind, key string) (queue.Job, error)
}

// Config holds the collaborators of the course application.
type Config struct {
	Store   store.Store
	Objects storage.ObjectStore
	Prober  media.Prober
	// Optional collaborators; nil disables the feature.
	Cache   ListingCache
	Cleanup CleanupQueue
	Events  events.Publisher
	// SpoolDir receives uploads while they are probed. Empty means os.TempDir().
	SpoolDir string
	Now      func() time.Time
}

// App implements the course catalog, publishing workflow and cart/wishlist
// manager on top of a Store.
type App struct {
	store    store.Store
	objects  storage.ObjectStore
	prober   media.Prober
	cache    ListingCache
	cleanup  CleanupQueue
	events   events.Publisher
	spoolDir string
	now      func() time.Time
}

func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store required")
	}
	if cfg.Objects == nil {
		return nil, errors.New("object store required")
	}
	if cfg.Prober == nil {
		return nil, errors.New("media prober required")
	}
	a := &App{
		store:    cfg.Store,
		objects:  cfg.Objects,
		prober:   cfg.Prober,
		cache:    cfg.Cache,
		cleanup:  cfg.Cleanup,
		events:   cfg.Events,
		spoolDir: cfg.SpoolDir,
		now:      cfg.Now,
	}
	if a.events == nil {
		a.events = events.NopPublisher{}
	}
	if a.spoolDir == "" {
		a.spoolDir = os.TempDir()
	}
	if a.now == nil {
		a.now = func() time.Time { return time.Now().UTC() }
	}
	return a, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ready reports whether the backing store is reachable.
func (a *App) Ready(ctx context.Context) error {
	if p, ok := a.store.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (a *App) invalidateListings(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Invalidate(ctx); err != nil {
		util.LoggerFromContext(ctx).Warn("listing cache invalidate failed", "err", err)
	}
}

func (a *App) emit(ctx context.Context, eventType string, data any) {
	if err := a.events.Publish(ctx, eventType, data); err != nil {
		util.LoggerFromContext(ctx).Warn("publish event failed", "type", eventType, "err", err)
	}
}
