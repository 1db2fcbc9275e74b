package app

import (
	"context"
	"errors"
	"fmt"

	"coursehub/internal/util"
	"coursehub/pkg/queue"
	"coursehub/pkg/storage"
)

// App deletes stored media released by the course service.
type App struct {
	objects storage.ObjectStore
}

func New(objects storage.ObjectStore) (*App, error) {
	if objects == nil {
		return nil, errors.New("object store required")
	}
	return &App{objects: objects}, nil
}

// Handle processes one cleanup job. Deleting an absent key succeeds.
func (a *App) Handle(ctx context.Context, job queue.Job) error {
	logger := util.LoggerFromContext(ctx).With("job_id", job.ID, "key", job.Key)
	switch job.Kind {
	case queue.KindDeleteObject:
		if err := a.objects.Delete(ctx, job.Key); err != nil {
			return fmt.Errorf("delete %q: %w", job.Key, err)
		}
		logger.Info("media deleted")
		return nil
	default:
		return fmt.Errorf("unsupported job kind %q", job.Kind)
	}
}
