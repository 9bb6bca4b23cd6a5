package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
)

var ErrMissingID = errors.New("task has no id")

// TaskStore is keyed persistence for tasks. It never generates ids: Save
// upserts whatever id the task carries. FindByID returns nil, nil when the
// task is absent and DeleteByID on a missing id is a no-op.
type TaskStore interface {
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Save(ctx context.Context, task models.Task) (*models.Task, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
