package repositories

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
)

const (
	taskTTL     = 60 * time.Second
	taskListTTL = 15 * time.Second
)

var _ TaskStore = (*CachedTaskStore)(nil)

// CachedTaskStore reads through a TaskCache in front of another store.
// The wrapped store stays the source of truth: cache failures are logged and
// never fail an operation.
type CachedTaskStore struct {
	store TaskStore
	cache TaskCache
}

func NewCachedTaskStore(store TaskStore, cache TaskCache) *CachedTaskStore {
	return &CachedTaskStore{
		store: store,
		cache: cache,
	}
}

func (s *CachedTaskStore) FindAll(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.cache.GetTaskList(ctx)
	if err != nil {
		log.Printf("cache: get task list: %v", err)
	} else if tasks != nil {
		return tasks, nil
	}

	tasks, err = s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTaskList(ctx, tasks, taskListTTL); err != nil {
		log.Printf("cache: set task list: %v", err)
	}
	return tasks, nil
}

func (s *CachedTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.cache.GetTask(ctx, id)
	if err != nil {
		log.Printf("cache: get task %s: %v", id, err)
	} else if task != nil {
		return task, nil
	}

	task, err = s.store.FindByID(ctx, id)
	if err != nil || task == nil {
		return task, err
	}

	if err := s.cache.SetTask(ctx, *task, taskTTL); err != nil {
		log.Printf("cache: set task %s: %v", id, err)
	}
	return task, nil
}

func (s *CachedTaskStore) Save(ctx context.Context, task models.Task) (*models.Task, error) {
	saved, err := s.store.Save(ctx, task)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetTask(ctx, *saved, taskTTL); err != nil {
		log.Printf("cache: set task %s: %v", saved.ID, err)
	}
	s.invalidateList(ctx)

	return saved, nil
}

func (s *CachedTaskStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	if task, err := s.cache.GetTask(ctx, id); err == nil && task != nil {
		return true, nil
	}
	return s.store.ExistsByID(ctx, id)
}

func (s *CachedTaskStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}

	if err := s.cache.DeleteTask(ctx, id); err != nil {
		log.Printf("cache: delete task %s: %v", id, err)
	}
	s.invalidateList(ctx)

	return nil
}

func (s *CachedTaskStore) invalidateList(ctx context.Context) {
	if err := s.cache.DeleteTaskList(ctx); err != nil {
		log.Printf("cache: delete task list: %v", err)
	}
}
