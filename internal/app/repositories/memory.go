package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
)

var _ TaskStore = (*MemoryTaskStore)(nil)

// MemoryTaskStore keeps tasks in a map and remembers insertion order so
// FindAll is stable. Callers always get copies.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]models.Task
	order []uuid.UUID
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]models.Task),
	}
}

func (s *MemoryTaskStore) FindAll(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks, nil
}

func (s *MemoryTaskStore) FindByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (s *MemoryTaskStore) Save(_ context.Context, task models.Task) (*models.Task, error) {
	if task.ID == uuid.Nil {
		return nil, ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; !exists {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task

	return &task, nil
}

func (s *MemoryTaskStore) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tasks[id]
	return ok, nil
}

func (s *MemoryTaskStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return nil
	}
	delete(s.tasks, id)

	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
