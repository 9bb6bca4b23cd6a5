package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
	"github.com/kalpovskii/taskmanager/internal/app/repositories"
	"github.com/kalpovskii/taskmanager/internal/kafka"
)

const (
	EventCreated = kafka.ActionCreated
	EventUpdated = kafka.ActionUpdated
	EventDeleted = kafka.ActionDeleted
)

type ValidationError = models.ValidationError

// EventSender is notified after every successful mutation.
type EventSender interface {
	SendEvent(ctx context.Context, action string, task models.Task)
}

type TaskService struct {
	repo   repositories.TaskStore
	events EventSender

	newID func() uuid.UUID
	now   func() time.Time
}

// NewTaskService builds a service over repo. events may be nil.
func NewTaskService(repo repositories.TaskStore, events EventSender) *TaskService {
	return &TaskService{
		repo:   repo,
		events: events,
		newID:  uuid.New,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// GetTaskByID returns nil, nil when no task has the id.
func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateTask validates input, defaults its status to TODO and stores it under
// a freshly generated id. Any id carried by input is discarded.
func (s *TaskService) CreateTask(ctx context.Context, input models.Task) (*models.Task, error) {
	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}

	if err := models.Validate(task); err != nil {
		return nil, err
	}

	task.ID = s.newID()
	task.CreatedAt = s.now()

	saved, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, EventCreated, *saved)
	return saved, nil
}

// UpdateTask replaces title, description and status of the task with the
// given id. Fields left empty in input overwrite the stored values; an empty
// status resets to TODO. It returns nil, nil when the task does not exist.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, input models.Task) (*models.Task, error) {
	if input.Status == "" {
		input.Status = models.StatusTodo
	}
	if err := models.Validate(input); err != nil {
		return nil, err
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status

	saved, err := s.repo.Save(ctx, *task)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, EventUpdated, *saved)
	return saved, nil
}

// DeleteTask reports whether a task with the id existed and was removed.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil || !exists {
		return false, err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return false, err
	}

	s.emit(ctx, EventDeleted, models.Task{ID: id})
	return true, nil
}

func (s *TaskService) emit(ctx context.Context, action string, task models.Task) {
	if s.events == nil {
		return
	}
	s.events.SendEvent(ctx, action, task)
}
