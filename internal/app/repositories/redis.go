package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
	"github.com/redis/go-redis/v9"
)

// TaskCache stores serialized tasks with a TTL. Getters return nil, nil on a
// cache miss.
type TaskCache interface {
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	SetTask(ctx context.Context, task models.Task, ttl time.Duration) error

	GetTaskList(ctx context.Context) ([]models.Task, error)
	SetTaskList(ctx context.Context, tasks []models.Task, ttl time.Duration) error

	DeleteTask(ctx context.Context, id uuid.UUID) error
	DeleteTaskList(ctx context.Context) error
}

var _ TaskCache = (*RedisTaskCache)(nil)

type RedisTaskCache struct {
	rdb *redis.Client
}

func NewRedisTaskCache(rdb *redis.Client) *RedisTaskCache {
	return &RedisTaskCache{rdb: rdb}
}

func taskKey(id uuid.UUID) string {
	return "task:" + id.String()
}

const taskListKey = "tasks:list"

func (r *RedisTaskCache) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	val, err := r.rdb.Get(ctx, taskKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := json.Unmarshal(val, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *RedisTaskCache) SetTask(ctx context.Context, task models.Task, ttl time.Duration) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, taskKey(task.ID), data, ttl).Err()
}

func (r *RedisTaskCache) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return r.rdb.Del(ctx, taskKey(id)).Err()
}

func (r *RedisTaskCache) DeleteTaskList(ctx context.Context) error {
	return r.rdb.Del(ctx, taskListKey).Err()
}

func (r *RedisTaskCache) GetTaskList(ctx context.Context) ([]models.Task, error) {
	val, err := r.rdb.Get(ctx, taskListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	if err := json.Unmarshal(val, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *RedisTaskCache) SetTaskList(ctx context.Context, tasks []models.Task, ttl time.Duration) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, taskListKey, data, ttl).Err()
}
