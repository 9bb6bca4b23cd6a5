package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
	_ "github.com/lib/pq"
)

var _ TaskStore = (*PostgresTaskStore)(nil)

const createTasksTable = `
		CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description VARCHAR(1000),
			status TEXT NOT NULL DEFAULT 'TODO' CHECK (status IN ('TODO', 'IN_PROGRESS', 'DONE')),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`

type PostgresTaskStore struct {
	db *sql.DB
}

func NewPostgresTaskStore(ctx context.Context, dsn string) (*PostgresTaskStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	store, err := NewPostgresTaskStoreFromDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresTaskStoreFromDB uses an already opened handle and makes sure the
// tasks table exists.
func NewPostgresTaskStoreFromDB(ctx context.Context, db *sql.DB) (*PostgresTaskStore, error) {
	if _, err := db.ExecContext(ctx, createTasksTable); err != nil {
		return nil, fmt.Errorf("create tasks table: %w", err)
	}
	return &PostgresTaskStore{db: db}, nil
}

func (r *PostgresTaskStore) Close() error {
	return r.db.Close()
}

func (r *PostgresTaskStore) FindAll(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, status, created_at FROM tasks ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, title, description, status, created_at FROM tasks WHERE id = $1", id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

func (r *PostgresTaskStore) Save(ctx context.Context, task models.Task) (*models.Task, error) {
	if task.ID == uuid.Nil {
		return nil, ErrMissingID
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, description = EXCLUDED.description, status = EXCLUDED.status`,
		task.ID, task.Title, nullString(task.Description), string(task.Status), task.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save task %s: %w", task.ID, err)
	}
	return &task, nil
}

func (r *PostgresTaskStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check task %s: %w", id, err)
	}
	return exists, nil
}

func (r *PostgresTaskStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t           models.Task
		description sql.NullString
		status      string
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &status, &t.CreatedAt); err != nil {
		return models.Task{}, err
	}
	t.Description = description.String
	t.Status = models.TaskStatus(status)
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
