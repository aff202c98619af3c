package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"task-tracker/models"
)

// Pool is the subset of *pgxpool.Pool the store uses.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type PostgresStore struct {
	pool Pool
}

func NewPostgresStore(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Task, error) {
	query, args, err := listQuery()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.IsDone, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *PostgresStore) Create(ctx context.Context, title string) (models.Task, error) {
	query, args, err := insertQuery(title)
	if err != nil {
		return models.Task{}, fmt.Errorf("build insert query: %w", err)
	}
	return s.scanOne(ctx, query, args)
}

func (s *PostgresStore) Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	query, args, err := updateQuery(id, patch)
	if err != nil {
		return models.Task{}, err
	}
	return s.scanOne(ctx, query, args)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	query, args, err := deleteQuery(id)
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) scanOne(ctx context.Context, query string, args []any) (models.Task, error) {
	var task models.Task
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&task.ID, &task.Title, &task.IsDone, &task.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}
