package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"joiny/internal/domain"
)

const todoColumns = "id, event_id, task, is_completed, created_at, updated_at"

type todoRepository struct {
	DB *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) domain.TodoRepository {
	return &todoRepository{DB: db}
}

func (r *todoRepository) Create(ctx context.Context, t *domain.Todo) error {
	query := `
		INSERT INTO todos (event_id, task, is_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowxContext(ctx, query, t.EventID, t.Task, t.IsCompleted, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *todoRepository) GetByID(ctx context.Context, id int64) (*domain.Todo, error) {
	return r.getOne(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
}

func (r *todoRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Todo, error) {
	t := &domain.Todo{}
	if err := conn(ctx, r.DB).GetContext(ctx, t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *todoRepository) ListByEvent(ctx context.Context, eventID int64) ([]*domain.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE event_id = $1
		ORDER BY created_at, id
	`
	todos := make([]*domain.Todo, 0)
	if err := conn(ctx, r.DB).SelectContext(ctx, &todos, query, eventID); err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *todoRepository) Patch(ctx context.Context, id int64, p domain.TodoPatch) (*domain.Todo, error) {
	if p.Task == nil && p.IsCompleted == nil {
		return r.GetByID(ctx, id)
	}
	builder := psql.Update("todos").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + todoColumns)
	if p.Task != nil {
		builder = builder.Set("task", *p.Task)
	}
	if p.IsCompleted != nil {
		builder = builder.Set("is_completed", *p.IsCompleted)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build patch todo query: %w", err)
	}
	return r.getOne(ctx, query, args...)
}

func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}
