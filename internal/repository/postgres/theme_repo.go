package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"joiny/internal/domain"
)

type themeRepository struct {
	DB *sqlx.DB
}

func NewThemeRepository(db *sqlx.DB) domain.ThemeRepository {
	return &themeRepository{DB: db}
}

func (r *themeRepository) List(ctx context.Context) ([]*domain.Theme, error) {
	themes := make([]*domain.Theme, 0)
	if err := conn(ctx, r.DB).SelectContext(ctx, &themes, `SELECT id, name, description FROM themes ORDER BY id`); err != nil {
		return nil, err
	}
	return themes, nil
}

func (r *themeRepository) GetByID(ctx context.Context, id int64) (*domain.Theme, error) {
	t := &domain.Theme{}
	err := conn(ctx, r.DB).GetContext(ctx, t, `SELECT id, name, description FROM themes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *themeRepository) Upsert(ctx context.Context, t *domain.Theme) error {
	query := `
		INSERT INTO themes (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
		RETURNING id
	`
	return conn(ctx, r.DB).QueryRowxContext(ctx, query, t.Name, t.Description).Scan(&t.ID)
}
