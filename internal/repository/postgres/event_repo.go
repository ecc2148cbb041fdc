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

const eventColumns = `id, name, description, date, location_name, latitude, longitude, place_id,
		theme, food_description, host_id, host_name, fee, max_members, invite_code, created_at, updated_at`

type eventRepository struct {
	DB *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date, location_name, latitude, longitude, place_id,
			theme, food_description, host_id, host_name, fee, max_members, invite_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowxContext(ctx, query,
		e.Name, e.Description, e.Date, e.LocationName, e.Latitude, e.Longitude, e.PlaceID,
		e.Theme, e.FoodDescription, e.HostID, e.HostName, e.Fee, e.MaxMembers, e.InviteCode, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInviteCode
		}
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *eventRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE invite_code = $1`
	return r.getOne(ctx, query, code)
}

func (r *eventRepository) LockByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *eventRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Event, error) {
	e := &domain.Event{}
	if err := conn(ctx, r.DB).GetContext(ctx, e, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	db := conn(ctx, r.DB)

	var total int
	if err := db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	builder := psql.Select(eventColumns).
		From("events").
		OrderBy("date DESC", "id DESC")
	if limit := params.Limit(); limit > 0 {
		builder = builder.Limit(limit).Offset(params.Offset())
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list events query: %w", err)
	}

	events := make([]*domain.Event, 0)
	if err := db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET name = $1, description = $2, date = $3, location_name = $4, latitude = $5,
			longitude = $6, place_id = $7, theme = $8, food_description = $9, host_name = $10,
			fee = $11, max_members = $12, updated_at = $13
		WHERE id = $14
	`
	res, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.Name, e.Description, e.Date, e.LocationName, e.Latitude, e.Longitude, e.PlaceID, e.Theme,
		e.FoodDescription, e.HostName, e.Fee, e.MaxMembers, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}

func (r *eventRepository) Patch(ctx context.Context, id int64, p domain.EventPatch) (*domain.Event, error) {
	if p.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	builder := psql.Update("events").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + eventColumns)
	if p.Name != nil {
		builder = builder.Set("name", *p.Name)
	}
	if p.Description != nil {
		builder = builder.Set("description", *p.Description)
	}
	if p.Date != nil {
		builder = builder.Set("date", *p.Date)
	}
	if p.LocationName != nil {
		builder = builder.Set("location_name", *p.LocationName)
	}
	if p.Latitude != nil {
		builder = builder.Set("latitude", *p.Latitude)
	}
	if p.Longitude != nil {
		builder = builder.Set("longitude", *p.Longitude)
	}
	if p.PlaceID != nil {
		builder = builder.Set("place_id", *p.PlaceID)
	}
	if p.Theme != nil {
		builder = builder.Set("theme", *p.Theme)
	}
	if p.FoodDescription != nil {
		builder = builder.Set("food_description", *p.FoodDescription)
	}
	if p.HostName != nil {
		builder = builder.Set("host_name", *p.HostName)
	}
	if p.Fee != nil {
		builder = builder.Set("fee", *p.Fee)
	}
	if p.MaxMembers != nil {
		builder = builder.Set("max_members", *p.MaxMembers)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build patch event query: %w", err)
	}
	return r.getOne(ctx, query, args...)
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}
