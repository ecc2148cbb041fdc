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

const participantColumns = "id, event_id, user_id, name, created_at"

type participantRepository struct {
	DB *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (event_id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowxContext(ctx, query, p.EventID, p.UserID, p.Name, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyJoined
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *participantRepository) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE event_id = $1 AND user_id = $2
	`
	return r.getOne(ctx, query, eventID, userID)
}

func (r *participantRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Participant, error) {
	p := &domain.Participant{}
	if err := conn(ctx, r.DB).GetContext(ctx, p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var n int
	if err := conn(ctx, r.DB).GetContext(ctx, &n, `SELECT COUNT(*) FROM participants WHERE event_id = $1`, eventID); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *participantRepository) ListByEventIDs(ctx context.Context, eventIDs []int64) ([]*domain.Participant, error) {
	if len(eventIDs) == 0 {
		return []*domain.Participant{}, nil
	}
	query, args, err := psql.Select(participantColumns).
		From("participants").
		Where(squirrel.Eq{"event_id": eventIDs}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}
	return r.selectMany(ctx, query, args...)
}

func (r *participantRepository) List(ctx context.Context, filter domain.ParticipantFilter) ([]*domain.Participant, error) {
	builder := psql.Select(participantColumns).
		From("participants").
		OrderBy("created_at", "id")
	if filter.EventID != nil {
		builder = builder.Where(squirrel.Eq{"event_id": *filter.EventID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}
	return r.selectMany(ctx, query, args...)
}

func (r *participantRepository) selectMany(ctx context.Context, query string, args ...any) ([]*domain.Participant, error) {
	participants := make([]*domain.Participant, 0)
	if err := conn(ctx, r.DB).SelectContext(ctx, &participants, query, args...); err != nil {
		return nil, err
	}
	return participants, nil
}

func (r *participantRepository) UpdateName(ctx context.Context, id int64, name string) (*domain.Participant, error) {
	query := `
		UPDATE participants SET name = $1
		WHERE id = $2
		RETURNING ` + participantColumns
	return r.getOne(ctx, query, name, id)
}

func (r *participantRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res)
}
