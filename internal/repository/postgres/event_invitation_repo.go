package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"joiny/internal/domain"
)

type eventInvitationRepository struct {
	DB *sqlx.DB
}

func NewEventInvitationRepository(db *sqlx.DB) domain.EventInvitationRepository {
	return &eventInvitationRepository{DB: db}
}

func (r *eventInvitationRepository) Create(ctx context.Context, inv *domain.EventInvitation) error {
	query := `
		INSERT INTO event_invitations (event_id, email, sent_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return conn(ctx, r.DB).QueryRowxContext(ctx, query, inv.EventID, inv.Email, inv.SentAt).Scan(&inv.ID)
}

func (r *eventInvitationRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.EventInvitation, error) {
	query := `
		SELECT id, event_id, email, sent_at
		FROM event_invitations
		WHERE event_id = $1
		ORDER BY sent_at DESC, id DESC
	`
	invitations := make([]*domain.EventInvitation, 0)
	if err := conn(ctx, r.DB).SelectContext(ctx, &invitations, query, eventID); err != nil {
		return nil, err
	}
	return invitations, nil
}
