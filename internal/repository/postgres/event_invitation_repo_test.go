package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joiny/internal/domain"
)

func TestEventInvitationRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO event_invitations \(event_id, email, sent_at\)`).
		WithArgs(int64(4), "bob@example.com", fixedTime).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	inv := &domain.EventInvitation{EventID: 4, Email: "bob@example.com", SentAt: fixedTime}
	require.NoError(t, NewEventInvitationRepository(db).Create(context.Background(), inv))
	assert.Equal(t, int64(11), inv.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventInvitationRepository_ListByEventID(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM event_invitations\s+WHERE event_id = \$1\s+ORDER BY sent_at DESC`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "email", "sent_at"}).
				AddRow(int64(2), int64(4), "b@example.com", fixedTime).
				AddRow(int64(1), int64(4), "a@example.com", fixedTime))

		list, err := NewEventInvitationRepository(db).ListByEventID(context.Background(), 4)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b@example.com", list[0].Email)
	})
	t.Run("empty is not nil", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM event_invitations`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "email", "sent_at"}))

		list, err := NewEventInvitationRepository(db).ListByEventID(context.Background(), 5)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}
