package postgres

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var (
	fixedTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	partyDate = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "date", "location_name", "latitude", "longitude", "place_id",
		"theme", "food_description", "host_id", "host_name", "fee", "max_members", "invite_code",
		"created_at", "updated_at",
	})
}

func addEventRow(rows *sqlmock.Rows, id int64, name, code string, hostID any, maxMembers int) *sqlmock.Rows {
	return rows.AddRow(id, name, "", partyDate, nil, nil, nil, nil,
		"basic", nil, hostID, "Alice", int64(0), int64(maxMembers), code, fixedTime, fixedTime)
}

func participantRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "user_id", "name", "created_at"})
}
