package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"techcalendar/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{
	"id", "organization_name", "event_name", "start_datetime", "end_datetime",
	"address", "maps_link", "online", "event_link", "state", "is_free", "status",
	"created_at", "updated_at",
}

func eventRow(id string) *sqlmock.Rows {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(eventCols).AddRow(
		id, "PyFloripa", "Python Basics",
		time.Date(2025, 4, 10, 19, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 10, 22, 0, 0, 0, time.UTC),
		"Rua das Flores 100", nil, false, nil, "SC", true, "requested", now, now,
	)
}

func expectRelations(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM event_tags et`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "name"}))
	mock.ExpectQuery(`FROM event_intl`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "lang", "event_edition", "cost", "currency", "banner_link", "short_description"}))
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	cost := 30.0

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success with tag and localization",
			event: &domain.Event{
				OrganizationName: "PyFloripa",
				EventName:        "Python Basics",
				StartDatetime:    time.Date(2025, 4, 10, 19, 0, 0, 0, time.UTC),
				EndDatetime:      time.Date(2025, 4, 10, 22, 0, 0, 0, time.UTC),
				State:            "SC",
				Status:           domain.StatusRequested,
				Tags:             []string{"python"},
				Intl: map[string]domain.Localization{
					"pt-br": {EventEdition: "2025", Cost: &cost, Currency: "BRL"},
				},
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
				mock.ExpectQuery(`SELECT id FROM tags WHERE name`).
					WithArgs("python").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`INSERT INTO tags`).
					WithArgs("python").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tag-uuid-1"))
				mock.ExpectExec(`INSERT INTO event_tags`).
					WithArgs("ev-uuid-1", "tag-uuid-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO event_intl`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate submission maps to ErrDuplicateEvent",
			event: &domain.Event{
				OrganizationName: "PyFloripa",
				EventName:        "Python Basics",
				Status:           domain.StatusRequested,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrDuplicateEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ev-uuid-1", tt.event.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events\s+WHERE id = \$1`).
			WithArgs("ev-uuid-1").
			WillReturnRows(eventRow("ev-uuid-1"))
		mock.ExpectQuery(`FROM event_tags et`).
			WillReturnRows(sqlmock.NewRows([]string{"event_id", "name"}).
				AddRow("ev-uuid-1", "python"))
		mock.ExpectQuery(`FROM event_intl`).
			WillReturnRows(sqlmock.NewRows([]string{"event_id", "lang", "event_edition", "cost", "currency", "banner_link", "short_description"}).
				AddRow("ev-uuid-1", "pt-br", "2025", 30.0, "BRL", "", "Curso introdutório"))

		repo := NewEventRepository(db)
		e, err := repo.GetByID(ctx, "ev-uuid-1")
		require.NoError(t, err)
		assert.Equal(t, "Python Basics", e.EventName)
		assert.Equal(t, domain.State("SC"), e.State)
		assert.Equal(t, []string{"python"}, e.Tags)
		require.Contains(t, e.Intl, "pt-br")
		require.NotNil(t, e.Intl["pt-br"].Cost)
		assert.Equal(t, 30.0, *e.Intl["pt-br"].Cost)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events\s+WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM events WHERE status = \$1 ORDER BY created_at, id`).
		WithArgs("approved").
		WillReturnRows(eventRow("ev-uuid-1"))
	expectRelations(mock)

	repo := NewEventRepository(db)
	status := domain.StatusApproved
	events, err := repo.List(ctx, &status)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-uuid-1", events[0].ID)
	assert.NotNil(t, events[0].Tags)
	assert.NotNil(t, events[0].Intl)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("ev-uuid-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(ctx, "ev-uuid-1"))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}

func TestEventRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE events SET status`).
		WithArgs("ev-uuid-1", "approved").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepository(db)
	require.NoError(t, repo.UpdateStatus(ctx, "ev-uuid-1", domain.StatusApproved))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ExistsSubmission(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2025, 4, 10, 19, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("PyFloripa", "Python Basics", start).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewEventRepository(db)
	exists, err := repo.ExistsSubmission(ctx, "PyFloripa", "Python Basics", start)
	require.NoError(t, err)
	assert.True(t, exists)
}
