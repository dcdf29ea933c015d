package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"techcalendar/internal/domain"

	"github.com/lib/pq"
)

const eventColumns = `id, organization_name, event_name, start_datetime, end_datetime,
		address, maps_link, online, event_link, state, is_free, status, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventRepository backed by Postgres.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (organization_name, event_name, start_datetime, end_datetime,
			address, maps_link, online, event_link, state, is_free, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.OrganizationName, e.EventName, e.StartDatetime, e.EndDatetime,
		e.Address, e.MapsLink, e.Online, e.EventLink, string(e.State), e.IsFree,
		string(e.Status), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrDuplicateEvent
		}
		return err
	}

	if err := insertEventTags(ctx, tx, e.ID, e.Tags); err != nil {
		return err
	}
	if err := insertEventIntl(ctx, tx, e.ID, e.Intl); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.attachRelations(ctx, []*domain.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, status *domain.EventStatus) ([]*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY created_at, id`, eventColumns)
	args := []interface{}{}
	if status != nil {
		query = fmt.Sprintf(`SELECT %s FROM events WHERE status = $1 ORDER BY created_at, id`, eventColumns)
		args = append(args, string(*status))
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Replace(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE events SET organization_name = $2, event_name = $3, start_datetime = $4,
			end_datetime = $5, address = $6, maps_link = $7, online = $8, event_link = $9,
			state = $10, is_free = $11, updated_at = $12
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query,
		e.ID, e.OrganizationName, e.EventName, e.StartDatetime, e.EndDatetime,
		e.Address, e.MapsLink, e.Online, e.EventLink, string(e.State), e.IsFree, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	// Full replacement: drop and re-create all tag links and localizations.
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_tags WHERE event_id = $1`, e.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_intl WHERE event_id = $1`, e.ID); err != nil {
		return err
	}
	if err := insertEventTags(ctx, tx, e.ID, e.Tags); err != nil {
		return err
	}
	if err := insertEventIntl(ctx, tx, e.ID, e.Intl); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ExistsSubmission(ctx context.Context, org, name string, start time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE organization_name = $1 AND event_name = $2 AND start_datetime = $3)`,
		org, name, start,
	).Scan(&exists)
	return exists, err
}

// attachRelations loads tags and localizations for the given events in two
// batched queries.
func (r *eventRepository) attachRelations(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Event, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		e.Tags = []string{}
		e.Intl = map[string]domain.Localization{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	tagRows, err := r.DB.QueryContext(ctx, `
		SELECT et.event_id, t.name FROM event_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.event_id = ANY($1)
		ORDER BY t.name`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var eventID, name string
		if err := tagRows.Scan(&eventID, &name); err != nil {
			return err
		}
		if e, ok := byID[eventID]; ok {
			e.Tags = append(e.Tags, name)
		}
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	intlRows, err := r.DB.QueryContext(ctx, `
		SELECT event_id, lang, event_edition, cost, currency, banner_link, short_description
		FROM event_intl
		WHERE event_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer intlRows.Close()
	for intlRows.Next() {
		var eventID, lang string
		var edition, currency, banner, desc sql.NullString
		var cost sql.NullFloat64
		if err := intlRows.Scan(&eventID, &lang, &edition, &cost, &currency, &banner, &desc); err != nil {
			return err
		}
		loc := domain.Localization{
			EventEdition:     edition.String,
			Currency:         domain.Currency(currency.String),
			BannerLink:       banner.String,
			ShortDescription: desc.String,
		}
		if cost.Valid {
			c := cost.Float64
			loc.Cost = &c
		}
		if e, ok := byID[eventID]; ok {
			e.Intl[lang] = loc
		}
	}
	return intlRows.Err()
}

func insertEventTags(ctx context.Context, tx *sql.Tx, eventID string, tags []string) error {
	for _, name := range tags {
		var tagID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = $1`, name).Scan(&tagID)
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowContext(ctx, `INSERT INTO tags (name) VALUES ($1) RETURNING id`, name).Scan(&tagID)
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_tags (event_id, tag_id) VALUES ($1, $2) ON CONFLICT (event_id, tag_id) DO NOTHING`,
			eventID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func insertEventIntl(ctx context.Context, tx *sql.Tx, eventID string, intl map[string]domain.Localization) error {
	for lang, loc := range intl {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_intl (event_id, lang, event_edition, cost, currency, banner_link, short_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			eventID, lang, loc.EventEdition, loc.Cost, string(loc.Currency), loc.BannerLink, loc.ShortDescription); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var address, mapsLink, eventLink sql.NullString
	var state, status string
	err := row.Scan(
		&e.ID, &e.OrganizationName, &e.EventName, &e.StartDatetime, &e.EndDatetime,
		&address, &mapsLink, &e.Online, &eventLink, &state, &e.IsFree, &status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if address.Valid {
		e.Address = &address.String
	}
	if mapsLink.Valid {
		e.MapsLink = &mapsLink.String
	}
	if eventLink.Valid {
		e.EventLink = &eventLink.String
	}
	e.State = domain.State(state)
	e.Status = domain.EventStatus(status)
	return e, nil
}
