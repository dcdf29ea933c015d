package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techcalendar/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeEventRepo records created events and answers duplicate checks.
type fakeEventRepo struct {
	created  []*domain.Event
	existing map[string]bool // "org|name" -> exists
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	f.created = append(f.created, e)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, _ string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(_ context.Context, _ *domain.EventStatus) ([]*domain.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Replace(_ context.Context, _ *domain.Event) error { return nil }

func (f *fakeEventRepo) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeEventRepo) UpdateStatus(_ context.Context, _ string, _ domain.EventStatus) error {
	return nil
}

func (f *fakeEventRepo) ExistsSubmission(_ context.Context, org, name string, _ time.Time) (bool, error) {
	return f.existing[org+"|"+name], nil
}

const sampleYAML = `organization_name: GoBR
event_name: GopherCon Brasil
start_datetime: "2026-05-10T09:00:00"
end_datetime: "2026-05-10T18:00:00"
address: Av. Central 100, Florianópolis, Brasil
maps_link: https://maps.google.com/?q=Av+Central+100
online: false
event_link: https://gophercon.com.br
state: SC
tags:
  - go
  - backend
intl:
  pt-br:
    event_edition: Edição 5
    cost: R$300,00
    banner_link: https://example.com/banner.png
    short_description: Conferência brasileira de Go.
  en-us:
    event_edition: Edition 5
    cost: R$300,00
    banner_link: https://example.com/banner.png
    short_description: The Brazilian Go conference.
`

const freeYAML = `organization_name: Meetup SP
event_name: Go Night
start_datetime: "2026-06-01T19:00:00"
end_datetime: "2026-06-01T22:00:00"
online: true
intl:
  pt-br:
    cost: Grátis
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestImportDir(t *testing.T) {
	t.Run("imports events as approved with normalized costs", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "20260510_gophercon.yml", sampleYAML)
		repo := &fakeEventRepo{}

		res, err := NewImporter(repo, testLogger).ImportDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Imported)

		require.Len(t, repo.created, 1)
		event := repo.created[0]
		assert.Equal(t, domain.StatusApproved, event.Status)
		assert.Equal(t, domain.State("SC"), event.State)
		assert.False(t, event.IsFree)
		assert.Equal(t, []string{"go", "backend"}, event.Tags)

		ptbr, ok := event.Intl["pt-br"]
		require.True(t, ok)
		require.NotNil(t, ptbr.Cost)
		assert.InDelta(t, 300.0, *ptbr.Cost, 0.001)
		assert.Equal(t, domain.CurrencyBRL, ptbr.Currency)
	})

	t.Run("free events get nil cost and default online state", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "go_night.yaml", freeYAML)
		repo := &fakeEventRepo{}

		res, err := NewImporter(repo, testLogger).ImportDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Imported)

		event := repo.created[0]
		assert.True(t, event.IsFree)
		assert.Equal(t, domain.State("OL"), event.State)
		assert.Nil(t, event.Intl["pt-br"].Cost)
	})

	t.Run("duplicates are skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "20260510_gophercon.yml", sampleYAML)
		repo := &fakeEventRepo{existing: map[string]bool{"GoBR|GopherCon Brasil": true}}

		res, err := NewImporter(repo, testLogger).ImportDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Skipped)
		assert.Empty(t, repo.created)
	})

	t.Run("bad files are counted and do not abort the run", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "broken.yml", "::: not yaml :::")
		writeFile(t, dir, "20260510_gophercon.yml", sampleYAML)
		writeFile(t, dir, "notes.txt", "ignored")
		repo := &fakeEventRepo{}

		res, err := NewImporter(repo, testLogger).ImportDir(context.Background(), dir)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Imported)
		assert.Equal(t, 1, res.Failed)
	})
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		raw      string
		wantFree bool
		wantCost float64
	}{
		{"Grátis", true, 0},
		{"gratis", true, 0},
		{"", true, 0},
		{"R$300,00", false, 300.0},
		{"R$ 1.250,50", false, 1250.50},
		{"USD 45,00", false, 45.0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cost, free := parseCost(tt.raw)
			assert.Equal(t, tt.wantFree, free)
			if !tt.wantFree {
				require.NotNil(t, cost)
				assert.InDelta(t, tt.wantCost, *cost, 0.001)
			}
		})
	}
}
