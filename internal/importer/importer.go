package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"techcalendar/internal/domain"
)

// eventFile mirrors the legacy YAML event-file layout. Costs are free-form
// strings ("Grátis", "R$300,00") and are normalized on import.
type eventFile struct {
	OrganizationName string                  `yaml:"organization_name"`
	EventName        string                  `yaml:"event_name"`
	StartDatetime    string                  `yaml:"start_datetime"`
	EndDatetime      string                  `yaml:"end_datetime"`
	Address          string                  `yaml:"address"`
	MapsLink         string                  `yaml:"maps_link"`
	Online           bool                    `yaml:"online"`
	EventLink        string                  `yaml:"event_link"`
	State            string                  `yaml:"state"`
	Tags             []string                `yaml:"tags"`
	Intl             map[string]localization `yaml:"intl"`
}

type localization struct {
	EventEdition     string `yaml:"event_edition"`
	Cost             string `yaml:"cost"`
	Currency         string `yaml:"currency"`
	BannerLink       string `yaml:"banner_link"`
	ShortDescription string `yaml:"short_description"`
}

// Importer loads YAML event files from a directory and stores them as
// approved events. Files that fail to parse are logged and skipped, and
// events already present (same organization, name, and start time) are left
// untouched.
type Importer struct {
	repo   domain.EventRepository
	logger *slog.Logger
}

func NewImporter(repo domain.EventRepository, logger *slog.Logger) *Importer {
	return &Importer{repo: repo, logger: logger}
}

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
	Failed   int
}

// ImportDir imports every .yml/.yaml file directly under dir.
func (i *Importer) ImportDir(ctx context.Context, dir string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("read events dir: %w", err)
	}

	var res Result
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		event, err := i.loadFile(path)
		if err != nil {
			i.logger.Error("skipping unreadable event file", "file", entry.Name(), "err", err)
			res.Failed++
			continue
		}

		exists, err := i.repo.ExistsSubmission(ctx, event.OrganizationName, event.EventName, event.StartDatetime)
		if err != nil {
			return res, fmt.Errorf("check duplicate for %s: %w", entry.Name(), err)
		}
		if exists {
			i.logger.Info("event already present, skipping", "file", entry.Name())
			res.Skipped++
			continue
		}

		if err := i.repo.Create(ctx, event); err != nil {
			return res, fmt.Errorf("store %s: %w", entry.Name(), err)
		}
		res.Imported++
	}
	return res, nil
}

func (i *Importer) loadFile(path string) (*domain.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file eventFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return file.toDomain()
}

func (f *eventFile) toDomain() (*domain.Event, error) {
	if f.OrganizationName == "" || f.EventName == "" {
		return nil, fmt.Errorf("organization_name and event_name are required")
	}
	start, err := parseDatetime(f.StartDatetime)
	if err != nil {
		return nil, fmt.Errorf("start_datetime: %w", err)
	}
	end, err := parseDatetime(f.EndDatetime)
	if err != nil {
		return nil, fmt.Errorf("end_datetime: %w", err)
	}

	state := domain.State(strings.ToUpper(f.State))
	if f.State == "" {
		if f.Online {
			state = domain.State("OL")
		} else {
			state = domain.State("SC")
		}
	}
	if !state.Valid() {
		return nil, fmt.Errorf("unknown state %q", f.State)
	}

	isFree := true
	intl := make(map[string]domain.Localization, len(f.Intl))
	for lang, loc := range f.Intl {
		cost, free := parseCost(loc.Cost)
		if !free {
			isFree = false
		}
		currency := domain.Currency(strings.ToUpper(loc.Currency))
		if loc.Currency == "" {
			currency = domain.CurrencyBRL
		}
		if !currency.Valid() {
			return nil, fmt.Errorf("unknown currency %q in %q localization", loc.Currency, lang)
		}
		intl[lang] = domain.Localization{
			EventEdition:     loc.EventEdition,
			Cost:             cost,
			Currency:         currency,
			BannerLink:       loc.BannerLink,
			ShortDescription: loc.ShortDescription,
		}
	}

	now := time.Now()
	return &domain.Event{
		OrganizationName: f.OrganizationName,
		EventName:        f.EventName,
		StartDatetime:    start,
		EndDatetime:      end,
		Address:          optional(f.Address),
		MapsLink:         optional(f.MapsLink),
		Online:           f.Online,
		EventLink:        optional(f.EventLink),
		State:            state,
		IsFree:           isFree,
		Status:           domain.StatusApproved,
		Tags:             f.Tags,
		Intl:             intl,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// parseDatetime accepts RFC 3339 and the legacy files' zone-less ISO form.
func parseDatetime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}

// parseCost normalizes a legacy cost string. "Grátis" (or empty) means free.
// Anything else has its digits extracted and is read as centavos.
func parseCost(raw string) (*float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "grátis" || s == "gratis" || s == "free" {
		return nil, true
	}
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return nil, true
	}
	var cents float64
	fmt.Sscanf(digits.String(), "%f", &cents)
	cost := cents / 100.0
	return &cost, false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
