package helpers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"techcalendar/internal/domain"
)

const filterDateLayout = "2006-01-02"

// ParseEventFilter builds a domain.EventFilter from query parameters.
//
// Soft parameters (tags, name, org, address, online, is_free, price_min,
// price_max, date_from, date_start_range, date_end_range) are silently
// dropped when malformed, so a bad value behaves like an absent one.
// Enumerated parameters
// (state, currency) return domain.ErrInvalidInput when set to an unknown
// value. A range bound without its counterpart is ignored.
func ParseEventFilter(query url.Values) (domain.EventFilter, error) {
	var f domain.EventFilter

	if raw := query.Get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}

	f.Name = strings.TrimSpace(query.Get("name"))
	f.Org = strings.TrimSpace(query.Get("org"))
	f.Address = strings.TrimSpace(query.Get("address"))

	f.Online = parseOptionalBool(query.Get("online"))
	f.IsFree = parseOptionalBool(query.Get("is_free"))

	if raw := query.Get("state"); raw != "" {
		state := domain.State(strings.ToUpper(strings.TrimSpace(raw)))
		if !state.Valid() {
			return domain.EventFilter{}, fmt.Errorf("%w: unknown state %q", domain.ErrInvalidInput, raw)
		}
		f.State = &state
	}

	if raw := query.Get("currency"); raw != "" {
		currency := domain.Currency(strings.ToUpper(strings.TrimSpace(raw)))
		if !currency.Valid() {
			return domain.EventFilter{}, fmt.Errorf("%w: unknown currency %q", domain.ErrInvalidInput, raw)
		}
		f.Currency = &currency
	}

	f.PriceMin = parseOptionalPrice(query.Get("price_min"))
	f.PriceMax = parseOptionalPrice(query.Get("price_max"))

	f.DateFrom = parseOptionalDate(query.Get("date_from"))

	rangeStart := parseOptionalDate(query.Get("date_start_range"))
	rangeEnd := parseOptionalDate(query.Get("date_end_range"))
	if rangeStart != nil && rangeEnd != nil {
		f.RangeStart = rangeStart
		f.RangeEnd = rangeEnd
	}

	return f, nil
}

func parseOptionalBool(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalPrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

func parseOptionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(filterDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &t
}
