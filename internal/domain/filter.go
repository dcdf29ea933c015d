package domain

import (
	"strings"
	"time"
)

// EventFilter is the canonical, validated set of optional listing
// constraints. A nil or zero field imposes no constraint; supplied
// constraints compose with logical AND.
type EventFilter struct {
	Tags     []string
	Name     string
	Org      string
	Address  string
	Online   *bool
	State    *State
	Currency *Currency
	IsFree   *bool
	PriceMin *float64
	PriceMax *float64
	DateFrom *time.Time
	// RangeStart and RangeEnd only constrain when both are set: start must be
	// on or after RangeStart and end on or before RangeEnd.
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// Matches reports whether the event satisfies every supplied constraint.
func (f EventFilter) Matches(e *Event) bool {
	if len(f.Tags) > 0 && !anyTagMatch(e.Tags, f.Tags) {
		return false
	}
	if f.Name != "" && !containsFold(e.EventName, f.Name) {
		return false
	}
	if f.Org != "" && !containsFold(e.OrganizationName, f.Org) {
		return false
	}
	if f.Address != "" {
		if e.Address == nil || !containsFold(*e.Address, f.Address) {
			return false
		}
	}
	if f.Online != nil && e.Online != *f.Online {
		return false
	}
	if f.State != nil && e.State != *f.State {
		return false
	}
	if f.IsFree != nil && e.IsFree != *f.IsFree {
		return false
	}
	// Currency and price bounds are evaluated jointly: a single localization
	// must satisfy all of them at once, mirroring a SQL join on event_intl.
	if f.Currency != nil || f.PriceMin != nil || f.PriceMax != nil {
		if !anyLocalizationMatch(e.Intl, f.Currency, f.PriceMin, f.PriceMax) {
			return false
		}
	}
	if f.DateFrom != nil && e.StartDatetime.Before(*f.DateFrom) {
		return false
	}
	if f.RangeStart != nil && f.RangeEnd != nil {
		if e.StartDatetime.Before(*f.RangeStart) || e.EndDatetime.After(*f.RangeEnd) {
			return false
		}
	}
	return true
}

// FilterEvents narrows events to those matching the filter, preserving the
// input order.
func FilterEvents(events []*Event, f EventFilter) []*Event {
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func anyTagMatch(eventTags, filterTags []string) bool {
	for _, ft := range filterTags {
		for _, et := range eventTags {
			if et == ft {
				return true
			}
		}
	}
	return false
}

func anyLocalizationMatch(intl map[string]Localization, currency *Currency, priceMin, priceMax *float64) bool {
	for _, loc := range intl {
		if currency != nil && loc.Currency != *currency {
			continue
		}
		if priceMin != nil && (loc.Cost == nil || *loc.Cost < *priceMin) {
			continue
		}
		if priceMax != nil && (loc.Cost == nil || *loc.Cost > *priceMax) {
			continue
		}
		return true
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
