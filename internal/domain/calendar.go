package domain

import "sort"

// CalendarDay groups the approved events starting on a single calendar date.
// swagger:model CalendarDay
type CalendarDay struct {
	Date     string   `json:"date"` // YYYY-MM-DD
	EventIDs []string `json:"event_ids"`
}

// AggregateCalendar groups approved events by the UTC calendar date of their
// start time, sorted by date ascending. Event IDs within a day keep the input
// order. Events that are not approved are skipped.
func AggregateCalendar(events []*Event) []CalendarDay {
	byDate := make(map[string][]string)
	for _, e := range events {
		if e.Status != StatusApproved {
			continue
		}
		date := e.StartDatetime.UTC().Format("2006-01-02")
		byDate[date] = append(byDate[date], e.ID)
	}
	days := make([]CalendarDay, 0, len(byDate))
	for date, ids := range byDate {
		days = append(days, CalendarDay{Date: date, EventIDs: ids})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
