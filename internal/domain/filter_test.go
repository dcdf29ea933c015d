package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string       { return &s }
func boolPtr(b bool) *bool          { return &b }
func floatPtr(f float64) *float64   { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func testEvents() []*Event {
	cost10 := 10.0
	cost30 := 30.0
	cost60 := 60.0
	return []*Event{
		{
			ID:               "ev-1",
			OrganizationName: "PyFloripa",
			EventName:        "Python Basics",
			StartDatetime:    date(2025, 4, 10),
			EndDatetime:      date(2025, 4, 10),
			Address:          strPtr("Rua das Flores 100, Florianópolis"),
			State:            "SC",
			Online:           false,
			IsFree:           true,
			Status:           StatusApproved,
			Tags:             []string{"python"},
			Intl: map[string]Localization{
				"pt-br": {Currency: "BRL", Cost: nil},
			},
		},
		{
			ID:               "ev-2",
			OrganizationName: "GoSampa",
			EventName:        "Test Event",
			StartDatetime:    date(2025, 4, 15),
			EndDatetime:      date(2025, 4, 16),
			State:            "OL",
			Online:           true,
			IsFree:           false,
			Status:           StatusApproved,
			Tags:             []string{"test", "go"},
			Intl: map[string]Localization{
				"pt-br": {Currency: "BRL", Cost: &cost30},
				"en-us": {Currency: "USD", Cost: &cost60},
			},
		},
		{
			ID:               "ev-3",
			OrganizationName: "DevRio",
			EventName:        "Cheap Meetup",
			StartDatetime:    date(2025, 5, 1),
			EndDatetime:      date(2025, 5, 2),
			Address:          strPtr("Av. Atlântica 500, Rio de Janeiro"),
			State:            "RJ",
			Online:           false,
			IsFree:           false,
			Status:           StatusApproved,
			Tags:             []string{"community"},
			Intl: map[string]Localization{
				"pt-br": {Currency: "BRL", Cost: &cost10},
			},
		},
	}
}

func TestFilterEvents_EmptyFilterReturnsAllInOrder(t *testing.T) {
	events := testEvents()
	got := FilterEvents(events, EventFilter{})
	require.Len(t, got, len(events))
	for i := range events {
		assert.Equal(t, events[i].ID, got[i].ID)
	}
}

func TestFilterEvents_TagAnyMatch(t *testing.T) {
	events := testEvents()
	for _, e := range events {
		for _, tag := range e.Tags {
			got := FilterEvents(events, EventFilter{Tags: []string{tag}})
			ids := make([]string, 0, len(got))
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			assert.Contains(t, ids, e.ID, "tag %q should match event %s", tag, e.ID)
		}
	}
}

func TestFilterEvents_TagNoMatch(t *testing.T) {
	got := FilterEvents(testEvents(), EventFilter{Tags: []string{"rust"}})
	assert.Empty(t, got)
}

func TestFilterEvents_NameSubstringCaseInsensitive(t *testing.T) {
	got := FilterEvents(testEvents(), EventFilter{Name: "pyTHon"})
	require.Len(t, got, 1)
	assert.Equal(t, "ev-1", got[0].ID)
}

func TestFilterEvents_OrgAndAddress(t *testing.T) {
	got := FilterEvents(testEvents(), EventFilter{Org: "gosampa"})
	require.Len(t, got, 1)
	assert.Equal(t, "ev-2", got[0].ID)

	got = FilterEvents(testEvents(), EventFilter{Address: "atlântica"})
	require.Len(t, got, 1)
	assert.Equal(t, "ev-3", got[0].ID)

	// Events without an address never match an address filter.
	got = FilterEvents(testEvents(), EventFilter{Address: "anything"})
	for _, e := range got {
		require.NotNil(t, e.Address)
	}
}

func TestFilterEvents_OnlineFlag(t *testing.T) {
	got := FilterEvents(testEvents(), EventFilter{Online: boolPtr(true)})
	require.Len(t, got, 1)
	assert.Equal(t, "Test Event", got[0].EventName)
}

func TestFilterEvents_StateAndIsFree(t *testing.T) {
	st := State("SC")
	got := FilterEvents(testEvents(), EventFilter{State: &st})
	require.Len(t, got, 1)
	assert.Equal(t, "ev-1", got[0].ID)

	got = FilterEvents(testEvents(), EventFilter{IsFree: boolPtr(true)})
	require.Len(t, got, 1)
	assert.Equal(t, "ev-1", got[0].ID)
}

func TestFilterEvents_CurrencyAlone(t *testing.T) {
	usd := Currency("USD")
	got := FilterEvents(testEvents(), EventFilter{Currency: &usd})
	require.Len(t, got, 1)
	assert.Equal(t, "ev-2", got[0].ID)
}

func TestFilterEvents_PriceBoundsJointWithCurrency(t *testing.T) {
	brl := Currency("BRL")
	f := EventFilter{Currency: &brl, PriceMin: floatPtr(20), PriceMax: floatPtr(50)}
	got := FilterEvents(testEvents(), f)
	// ev-2 has a 30 BRL localization; ev-3's only BRL localization is 10 and
	// ev-1's has no cost, so both are excluded.
	require.Len(t, got, 1)
	assert.Equal(t, "ev-2", got[0].ID)
}

func TestFilterEvents_PriceBoundsRequireSingleLocalization(t *testing.T) {
	// ev-2 carries 30 BRL and 60 USD. A USD localization priced 30 does not
	// exist, so the joint constraint must fail even though 30 and USD each
	// appear somewhere.
	usd := Currency("USD")
	f := EventFilter{Currency: &usd, PriceMin: floatPtr(20), PriceMax: floatPtr(50)}
	got := FilterEvents(testEvents(), f)
	assert.Empty(t, got)
}

func TestFilterEvents_PriceMinGreaterThanMaxIsEmpty(t *testing.T) {
	f := EventFilter{PriceMin: floatPtr(50), PriceMax: floatPtr(20)}
	assert.Empty(t, FilterEvents(testEvents(), f))

	// Still empty when combined with other constraints that would match.
	f.Online = boolPtr(true)
	assert.Empty(t, FilterEvents(testEvents(), f))
}

func TestFilterEvents_NilCostNeverSatisfiesPriceBounds(t *testing.T) {
	got := FilterEvents(testEvents(), EventFilter{PriceMin: floatPtr(0)})
	for _, e := range got {
		assert.NotEqual(t, "ev-1", e.ID)
	}
}

func TestFilterEvents_DateFrom(t *testing.T) {
	got := FilterEvents(testEvents(), EventFilter{DateFrom: timePtr(date(2025, 4, 12))})
	require.Len(t, got, 2)
	assert.Equal(t, "ev-2", got[0].ID)
	assert.Equal(t, "ev-3", got[1].ID)
}

func TestFilterEvents_DateRangeAsymmetric(t *testing.T) {
	// Lower bound applies to start, upper bound to end.
	f := EventFilter{
		RangeStart: timePtr(time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)),
		RangeEnd:   timePtr(time.Date(2025, 4, 16, 23, 59, 59, 0, time.UTC)),
	}
	got := FilterEvents(testEvents(), f)
	require.Len(t, got, 1)
	assert.Equal(t, "ev-2", got[0].ID)
}

func TestFilterEvents_LoneRangeBoundImposesNoConstraint(t *testing.T) {
	events := testEvents()
	onlyStart := EventFilter{RangeStart: timePtr(date(2030, 1, 1))}
	assert.Len(t, FilterEvents(events, onlyStart), len(events))

	onlyEnd := EventFilter{RangeEnd: timePtr(date(2000, 1, 1))}
	assert.Len(t, FilterEvents(events, onlyEnd), len(events))
}

func TestFilterEvents_ConstraintsCompose(t *testing.T) {
	brl := Currency("BRL")
	f := EventFilter{
		Tags:     []string{"go", "test"},
		Online:   boolPtr(true),
		Currency: &brl,
		DateFrom: timePtr(date(2025, 4, 1)),
	}
	got := FilterEvents(testEvents(), f)
	require.Len(t, got, 1)
	assert.Equal(t, "ev-2", got[0].ID)
}
