package opendigger

import (
	"encoding/json"
	"testing"
	"time"
)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestLatestMonthValue(t *testing.T) {
	data := map[string]json.RawMessage{
		"2025-05":     raw(t, 10.5),
		"2025-07":     raw(t, 72.5),
		"2025-06":     raw(t, 55.0),
		"2025-07-raw": raw(t, 999.0),
		"2025Q2":      raw(t, 888.0),
	}

	got, ok := latestMonthValue(data)
	if !ok {
		t.Fatal("expected a value")
	}
	if got != 72.5 {
		t.Errorf("latest = %v, want 72.5 (raw and quarter keys must be ignored)", got)
	}
}

func TestLatestMonthValueEmpty(t *testing.T) {
	if _, ok := latestMonthValue(map[string]json.RawMessage{}); ok {
		t.Error("expected no value for empty object")
	}
	data := map[string]json.RawMessage{"2025-07-raw": raw(t, 1.0)}
	if _, ok := latestMonthValue(data); ok {
		t.Error("expected no value when only raw keys exist")
	}
}

func TestActiveDaysLast30(t *testing.T) {
	// 31 days of hourly slots; activity on days 0, 5, and 30.
	hours := make([]float64, 31*24)
	hours[3] = 2           // day 0
	hours[5*24+10] = 1     // day 5
	hours[30*24] = 4       // day 30
	data := map[string]json.RawMessage{
		"2025-07": raw(t, hours),
	}

	// Day 0 falls outside the trailing 30-day window.
	if got := activeDaysLast30(data); got != 2 {
		t.Errorf("active days = %d, want 2", got)
	}
}

func TestActiveDaysLast30ShortMonth(t *testing.T) {
	hours := make([]float64, 10*24)
	hours[0] = 1
	hours[9*24] = 1
	data := map[string]json.RawMessage{"2025-07": raw(t, hours)}

	if got := activeDaysLast30(data); got != 2 {
		t.Errorf("active days = %d, want 2", got)
	}
}

func TestActiveDaysLast30BadShape(t *testing.T) {
	data := map[string]json.RawMessage{"2025-07": raw(t, "not an array")}
	if got := activeDaysLast30(data); got != 0 {
		t.Errorf("active days = %d, want 0 for malformed data", got)
	}
}

func TestFilterRecentMonths(t *testing.T) {
	now := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	data := map[string]json.RawMessage{
		"2025-07":     raw(t, 1.0),
		"2025-01":     raw(t, 2.0),
		"2024-06":     raw(t, 3.0),
		"2024-06-raw": raw(t, 4.0),
	}

	got := filterRecentMonths(data, 6, now)

	if _, ok := got["2025-07"]; !ok {
		t.Error("recent month dropped")
	}
	if _, ok := got["2024-06"]; ok {
		t.Error("stale month kept")
	}
	if _, ok := got["2024-06-raw"]; !ok {
		t.Error("unparseable key must be kept untouched")
	}
}
