package opendigger

import (
	"encoding/json"
	"regexp"
	"sort"
	"time"
)

// monthKey matches plain YYYY-MM keys. OpenDigger objects also carry
// quarter keys ("2023Q1") and "-raw" suffixed variants, which never feed
// the aggregation.
var monthKey = regexp.MustCompile(`^\d{4}-\d{2}$`)

// latestMonthValue returns the numeric value for the most recent YYYY-MM
// key, or (0, false) when the object holds no usable month entries.
// YYYY-MM keys sort chronologically as strings.
func latestMonthValue(data map[string]json.RawMessage) (float64, bool) {
	months := monthKeys(data)
	if len(months) == 0 {
		return 0, false
	}
	latest := months[len(months)-1]

	var v float64
	if err := json.Unmarshal(data[latest], &v); err != nil {
		return 0, false
	}
	return v, true
}

// activeDaysLast30 derives the active-day count from the
// active_dates_and_times object: the latest month's hourly activity array
// is folded into per-day totals and the positive entries among the last 30
// day slots are counted.
func activeDaysLast30(data map[string]json.RawMessage) int {
	months := monthKeys(data)
	if len(months) == 0 {
		return 0
	}
	latest := months[len(months)-1]

	var hours []float64
	if err := json.Unmarshal(data[latest], &hours); err != nil {
		return 0
	}

	// The array carries one slot per hour. Fold into days.
	days := make([]float64, 0, len(hours)/24+1)
	for i := 0; i < len(hours); i += 24 {
		end := i + 24
		if end > len(hours) {
			end = len(hours)
		}
		var total float64
		for _, h := range hours[i:end] {
			total += h
		}
		days = append(days, total)
	}

	if len(days) > 30 {
		days = days[len(days)-30:]
	}

	active := 0
	for _, d := range days {
		if d > 0 {
			active++
		}
	}
	return active
}

// monthKeys returns the YYYY-MM keys of data in ascending order.
func monthKeys(data map[string]json.RawMessage) []string {
	months := make([]string, 0, len(data))
	for k := range data {
		if monthKey.MatchString(k) {
			months = append(months, k)
		}
	}
	sort.Strings(months)
	return months
}

// filterRecentMonths drops YYYY-MM entries older than the cutoff while
// keeping unparseable keys untouched. Applied to active_dates_and_times
// before caching so the cache never grows past the scoring horizon.
func filterRecentMonths(data map[string]json.RawMessage, months int, now time.Time) map[string]json.RawMessage {
	cutoff := now.AddDate(0, 0, -months*30)
	out := make(map[string]json.RawMessage, len(data))
	for k, v := range data {
		if !monthKey.MatchString(k) {
			out[k] = v
			continue
		}
		t, err := time.Parse("2006-01", k)
		if err != nil || !t.Before(cutoff) {
			out[k] = v
		}
	}
	return out
}
