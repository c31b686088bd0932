package activity

import "time"

// FilterByPeriod keeps the entries whose day-key falls in r, in input order.
// Entries with an unparseable day-key are dropped.
func FilterByPeriod(entries []HistoryEntry, r Range, now time.Time) []HistoryEntry {
	filtered := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		date, err := ParseDayKey(e.Date, now.Location())
		if err != nil {
			continue
		}
		if r.Contains(date, now) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// InvalidEntries returns the entries FilterByPeriod would always drop.
func InvalidEntries(entries []HistoryEntry, loc *time.Location) []HistoryEntry {
	var invalid []HistoryEntry
	for _, e := range entries {
		if _, err := ParseDayKey(e.Date, loc); err != nil {
			invalid = append(invalid, e)
		}
	}
	return invalid
}
