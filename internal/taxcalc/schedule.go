package taxcalc

import "time"

// Annual PIT filings are due January 31st.
const dueMonth, dueDay = time.January, 31

// NextDueDate returns the next annual PIT filing deadline on or after today.
// Comparison is by calendar date; the deadline day itself still counts.
func NextDueDate(today time.Time) time.Time {
	day := truncateToDate(today)
	deadline := time.Date(day.Year(), dueMonth, dueDay, 0, 0, 0, 0, day.Location())
	if day.After(deadline) {
		deadline = time.Date(day.Year()+1, dueMonth, dueDay, 0, 0, 0, 0, day.Location())
	}
	return deadline
}

// TaxYear returns the year a filing made today covers: the previous calendar
// year while the January deadline is still open, otherwise the current one.
func TaxYear(today time.Time) int {
	day := truncateToDate(today)
	deadline := time.Date(day.Year(), dueMonth, dueDay, 0, 0, 0, 0, day.Location())
	if !day.After(deadline) {
		return day.Year() - 1
	}
	return day.Year()
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
