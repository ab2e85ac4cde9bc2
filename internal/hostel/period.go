package hostel

import "time"

// Period is an export look-back window.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Weekly, Monthly, Yearly:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// Cutoff returns the earliest creation time inside the window ending at now.
// Month and year steps clamp to the last day of the target month, so
// Mar 31 minus one month is Feb 28 (or 29), the way Postgres intervals do.
func (p Period) Cutoff(now time.Time) time.Time {
	switch p {
	case Weekly:
		return now.AddDate(0, 0, -7)
	case Monthly:
		return monthsBefore(now, 1)
	default:
		return monthsBefore(now, 12)
	}
}

func monthsBefore(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Filename is the attachment name of the period's export.
func (p Period) Filename() string {
	return "report_" + string(p) + ".xlsx"
}
