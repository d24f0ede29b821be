package billing

import "time"

// NextPeriodStart computes when the period following the one starting at
// current begins, given the tenancy renewal period in days.
//
// A 30-day period is treated as "monthly": the next period starts on the
// same day of the next calendar month, clamped to that month's length
// (Jan 31 renews on Feb 28). Periods anchored on the 1st of a month whose
// length happens to equal the renewal period also roll to the 1st of the
// next month. Everything else advances by the literal day count.
func NextPeriodStart(current time.Time, renewalPeriodDays int) time.Time {
	current = current.UTC()
	switch {
	case renewalPeriodDays == 30:
		return addCalendarMonth(current)
	case current.Day() == 1 && renewalPeriodDays == daysInMonth(current):
		return addCalendarMonth(current)
	default:
		return current.AddDate(0, 0, renewalPeriodDays)
	}
}

// IsRenewalDue reports whether the period that started at periodStart has
// elapsed at now, i.e. the next period should begin.
func IsRenewalDue(now, periodStart time.Time, renewalPeriodDays int) bool {
	return !now.UTC().Before(NextPeriodStart(periodStart, renewalPeriodDays))
}

// addCalendarMonth advances t by one calendar month, clamping the day to
// the target month's length instead of letting it spill over (time's
// AddDate would turn Jan 31 into Mar 2 or 3).
func addCalendarMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month()+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if max := daysInMonth(firstOfNext); day > max {
		day = max
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
