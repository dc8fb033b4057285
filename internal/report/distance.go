package report

import "github.com/pkordes/diplomatic-drive/internal/domain"

// Distance returns the kilometres driven on t: odometer end minus start.
// It never fails. A missing, non-numeric, or negative reading gives 0, and a
// negative difference is clamped to 0.
func Distance(t domain.Trip) int64 {
	d, _ := distance(t)
	return d
}

// distance is Distance plus a note explaining why the value was forced to 0.
// The note is empty when the distance is the plain difference.
func distance(t domain.Trip) (int64, string) {
	start, ok := t.OdometerStart.Int()
	if !ok || start < 0 {
		return 0, ""
	}
	end, ok := t.OdometerEnd.Int()
	if !ok || end < 0 {
		return 0, ""
	}
	if end == 0 && start > 0 {
		return 0, "final odometer not entered"
	}
	if end < start {
		return 0, "final odometer below initial odometer"
	}
	return end - start, ""
}
