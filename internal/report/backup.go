package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkordes/diplomatic-drive/internal/domain"
)

// backupHeader is written as the first row of every CSV backup.
var backupHeader = []string{
	"id", "date", "departure_time", "departure_place", "odometer_start",
	"arrival_time", "arrival_place", "odometer_end", "cost", "purpose",
	"recorded_at",
}

// WriteCSV writes trips as UTF-8 CSV with a header row. Values are written as
// stored, so malformed readings from hand-edited sheets survive the backup.
func WriteCSV(w io.Writer, trips []domain.Trip) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(backupHeader); err != nil {
		return fmt.Errorf("report.WriteCSV: %w", err)
	}
	for _, t := range trips {
		if err := cw.Write(backupRecord(t)); err != nil {
			return fmt.Errorf("report.WriteCSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report.WriteCSV: %w", err)
	}
	return nil
}

func backupRecord(t domain.Trip) []string {
	recorded := ""
	if !t.RecordedAt.IsZero() {
		recorded = t.RecordedAt.Format("2006-01-02 15:04:05")
	}
	return []string{
		t.ID.String(),
		t.Date,
		t.DepartureTime,
		t.DeparturePlace,
		string(t.OdometerStart),
		t.ArrivalTime,
		t.ArrivalPlace,
		string(t.OdometerEnd),
		t.Cost.StringFixed(2),
		t.Purpose,
		recorded,
	}
}
