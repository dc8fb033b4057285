package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/report"
	"github.com/pkordes/diplomatic-drive/internal/service"
)

func newReportCmd() *cobra.Command {
	var start, end, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export trips in a date range into the report template",
		Example: "  logbookctl report --start 2024-01-01 --end 2024-01-31\n" +
			"  logbookctl report --start 2024-01-01 --end 2024-01-31 --out enero.xlsx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rng, err := parseRange(start, end)
			if err != nil {
				return err
			}

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			layout, err := report.LayoutFor(e.cfg.LayoutPath)
			if err != nil {
				return err
			}
			trips, closeStore, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			svc := service.NewReportService(trips, report.FileTemplate{Path: e.cfg.TemplatePath}, layout)
			rep, err := svc.Export(cmd.Context(), rng)
			if err != nil {
				return err
			}

			if out == "" {
				out = rep.Filename
			}
			if err := os.WriteFile(out, rep.Body, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			for _, w := range rep.Warnings {
				e.log.Warn("report row clamped", "row", w.Row, "trip_id", w.TripID, "message", w.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d trips to %s\n", rep.Count, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the report (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day of the report (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default Report_<start>_<end>.xlsx)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func parseRange(start, end string) (domain.ReportRange, error) {
	s, err := time.Parse(domain.ISODate, start)
	if err != nil {
		return domain.ReportRange{}, fmt.Errorf("--start %q: expected YYYY-MM-DD", start)
	}
	e, err := time.Parse(domain.ISODate, end)
	if err != nil {
		return domain.ReportRange{}, fmt.Errorf("--end %q: expected YYYY-MM-DD", end)
	}
	rng := domain.ReportRange{Start: s, End: e}
	if err := rng.Validate(); err != nil {
		return domain.ReportRange{}, err
	}
	return rng, nil
}
