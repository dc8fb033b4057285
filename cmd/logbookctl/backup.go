package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/diplomatic-drive/internal/domain"
	"github.com/pkordes/diplomatic-drive/internal/report"
)

func newBackupCmd() *cobra.Command {
	var out, format string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Dump every trip in the store as CSV or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("--format must be csv or json, got %q", format)
			}

			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			store, closeStore, err := e.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			trips, err := store.LoadAll(cmd.Context())
			if err != nil {
				return err
			}

			if out == "-" {
				if err := writeBackup(cmd.OutOrStdout(), format, trips); err != nil {
					return err
				}
			} else if err := writeBackupFile(out, format, trips); err != nil {
				return err
			}

			e.log.Info("backup written", "trips", len(trips), "format", format, "out", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", `output file, "-" for stdout`)
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	return cmd
}

func writeBackup(w io.Writer, format string, trips []domain.Trip) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(trips); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		return nil
	}
	return report.WriteCSV(w, trips)
}

// writeBackupFile writes the backup to path. The close error is returned
// because it is where a failed flush to disk surfaces.
func writeBackupFile(path, format string, trips []domain.Trip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if err := writeBackup(f, format, trips); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}
	return nil
}
