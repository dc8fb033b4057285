// Command logbookctl runs logbook office tasks without the API server:
// exporting a report workbook, backing up the trip store, and applying
// database migrations. It reads the same environment variables as the server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // TIME_ZONE must resolve on hosts without a zoneinfo database
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
