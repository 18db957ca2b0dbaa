package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"consulthub/internal/booking"
	"consulthub/pkg/database"
	"consulthub/pkg/models"
)

var (
	exportOut    string
	exportStatus string
)

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Work with stored consultation bookings",
}

var bookingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export bookings to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := strings.ToLower(strings.TrimSpace(exportStatus))
		if status != "" && !models.ValidBookingStatus(status) {
			return fmt.Errorf("invalid status %q", exportStatus)
		}

		db, err := database.Open(database.Config{Path: cfg.Store.Path})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		w := cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			if err := os.MkdirAll(filepath.Dir(exportOut), 0o755); err != nil {
				return eris.Wrap(err, "bookings: create output dir")
			}
			f, err := os.Create(exportOut)
			if err != nil {
				return eris.Wrap(err, "bookings: create output file")
			}
			defer f.Close()
			w = f
		}

		n, err := exportBookings(ctx, booking.NewRepo(db), status, w)
		if err != nil {
			return err
		}
		if exportOut != "" && exportOut != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d bookings to %s\n", n, exportOut)
		}
		return nil
	},
}

func init() {
	bookingsExportCmd.Flags().StringVar(&exportOut, "out", "bookings.csv", "output CSV path, - for stdout")
	bookingsExportCmd.Flags().StringVar(&exportStatus, "status", "", "only bookings with this status")

	bookingsCmd.AddCommand(bookingsExportCmd)
	rootCmd.AddCommand(bookingsCmd)
}

var bookingHeader = []string{
	"id", "created_at", "status", "name", "email", "phone", "company",
	"service_id", "preferred_date", "locale", "message",
}

func exportBookings(ctx context.Context, repo *booking.Repo, status string, out io.Writer) (int, error) {
	items, err := repo.List(ctx, booking.ListQuery{Status: status, Limit: -1})
	if err != nil {
		return 0, err
	}

	w := csv.NewWriter(out)
	if err := w.Write(bookingHeader); err != nil {
		return 0, eris.Wrap(err, "bookings: write header")
	}
	for _, b := range items {
		row := []string{
			b.ID,
			b.CreatedAt.UTC().Format(time.RFC3339),
			b.Status,
			b.Name,
			b.Email,
			b.Phone,
			b.Company,
			b.ServiceID,
			b.PreferredDate,
			b.Locale,
			b.Message,
		}
		if err := w.Write(row); err != nil {
			return 0, eris.Wrap(err, "bookings: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, eris.Wrap(err, "bookings: flush csv")
	}
	return len(items), nil
}
