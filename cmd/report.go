package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"api_inventory/internal/reports"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print an income statement as JSON",
}

var reportTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Income statement for the current UTC day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runReport(cmd, func(svc *reports.Service) (*reports.IncomeStatement, error) {
			return svc.TodayStatement(cmd.Context())
		})
	},
}

var reportRangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Income statement for [start, end)",
	Example: `  # January 2024
  api-inventory report range --start 2024-01-01T00:00:00Z --end 2024-02-01T00:00:00Z`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, end, err := rangeFlags(cmd)
		if err != nil {
			return err
		}
		return runReport(cmd, func(svc *reports.Service) (*reports.IncomeStatement, error) {
			return svc.RangeStatement(cmd.Context(), start, end)
		})
	},
}

func init() {
	reportRangeCmd.Flags().String("start", "", "inclusive start, RFC 3339")
	reportRangeCmd.Flags().String("end", "", "exclusive end, RFC 3339")

	reportCmd.AddCommand(reportTodayCmd, reportRangeCmd)
	rootCmd.AddCommand(reportCmd)
}

// rangeFlags reads --start and --end and validates them before any store is
// opened. A missing bound is reported before an unparseable one.
func rangeFlags(cmd *cobra.Command) (*time.Time, *time.Time, error) {
	start, startErr := timeFlag(cmd, "start")
	end, endErr := timeFlag(cmd, "end")
	if start != nil && end != nil {
		if err := errors.Join(startErr, endErr); err != nil {
			return nil, nil, err
		}
	}
	if _, err := reports.NewRangeWindow(start, end); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// timeFlag returns nil for an unset flag so the report names it as missing.
// An unparseable value still counts as present.
func timeFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return &time.Time{}, fmt.Errorf("%w: --%s %q is not RFC 3339", reports.ErrInvalidTimestamp, name, raw)
	}
	return &t, nil
}

func runReport(cmd *cobra.Command, build func(*reports.Service) (*reports.IncomeStatement, error)) error {
	a, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := build(reports.NewService(reports.NewGormLedger(a.db.DB), a.log.Named("reports")))
	if err != nil {
		return err
	}
	return writeStatement(cmd.OutOrStdout(), st)
}

func writeStatement(w io.Writer, st *reports.IncomeStatement) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
