package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mobileshop/billing/internal/ledger"
)

type ledgerFlags struct {
	from     string
	to       string
	customer string
}

func (f *ledgerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.customer, "customer", "", "customer name fragment")
}

func newLedgerCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Query and export the GST ledger",
	}

	withService := func(cmd *cobra.Command, fn func(*ledger.Service) error) error {
		pool, err := e.postgres(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ledger.NewService(ledger.NewRepository(pool), e.logger, nil))
	}

	var exportFlags ledgerFlags
	var format, out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write ledger records as CSV or XLSX",
		Example: `  billingctl ledger export --from 2025-04-01 --to 2026-03-31 --format xlsx --out fy2025.xlsx
  billingctl ledger export --customer sharma > sharma.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := ledger.ParseFilter(exportFlags.from, exportFlags.to, exportFlags.customer)
			if err != nil {
				return err
			}
			return withService(cmd, func(svc *ledger.Service) error {
				records, err := svc.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				if err := writeExport(w, format, records); err != nil {
					return err
				}
				e.logger.Info("ledger exported",
					slog.Int("records", len(records)),
					slog.String("format", format),
					slog.String("out", out))
				return nil
			})
		},
	}
	exportFlags.bind(export)
	export.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	export.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")

	var summaryFlags ledgerFlags
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print taxable, CGST, SGST and total sums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := ledger.ParseFilter(summaryFlags.from, summaryFlags.to, summaryFlags.customer)
			if err != nil {
				return err
			}
			return withService(cmd, func(svc *ledger.Service) error {
				sum, err := svc.Summary(cmd.Context(), filter)
				if err != nil {
					return err
				}
				return printSummary(cmd.OutOrStdout(), sum)
			})
		},
	}
	summaryFlags.bind(summary)

	gaps := &cobra.Command{
		Use:   "gaps",
		Short: "List GST invoices whose ledger record count differs from their item count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *ledger.Service) error {
				found, err := svc.Gaps(cmd.Context())
				if err != nil {
					return err
				}
				return printGaps(cmd.OutOrStdout(), found)
			})
		},
	}

	cmd.AddCommand(export, summary, gaps)
	return cmd
}

func writeExport(w io.Writer, format string, records []ledger.Record) error {
	switch strings.ToLower(format) {
	case "csv":
		return ledger.WriteCSV(w, records)
	case "xlsx":
		return ledger.WriteXLSX(w, records)
	default:
		return fmt.Errorf("unsupported format %q, want csv or xlsx", format)
	}
}

func printSummary(w io.Writer, sum ledger.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "records\t%d\t\n", sum.Records)
	fmt.Fprintf(tw, "invoices\t%d\t\n", sum.Invoices)
	fmt.Fprintf(tw, "taxable\t%s\t\n", sum.Taxable.StringFixed(2))
	fmt.Fprintf(tw, "cgst\t%s\t\n", sum.CGST.StringFixed(2))
	fmt.Fprintf(tw, "sgst\t%s\t\n", sum.SGST.StringFixed(2))
	fmt.Fprintf(tw, "total\t%s\t\n", sum.Total.StringFixed(2))
	return tw.Flush()
}

func printGaps(w io.Writer, gaps []ledger.Gap) error {
	if len(gaps) == 0 {
		_, err := fmt.Fprintln(w, "no gaps")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INVOICE\tEXPECTED\tACTUAL")
	for _, g := range gaps {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", g.InvoiceNumber, g.Expected, g.Actual)
	}
	return tw.Flush()
}
