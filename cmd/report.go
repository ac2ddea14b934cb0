package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/frahmantamala/budget-ledger/internal/cli"
	"github.com/frahmantamala/budget-ledger/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	reportFile    string
	reportCeiling string
	reportStrict  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a budget report for a CSV of expenses",
	Long: `Read name,amount,category lines from --file or stdin into a fresh ledger
and print the recorded expenses, per-category totals and budget usage.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFile, "file", "f", "", "CSV file to read (default stdin)")
	reportCmd.Flags().StringVar(&reportCeiling, "ceiling", "", "budget ceiling (overrides budget.ceiling)")
	reportCmd.Flags().BoolVar(&reportStrict, "strict", false, "exit non-zero when any line is rejected")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	ceiling, err := cfg.Budget.CeilingAmount()
	if err != nil {
		return err
	}
	if reportCeiling != "" {
		ceiling, err = decimal.NewFromString(reportCeiling)
		if err != nil {
			return fmt.Errorf("invalid --ceiling %q: %w", reportCeiling, err)
		}
	}

	l, err := ledger.New(ceiling)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if reportFile != "" {
		f, err := os.Open(reportFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", reportFile, err)
		}
		defer f.Close()
		in = f
	}

	rejections, err := cli.LoadCSV(in, l)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderReport(cli.Report{
		Currency:   cfg.Budget.Currency,
		Entries:    l.Entries(),
		Totals:     l.TotalsByCategory(),
		Status:     l.BudgetStatus(),
		Rejections: rejections,
	}))

	if reportStrict && len(rejections) > 0 {
		return fmt.Errorf("%d line(s) rejected", len(rejections))
	}
	return nil
}
