package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ratiolens/ratiolens-api/internal/chart"
	"github.com/ratiolens/ratiolens-api/internal/models"
	"github.com/ratiolens/ratiolens-api/internal/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ratiolens",
		Short: "Financial ratios from a Sage trial balance export",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newChartCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newAnalyzeCommand() *cobra.Command {
	var chartPath string
	var asJSON bool
	var reportPath string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Compute ratios for a trial balance (CSV/XLSX), or the built-in demo",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) > 0 {
				file = args[0]
			}
			return runAnalyze(cmd, file, chartPath, asJSON, reportPath)
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "chart of accounts category map (YAML); default is the Sage 50 UK layout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	cmd.Flags().StringVar(&reportPath, "report", "", "also write an XLSX report to this path")

	return cmd
}

func runAnalyze(cmd *cobra.Command, file, chartPath string, asJSON bool, reportPath string) error {
	chartMap := chart.Default()
	if chartPath != "" {
		loaded, err := chart.Load(chartPath)
		if err != nil {
			return err
		}
		chartMap = loaded
	}

	var records []models.AccountRecord
	source := services.DemoCompanyName
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("opening trial balance: %w", err)
		}
		defer f.Close()

		table, err := services.NewParser().ParseFile(f, file)
		if err != nil {
			return err
		}
		records, err = services.NewNormalizer().Normalize(table)
		if err != nil {
			return err
		}
		source = file
	} else {
		records = services.DemoTrialBalance()
	}

	ratios, breakdown := services.NewEngine(chartMap).Compute(records)

	if reportPath != "" {
		buf, err := services.NewReportWriter().WriteReport(source, ratios, breakdown, records)
		if err != nil {
			return err
		}
		if err := os.WriteFile(reportPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportPath)
	}

	if asJSON {
		out := map[string]any{
			"source":    source,
			"ratios":    ratios,
			"breakdown": breakdown,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Source:\t%s\t(%d accounts)\n\n", source, len(records))
	for _, nr := range ratios {
		fmt.Fprintf(w, "%s\t%s\n", nr.Name, nr.Ratio)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "P&L breakdown\t")
	for _, row := range breakdown {
		fmt.Fprintf(w, "%s\t%s\n", row.Category, row.Amount.StringFixed(2))
	}
	return w.Flush()
}

func newChartCommand() *cobra.Command {
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Work with chart of accounts category maps",
	}

	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the built-in Sage 50 UK category map to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := chart.Save(args[0], chart.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category map written to %s\n", args[0])
			return nil
		},
	}

	chartCmd.AddCommand(exportCmd)
	return chartCmd
}
