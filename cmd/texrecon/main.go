package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"texrecon/pkg/config"
	"texrecon/pkg/csv"
	"texrecon/pkg/models"
	"texrecon/pkg/parser"
	"texrecon/pkg/recon"
	"texrecon/pkg/service"
)

var (
	cfgFile   string
	salesFile string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "texrecon",
	Short: "Reconcile purchase-order reports against sales-tax reports",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Build(cfgFile, cmd.Root().PersistentFlags())
		if err != nil {
			return err
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "texrecon",
			Level:           cfg.LogLevel(),
		})
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile --sales <sales-tax-file> <purchase-order-file>...",
	Short: "Match purchase orders against sales and write the derived reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		processor := service.NewProcessor(cfg, logger)
		result, err := processor.Run(args, salesFile)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "Run a reconciliation job described by a YAML manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		job, err := models.LoadJob(args[0])
		if err != nil {
			return err
		}
		processor := service.NewProcessor(cfg, logger)
		result, err := processor.RunJob(job)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <report-file>",
	Short: "Parse a single report and print it as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		p := parser.New(logger)
		p.Delimiter = cfg.Delimiter()
		records, err := p.ProcessBytes(data, filepath.Base(args[0]))
		if err != nil {
			return err
		}

		fmt.Print(string(csv.Create(records, cfg.Delimiter())))
		return nil
	},
}

// printResult shows the summary text plus a one-line colored verdict.
func printResult(result *recon.Result) {
	fmt.Print(result.SummaryText)

	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	lossStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))    // red

	s := result.Summary
	verdict := fmt.Sprintf("Gross profit: %.2f (%s) | Net profit: %.2f (%s)",
		s.Difference, s.ProfitPercentage, s.TotalNetProfit, s.NetProfitPercentage)
	if s.Difference >= 0 {
		fmt.Println(profitStyle.Render(verdict))
	} else {
		fmt.Println(lossStyle.Render(verdict))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory (default: first purchase file's directory)")
	rootCmd.PersistentFlags().String("delimiter", ",", "Field delimiter for delimited input and output")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	reconcileCmd.Flags().StringVar(&salesFile, "sales", "", "Sales-tax report file")
	_ = reconcileCmd.MarkFlagRequired("sales")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(convertCmd)
}

func main() {
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
