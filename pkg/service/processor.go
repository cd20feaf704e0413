package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"

	"texrecon/pkg/config"
	"texrecon/pkg/csv"
	"texrecon/pkg/models"
	"texrecon/pkg/parser"
	"texrecon/pkg/recon"
)

// Output filenames are fixed: downstream tooling picks the reports up by
// name.
var reportNames = struct {
	purchaseOrders       string
	salesTax             string
	matched              string
	salesWithoutPurchase string
	unusedPurchases      string
	supplierGroups       string
	invoiceGroups        string
	summary              string
}{
	purchaseOrders:       "updated_purchase_order_data.csv",
	salesTax:             "updated_sales_tax_data.csv",
	matched:              "matched_data.csv",
	salesWithoutPurchase: "sales_without_purchase.csv",
	unusedPurchases:      "unused_purchases.csv",
	supplierGroups:       "supplier_grouped_data.csv",
	invoiceGroups:        "invoice_grouped_data.csv",
	summary:              "summary.txt",
}

// Processor orchestrates one reconciliation run: read the report files,
// parse them, reconcile, and write the derived reports. The engine itself
// stays pure; all I/O lives here.
type Processor struct {
	config *config.Config
	logger *log.Logger
	parser *parser.Parser
}

func NewProcessor(cfg *config.Config, logger *log.Logger) *Processor {
	p := parser.New(logger)
	p.Delimiter = cfg.Delimiter()
	return &Processor{
		config: cfg,
		logger: logger,
		parser: p,
	}
}

// Run reconciles the given purchase-order files against the sales-tax file
// and writes the seven CSV reports plus the summary text. Multiple purchase
// sources are concatenated before the single reconcile call; the engine
// never sees source boundaries. Reports land in the configured output
// directory, defaulting to the first purchase file's directory.
func (p *Processor) Run(purchasePaths []string, salesPath string) (*recon.Result, error) {
	if len(purchasePaths) == 0 || salesPath == "" {
		return nil, fmt.Errorf("at least one purchase-order file and a sales-tax file are required")
	}

	var purchases []*models.Record
	for _, path := range purchasePaths {
		records, err := p.parseFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase order file %s: %w", path, err)
		}
		p.logger.Info("parsed purchase order file", "file", path, "records", len(records))
		purchases = append(purchases, records...)
	}

	sales, err := p.parseFile(salesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sales tax file %s: %w", salesPath, err)
	}
	p.logger.Info("parsed sales tax file", "file", salesPath, "records", len(sales))

	if len(purchases) > 0 && len(sales) > 0 {
		p.logger.Debug("sample records", "purchase", pp.Sprint(purchases[0]), "sale", pp.Sprint(sales[0]))
	}

	result, err := recon.Reconcile(purchases, sales)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	outputDir := p.config.OutputDir()
	if outputDir == "" {
		outputDir = filepath.Dir(purchasePaths[0])
	}
	if err := p.writeReports(outputDir, result); err != nil {
		return nil, err
	}

	return result, nil
}

// RunJob executes a manifest-driven run.
func (p *Processor) RunJob(job *models.Job) (*recon.Result, error) {
	purchasePaths, salesPath, err := job.Inputs()
	if err != nil {
		return nil, err
	}
	if job.OutputDir != "" {
		p.config.SetOutputDir(job.OutputDir)
	}
	return p.Run(purchasePaths, salesPath)
}

func (p *Processor) parseFile(path string) ([]*models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.parser.ProcessBytes(data, filepath.Base(path))
}

func (p *Processor) writeReports(dir string, result *recon.Result) error {
	delim := p.config.Delimiter()

	reports := []struct {
		name    string
		records []*models.Record
	}{
		{reportNames.purchaseOrders, result.PurchaseOrders},
		{reportNames.salesTax, result.SalesTax},
		{reportNames.matched, result.Matched},
		{reportNames.salesWithoutPurchase, result.SalesWithoutPurchase},
		{reportNames.unusedPurchases, result.UnusedPurchases},
		{reportNames.supplierGroups, recon.SupplierGroupRecords(result.SupplierGroups)},
		{reportNames.invoiceGroups, recon.InvoiceGroupRecords(result.InvoiceGroups)},
	}

	for _, report := range reports {
		path := filepath.Join(dir, report.name)
		if err := os.WriteFile(path, csv.Create(report.records, delim), 0o644); err != nil {
			return fmt.Errorf("error writing %s: %w", report.name, err)
		}
		p.logger.Info("wrote report", "file", path, "records", len(report.records))
	}

	summaryPath := filepath.Join(dir, reportNames.summary)
	if err := os.WriteFile(summaryPath, []byte(result.SummaryText), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", reportNames.summary, err)
	}
	p.logger.Info("wrote summary", "file", summaryPath)

	return nil
}
