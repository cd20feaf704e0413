package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"texrecon/pkg/config"
)

const purchaseCSV = `Store Code,Invoice Number,Invoice Date,Suppiler Name,Item Id,Unit Cost,IGST Rate,Received Qty,Gross Value
S1,INV1,01-01-2024,X Garment Co,A1,100,18,10,1000
S1,INV2,02-01-2024,Y Fabric Co,B2,50,5,20,1000
`

const extraPurchaseCSV = `Store Code,Invoice Number,Invoice Date,Suppiler Name,Item Id,Unit Cost,IGST Rate,Received Qty,Gross Value
S1,INV3,03-01-2024,Z Traders,C3,10,12,5,50
`

const salesCSV = `Store Code,Receipt Id,Item Id,Qty,Net Amount,CGST Tax Amount,SGST Tax Amount,CGST Rate,SGST Rate,Date
S1,R1,A1,5,50,4.5,4.5,4.5,4.5,01-01-2024
S1,R2,Z9,2,20,1,1,5,5,02-01-2024
`

func newTestProcessor(t *testing.T, outputDir string) *Processor {
	t.Helper()
	cfg, err := config.Build("", nil)
	if err != nil {
		t.Fatalf("config.Build failed: %v", err)
	}
	cfg.SetOutputDir(outputDir)
	return NewProcessor(cfg, log.Default())
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestProcessorRunWritesAllReports(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	purchasePath := writeInput(t, dir, "purchase_order.csv", purchaseCSV)
	extraPath := writeInput(t, dir, "purchase_order_2.csv", extraPurchaseCSV)
	salesPath := writeInput(t, dir, "sales_tax.csv", salesCSV)

	processor := newTestProcessor(t, outDir)
	result, err := processor.Run([]string{purchasePath, extraPath}, salesPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Purchase sources are concatenated before the single reconcile call.
	if len(result.PurchaseOrders) != 3 {
		t.Errorf("enriched purchases = %d, want 3", len(result.PurchaseOrders))
	}
	if len(result.Matched) != 1 {
		t.Errorf("matched = %d, want 1", len(result.Matched))
	}
	if len(result.SalesWithoutPurchase) != 1 {
		t.Errorf("unmatched sales = %d, want 1", len(result.SalesWithoutPurchase))
	}
	if len(result.UnusedPurchases) != 2 {
		t.Errorf("unused purchases = %d, want 2", len(result.UnusedPurchases))
	}

	wantFiles := []string{
		"updated_purchase_order_data.csv",
		"updated_sales_tax_data.csv",
		"matched_data.csv",
		"sales_without_purchase.csv",
		"unused_purchases.csv",
		"supplier_grouped_data.csv",
		"invoice_grouped_data.csv",
		"summary.txt",
	}
	for _, name := range wantFiles {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	summary, err := os.ReadFile(filepath.Join(outDir, "summary.txt"))
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	if !strings.Contains(string(summary), "Total Purchase Amount: 590.00") {
		t.Errorf("summary content unexpected:\n%s", summary)
	}
	if !strings.Contains(string(summary), "Purchase Orders: 3") {
		t.Errorf("summary should count concatenated purchases:\n%s", summary)
	}

	matched, err := os.ReadFile(filepath.Join(outDir, "matched_data.csv"))
	if err != nil {
		t.Fatalf("failed to read matched data: %v", err)
	}
	header := strings.SplitN(string(matched), "\n", 2)[0]
	if !strings.Contains(header, "PO_Unit Cost") {
		t.Errorf("matched header missing prefixed purchase columns: %q", header)
	}
	if strings.Contains(header, "PO_Item Id") {
		t.Errorf("Item Id must stay unprefixed: %q", header)
	}
}

func TestProcessorRunDefaultsOutputNextToInput(t *testing.T) {
	dir := t.TempDir()
	purchasePath := writeInput(t, dir, "purchase_order.csv", purchaseCSV)
	salesPath := writeInput(t, dir, "sales_tax.csv", salesCSV)

	processor := newTestProcessor(t, "")
	if _, err := processor.Run([]string{purchasePath}, salesPath); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "summary.txt")); err != nil {
		t.Errorf("summary not written next to input: %v", err)
	}
}

func TestProcessorRunValidation(t *testing.T) {
	processor := newTestProcessor(t, "")

	if _, err := processor.Run(nil, "sales.csv"); err == nil {
		t.Error("expected error with no purchase files")
	}
	if _, err := processor.Run([]string{"po.csv"}, ""); err == nil {
		t.Error("expected error with no sales file")
	}
	if _, err := processor.Run([]string{"does-not-exist.csv"}, "sales.csv"); err == nil {
		t.Error("expected error for missing input file")
	}
}
