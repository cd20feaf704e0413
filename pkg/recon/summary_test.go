package recon

import (
	"strings"
	"testing"
)

func TestSummaryRenderLayout(t *testing.T) {
	s := Summary{
		PurchaseOrderCount:        1,
		SalesTaxCount:             1,
		MatchedCount:              1,
		SalesWithoutPurchaseCount: 0,
		UnusedPurchasesCount:      0,

		TotalPurchaseAmount:    590,
		TotalSaleAmount:        59,
		TotalNetSaleAmount:     50,
		TotalNetPurchaseAmount: 541.2844036697248,
		TotalCGSTAmount:        4.5,
		TotalSGSTAmount:        4.5,
		TotalNetProfit:         -491.2844036697248,
		Difference:             -531,

		GSTBreakdownByRate: []RateBucket{
			{
				Rate:               "9.00%",
				CGSTAmount:         4.5,
				SGSTAmount:         4.5,
				TotalAmount:        9,
				PurchaseCGSTAmount: 24.357798165137616,
				PurchaseSGSTAmount: 24.357798165137616,
				PurchaseGSTAmount:  48.71559633027523,
				NetGSTAmount:       -39.71559633027523,
				Items:              1,
			},
		},

		GarmentPurchaseQuantity: 10,
		GarmentSaleQuantity:     5,

		ProfitPercentage:     "-90.00%",
		CommissionPercentage: "-900.00%",
		NetProfitPercentage:  "-90.76%",
	}

	text := s.Render()

	wantLines := []string{
		"Summary:",
		"Total Purchase Amount: 590.00",
		"Total Sale Amount: 59.00",
		"Gross Profit (Sale - Purchase): -531.00",
		"Profit Percentage: -90.00%",
		"Commission Percentage: -900.00%",
		"Net Profit Summary:",
		"Total Net Sale Amount (Without Tax): 50.00",
		"Total Net Purchase Amount (Without Tax): 541.28",
		"Net Profit (Net Sale - Net Purchase): -491.28",
		"Net Profit Percentage: -90.76%",
		"GST Summary:",
		"Total CGST: 4.50",
		"Total SGST: 4.50",
		"Total GST: 9.00",
		"GST Breakdown by Rate:",
		"Rate 9.00%: ",
		"   Sale GST: ₹9.00 (CGST: ₹4.50, SGST: ₹4.50)",
		"   Purchase GST: ₹48.72 (CGST: ₹24.36, SGST: ₹24.36)",
		"   Net GST: ₹-39.72 (1 items)",
		"Garment Supplier Summary:",
		"Garment Purchase Quantity: 10.00",
		"Garment Sale Quantity: 5.00",
		"Fabric Supplier Summary:",
		"Fabric Purchase Quantity: 0.00",
		"Fabric Sale Quantity: 0.00",
		"Data Statistics:",
		"Purchase Orders: 1",
		"Sales Transactions: 1",
		"Matched Records: 1",
		"Sales Without Matching Purchase: 0",
		"Unused Purchases: 0",
	}

	lines := strings.Split(text, "\n")
	li := 0
	for _, want := range wantLines {
		found := false
		for ; li < len(lines); li++ {
			if lines[li] == want {
				found = true
				li++
				break
			}
		}
		if !found {
			t.Fatalf("summary missing line (in order): %q\nfull text:\n%s", want, text)
		}
	}

	if !strings.HasPrefix(text, "\nSummary:\n") {
		t.Error("summary must start with a blank line before the Summary heading")
	}
	if !strings.HasSuffix(text, "Unused Purchases: 0\n") {
		t.Error("summary must end with the unused purchases line and a newline")
	}
}

func TestSummaryRenderNoRateBuckets(t *testing.T) {
	text := Summary{ProfitPercentage: "N/A", CommissionPercentage: "N/A", NetProfitPercentage: "N/A"}.Render()

	if !strings.Contains(text, "GST Breakdown by Rate:\n-----------------------------------------\n\n") {
		t.Error("empty breakdown section must keep its blank body")
	}
	if !strings.Contains(text, "Profit Percentage: N/A") {
		t.Error("N/A percentages must render verbatim")
	}
}
