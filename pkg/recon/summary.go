package recon

import (
	"fmt"
	"strings"
)

// Summary is the totals object a reconciliation run produces.
type Summary struct {
	PurchaseOrderCount        int
	SalesTaxCount             int
	MatchedCount              int
	SalesWithoutPurchaseCount int
	UnusedPurchasesCount      int

	TotalPurchaseAmount    float64 // gross
	TotalSaleAmount        float64 // gross
	TotalNetSaleAmount     float64 // tax-exclusive
	TotalNetPurchaseAmount float64 // tax-exclusive
	TotalCGSTAmount        float64
	TotalSGSTAmount        float64
	TotalNetProfit         float64
	Difference             float64 // gross sale minus gross purchase

	GSTBreakdownByRate []RateBucket

	GarmentPurchaseQuantity float64
	GarmentSaleQuantity     float64
	FabricPurchaseQuantity  float64
	FabricSaleQuantity      float64

	ProfitPercentage     string
	CommissionPercentage string
	NetProfitPercentage  string
}

const sectionRule = "-----------------------------------------"

// Render formats the summary as the fixed-layout text report. Consumers diff
// this output, so section order, labels and two-decimal formatting are part
// of the contract.
func (s Summary) Render() string {
	var b strings.Builder

	b.WriteString("\nSummary:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Total Purchase Amount: %.2f\n", s.TotalPurchaseAmount)
	fmt.Fprintf(&b, "Total Sale Amount: %.2f\n", s.TotalSaleAmount)
	fmt.Fprintf(&b, "Gross Profit (Sale - Purchase): %.2f\n", s.TotalSaleAmount-s.TotalPurchaseAmount)
	fmt.Fprintf(&b, "Profit Percentage: %s\n", s.ProfitPercentage)
	fmt.Fprintf(&b, "Commission Percentage: %s\n", s.CommissionPercentage)

	b.WriteString("\nNet Profit Summary:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Total Net Sale Amount (Without Tax): %.2f\n", s.TotalNetSaleAmount)
	fmt.Fprintf(&b, "Total Net Purchase Amount (Without Tax): %.2f\n", s.TotalNetPurchaseAmount)
	fmt.Fprintf(&b, "Net Profit (Net Sale - Net Purchase): %.2f\n", s.TotalNetProfit)
	fmt.Fprintf(&b, "Net Profit Percentage: %s\n", s.NetProfitPercentage)

	b.WriteString("\nGST Summary:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Total CGST: %.2f\n", s.TotalCGSTAmount)
	fmt.Fprintf(&b, "Total SGST: %.2f\n", s.TotalSGSTAmount)
	fmt.Fprintf(&b, "Total GST: %.2f\n", s.TotalCGSTAmount+s.TotalSGSTAmount)

	b.WriteString("\nGST Breakdown by Rate:\n")
	b.WriteString(sectionRule + "\n")
	for i, bucket := range s.GSTBreakdownByRate {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Rate %s: \n", bucket.Rate)
		fmt.Fprintf(&b, "   Sale GST: ₹%.2f (CGST: ₹%.2f, SGST: ₹%.2f)\n",
			bucket.TotalAmount, bucket.CGSTAmount, bucket.SGSTAmount)
		fmt.Fprintf(&b, "   Purchase GST: ₹%.2f (CGST: ₹%.2f, SGST: ₹%.2f)\n",
			bucket.PurchaseGSTAmount, bucket.PurchaseCGSTAmount, bucket.PurchaseSGSTAmount)
		fmt.Fprintf(&b, "   Net GST: ₹%.2f (%d items)", bucket.NetGSTAmount, bucket.Items)
	}
	b.WriteByte('\n')

	b.WriteString("\nGarment Supplier Summary:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Garment Purchase Quantity: %.2f\n", s.GarmentPurchaseQuantity)
	fmt.Fprintf(&b, "Garment Sale Quantity: %.2f\n", s.GarmentSaleQuantity)

	b.WriteString("\nFabric Supplier Summary:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Fabric Purchase Quantity: %.2f\n", s.FabricPurchaseQuantity)
	fmt.Fprintf(&b, "Fabric Sale Quantity: %.2f\n", s.FabricSaleQuantity)

	b.WriteString("\nData Statistics:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Purchase Orders: %d\n", s.PurchaseOrderCount)
	fmt.Fprintf(&b, "Sales Transactions: %d\n", s.SalesTaxCount)
	fmt.Fprintf(&b, "Matched Records: %d\n", s.MatchedCount)
	fmt.Fprintf(&b, "Sales Without Matching Purchase: %d\n", s.SalesWithoutPurchaseCount)
	fmt.Fprintf(&b, "Unused Purchases: %d\n", s.UnusedPurchasesCount)

	return b.String()
}
