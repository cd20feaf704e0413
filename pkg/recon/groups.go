package recon

import (
	"fmt"
	"sort"
	"strconv"

	"texrecon/pkg/models"
)

const (
	unknownInvoice  = "Unknown Invoice"
	unknownSupplier = "Unknown Supplier"
	totalRowKey     = "Total"
)

// InvoiceGroup aggregates purchase records sharing an invoice number. The
// supplier name and invoice date are taken from the first record seen for
// the invoice.
type InvoiceGroup struct {
	InvoiceNumber string
	GrossValue    float64
	TotalQuantity float64
	ItemCount     int
	SupplierName  string
	InvoiceDate   string
}

// GroupByInvoice keys purchase records by invoice number, sorts the groups
// lexicographically, and appends a synthetic Total row summing the numeric
// columns.
func GroupByInvoice(purchases []*models.Record) []InvoiceGroup {
	groups := make(map[string]*InvoiceGroup)

	for _, r := range purchases {
		invoiceNumber := r.Get(fieldInvoiceNumber)
		if invoiceNumber == "" {
			invoiceNumber = unknownInvoice
		}

		group, ok := groups[invoiceNumber]
		if !ok {
			supplier := r.Get(fieldSupplierName)
			if supplier == "" {
				supplier = unknownSupplier
			}
			group = &InvoiceGroup{
				InvoiceNumber: invoiceNumber,
				SupplierName:  supplier,
				InvoiceDate:   r.Get(fieldInvoiceDate),
			}
			groups[invoiceNumber] = group
		}

		group.GrossValue += r.Number(fieldGrossValue)
		group.TotalQuantity += r.Number(fieldReceivedQty)
		group.ItemCount++
	}

	ordered := make([]InvoiceGroup, 0, len(groups)+1)
	for _, group := range groups {
		ordered = append(ordered, *group)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].InvoiceNumber < ordered[j].InvoiceNumber
	})

	total := InvoiceGroup{InvoiceNumber: totalRowKey}
	for _, group := range ordered {
		total.GrossValue += group.GrossValue
		total.TotalQuantity += group.TotalQuantity
		total.ItemCount += group.ItemCount
	}
	return append(ordered, total)
}

// SupplierGroup aggregates matched records sharing a supplier name. The
// percentage fields are pre-formatted two-decimal strings ("0" when the
// denominator is zero) because they flow straight into the CSV output.
type SupplierGroup struct {
	SupplierName         string
	PurchaseAmount       float64
	SaleAmount           float64
	Profit               float64
	ProfitPercentage     string
	CommissionPercentage string
	Count                int
}

// GroupBySupplier keys matched records by supplier name, derives profit and
// the percentage columns per group, sorts descending by profit, and appends
// a synthetic Total row with recomputed aggregate percentages.
func GroupBySupplier(matched []*models.Record) []SupplierGroup {
	groups := make(map[string]*SupplierGroup)

	for _, r := range matched {
		supplier := r.Get(fieldSupplierName)
		if supplier == "" {
			supplier = unknownSupplier
		}

		group, ok := groups[supplier]
		if !ok {
			group = &SupplierGroup{SupplierName: supplier}
			groups[supplier] = group
		}

		group.PurchaseAmount += r.Number(fieldTotalPurchaseAmount)
		group.SaleAmount += r.Number(fieldTotalSaleAmount)
		group.Count++
	}

	ordered := make([]SupplierGroup, 0, len(groups)+1)
	for _, group := range groups {
		group.finalize()
		ordered = append(ordered, *group)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Profit > ordered[j].Profit
	})

	total := SupplierGroup{SupplierName: totalRowKey}
	for _, group := range ordered {
		total.PurchaseAmount += group.PurchaseAmount
		total.SaleAmount += group.SaleAmount
		total.Count += group.Count
	}
	total.finalize()
	return append(ordered, total)
}

func (g *SupplierGroup) finalize() {
	g.Profit = g.SaleAmount - g.PurchaseAmount
	g.ProfitPercentage = "0"
	g.CommissionPercentage = "0"
	if g.PurchaseAmount > 0 {
		g.ProfitPercentage = fmt.Sprintf("%.2f", g.Profit/g.PurchaseAmount*100)
	}
	if g.SaleAmount > 0 {
		g.CommissionPercentage = fmt.Sprintf("%.2f", g.Profit/g.SaleAmount*100)
	}
}

// InvoiceGroupRecords converts invoice groups to records for serialization,
// keeping the established output column names.
func InvoiceGroupRecords(groups []InvoiceGroup) []*models.Record {
	records := make([]*models.Record, 0, len(groups))
	for _, g := range groups {
		r := models.NewRecord()
		r.Set("invoiceNumber", g.InvoiceNumber)
		r.SetNumber("grossValue", g.GrossValue)
		r.SetNumber("totalQuantity", g.TotalQuantity)
		r.Set("itemCount", strconv.Itoa(g.ItemCount))
		r.Set("supplierName", g.SupplierName)
		r.Set("invoiceDate", g.InvoiceDate)
		records = append(records, r)
	}
	return records
}

// SupplierGroupRecords converts supplier groups to records for serialization.
func SupplierGroupRecords(groups []SupplierGroup) []*models.Record {
	records := make([]*models.Record, 0, len(groups))
	for _, g := range groups {
		r := models.NewRecord()
		r.Set("supplierName", g.SupplierName)
		r.SetNumber("purchaseAmount", g.PurchaseAmount)
		r.SetNumber("saleAmount", g.SaleAmount)
		r.SetNumber("profit", g.Profit)
		r.Set("profitPercentage", g.ProfitPercentage)
		r.Set("commissionPercentage", g.CommissionPercentage)
		r.Set("count", strconv.Itoa(g.Count))
		records = append(records, r)
	}
	return records
}
