// Package recon matches purchase-order records against sales-tax records by
// Item Id, enriches both sides with computed amounts, and produces the
// derived views: matched and unmatched record sets, supplier and invoice
// aggregates, per-rate GST buckets, per-category date series, and a plain
// text summary.
package recon

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"texrecon/pkg/models"
)

var (
	// ErrInvalidInput signals that an argument is not a usable record
	// sequence.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrEmptyInput signals that a required record sequence has no elements.
	ErrEmptyInput = errors.New("empty data provided")
	// ErrNoValidRecords signals that filtering removed every record.
	ErrNoValidRecords = errors.New("no valid data records after filtering empty entries")
)

// Source column names. "Suppiler Name" is the report's own header spelling;
// downstream consumers key on it, so it stays as-is.
const (
	fieldItemID        = "Item Id"
	fieldSupplierName  = "Suppiler Name"
	fieldUnitCost      = "Unit Cost"
	fieldIGSTRate      = "IGST Rate"
	fieldReceivedQty   = "Received Qty"
	fieldInvoiceNumber = "Invoice Number"
	fieldInvoiceDate   = "Invoice Date"
	fieldGrossValue    = "Gross Value"
	fieldQty           = "Qty"
	fieldNetAmount     = "Net Amount"
	fieldCGSTAmount    = "CGST Tax Amount"
	fieldSGSTAmount    = "SGST Tax Amount"
	fieldCGSTRate      = "CGST Rate"
	fieldSGSTRate      = "SGST Rate"
	fieldDate          = "Date"
)

// Computed column names attached during enrichment.
const (
	fieldUnitPurchaseAmount  = "Unit Purchase Amount"
	fieldTotalPurchaseAmount = "Total Purchase Amount"
	fieldTotalSaleAmount     = "Total Sale Amount"
	fieldHasMatchingPurchase = "Has Matching Purchase"
)

// matchedKeyPrefix marks purchase-side columns in a matched record so they
// cannot collide with sales-side columns. Item Id stays unprefixed: it is
// the shared key.
const matchedKeyPrefix = "PO_"

// fabricExcludedInvoice is excluded from the fabric purchase-quantity sum.
// Hard-coded carve-out for one known invoice in the source data, not a
// general policy; items on it still count as fabric for sale matching.
const fabricExcludedInvoice = "9000322583"

// RateBucket aggregates GST amounts for one combined CGST+SGST rate.
type RateBucket struct {
	rate               float64
	Rate               string // two-decimal label, e.g. "9.00%"
	CGSTAmount         float64
	SGSTAmount         float64
	TotalAmount        float64
	PurchaseCGSTAmount float64
	PurchaseSGSTAmount float64
	PurchaseGSTAmount  float64
	NetGSTAmount       float64 // sale GST minus purchase GST
	Items              int
}

// DateBucket aggregates one category's sales for a single day.
type DateBucket struct {
	Date     string
	Quantity float64
	Amount   float64
}

// Result carries everything one reconciliation run derives.
type Result struct {
	PurchaseOrders       []*models.Record
	SalesTax             []*models.Record
	Matched              []*models.Record
	SalesWithoutPurchase []*models.Record
	UnusedPurchases      []*models.Record
	SupplierGroups       []SupplierGroup
	InvoiceGroups        []InvoiceGroup
	GarmentSalesByDate   []DateBucket
	FabricSalesByDate    []DateBucket
	Summary              Summary
	SummaryText          string
}

// Reconcile joins the purchase-order and sales-tax record sets on Item Id
// and computes every derived view. It fails with ErrInvalidInput when either
// argument is nil, ErrEmptyInput when either set is empty, and
// ErrNoValidRecords when filtering leaves nothing to match; no partial
// result is returned on those paths.
func Reconcile(purchaseOrders, salesTax []*models.Record) (*Result, error) {
	if purchaseOrders == nil || salesTax == nil {
		return nil, ErrInvalidInput
	}
	if len(purchaseOrders) == 0 || len(salesTax) == 0 {
		return nil, ErrEmptyInput
	}

	purchases := filterUsable(purchaseOrders)
	sales := filterUsable(salesTax)
	if len(purchases) == 0 || len(sales) == 0 {
		return nil, ErrNoValidRecords
	}

	purchases = enrichPurchases(purchases)
	index := buildPurchaseIndex(purchases)

	sales, salesWithoutPurchase := enrichSales(sales, index)
	unusedPurchases := findUnusedPurchases(purchases, sales)

	totals, rateBuckets := accumulateTotals(sales)
	matched := matchRecords(sales, index)

	invoiceGroups := GroupByInvoice(purchases)
	categories := accumulateCategories(purchases, sales)
	supplierGroups := GroupBySupplier(matched)

	summary := Summary{
		PurchaseOrderCount:        len(purchases),
		SalesTaxCount:             len(sales),
		MatchedCount:              len(matched),
		SalesWithoutPurchaseCount: len(salesWithoutPurchase),
		UnusedPurchasesCount:      len(unusedPurchases),

		TotalPurchaseAmount:    totals.purchase,
		TotalSaleAmount:        totals.sale,
		TotalNetSaleAmount:     totals.netSale,
		TotalNetPurchaseAmount: totals.netPurchase,
		TotalCGSTAmount:        totals.cgst,
		TotalSGSTAmount:        totals.sgst,
		TotalNetProfit:         totals.netProfit,
		Difference:             totals.sale - totals.purchase,

		GSTBreakdownByRate: rateBuckets,

		GarmentPurchaseQuantity: categories.garmentPurchaseQty,
		GarmentSaleQuantity:     categories.garmentSaleQty,
		FabricPurchaseQuantity:  categories.fabricPurchaseQty,
		FabricSaleQuantity:      categories.fabricSaleQty,

		ProfitPercentage:     ratioPercent(totals.sale-totals.purchase, totals.purchase),
		CommissionPercentage: ratioPercent(totals.sale-totals.purchase, totals.sale),
		NetProfitPercentage:  ratioPercent(totals.netProfit, totals.netPurchase),
	}

	return &Result{
		PurchaseOrders:       purchases,
		SalesTax:             sales,
		Matched:              matched,
		SalesWithoutPurchase: salesWithoutPurchase,
		UnusedPurchases:      unusedPurchases,
		SupplierGroups:       supplierGroups,
		InvoiceGroups:        invoiceGroups,
		GarmentSalesByDate:   categories.garmentByDate,
		FabricSalesByDate:    categories.fabricByDate,
		Summary:              summary,
		SummaryText:          summary.Render(),
	}, nil
}

// filterUsable drops records that cannot participate in matching: no Item Id
// or too few meaningful fields. Subtotal and decoration rows misparsed as
// data fall out here.
func filterUsable(records []*models.Record) []*models.Record {
	usable := make([]*models.Record, 0, len(records))
	for _, r := range records {
		if r.Get(fieldItemID) == "" {
			continue
		}
		if r.NonEmptyFieldCount() <= 3 {
			continue
		}
		usable = append(usable, r)
	}
	return usable
}

// enrichPurchases attaches the tax-inclusive landed unit cost to each
// purchase record.
func enrichPurchases(purchases []*models.Record) []*models.Record {
	enriched := make([]*models.Record, 0, len(purchases))
	for _, r := range purchases {
		unitCost := r.Number(fieldUnitCost)
		igstRate := r.Number(fieldIGSTRate)

		out := r.Clone()
		out.SetNumber(fieldUnitPurchaseAmount, unitCost+unitCost*igstRate/100)
		enriched = append(enriched, out)
	}
	return enriched
}

// buildPurchaseIndex folds the purchase set into an Item Id lookup in input
// order. A duplicate Item Id silently shadows the earlier entry: last write
// wins, and that tie-break is relied on downstream.
func buildPurchaseIndex(purchases []*models.Record) map[string]*models.Record {
	index := make(map[string]*models.Record, len(purchases))
	for _, r := range purchases {
		if id := r.Get(fieldItemID); id != "" {
			index[id] = r
		}
	}
	return index
}

// enrichSales looks each sales record up in the purchase index and attaches
// the matched supplier, the computed purchase/sale amounts, and the match
// flag. Every record is returned enriched; the ones with no matching
// purchase are additionally collected into the second return value.
func enrichSales(sales []*models.Record, index map[string]*models.Record) (enriched, withoutPurchase []*models.Record) {
	enriched = make([]*models.Record, 0, len(sales))
	for _, r := range sales {
		purchase := index[r.Get(fieldItemID)]

		out := stripCurrencySymbols(r)

		quantity := out.Number(fieldQty)
		netAmount := out.Number(fieldNetAmount)
		cgstAmount := out.Number(fieldCGSTAmount)
		sgstAmount := out.Number(fieldSGSTAmount)

		unitPurchaseAmount := 0.0
		supplierName := ""
		if purchase != nil {
			unitPurchaseAmount = purchase.Number(fieldUnitPurchaseAmount)
			supplierName = purchase.Get(fieldSupplierName)
		}

		out.Set(fieldSupplierName, supplierName)
		out.SetNumber(fieldUnitPurchaseAmount, unitPurchaseAmount)
		out.SetNumber(fieldTotalPurchaseAmount, unitPurchaseAmount*quantity)
		out.SetNumber(fieldTotalSaleAmount, netAmount+cgstAmount+sgstAmount)
		out.Set(fieldHasMatchingPurchase, formatBool(purchase != nil))

		enriched = append(enriched, out)
		if purchase == nil {
			withoutPurchase = append(withoutPurchase, out)
		}
	}
	return enriched, withoutPurchase
}

// stripCurrencySymbols clones a record with the literal $ removed from every
// value. Some exports embed it in amount columns; numeric parsing would cope,
// but the cleaned text also flows into the output files.
func stripCurrencySymbols(r *models.Record) *models.Record {
	out := models.NewRecord()
	for _, key := range r.Keys() {
		out.Set(key, strings.ReplaceAll(r.Get(key), "$", ""))
	}
	return out
}

// findUnusedPurchases returns purchases no enriched sales record consumed.
// This is an existence check on the match flag, not quantity conservation:
// one sale of quantity 1 marks a purchase of quantity 100 as used.
func findUnusedPurchases(purchases, sales []*models.Record) []*models.Record {
	matchedIDs := make(map[string]bool)
	for _, r := range sales {
		if r.Get(fieldHasMatchingPurchase) == "true" {
			if id := r.Get(fieldItemID); id != "" {
				matchedIDs[id] = true
			}
		}
	}

	var unused []*models.Record
	for _, r := range purchases {
		id := r.Get(fieldItemID)
		if id == "" || !matchedIDs[id] {
			unused = append(unused, r)
		}
	}
	return unused
}

type totals struct {
	purchase    float64
	sale        float64
	cgst        float64
	sgst        float64
	netSale     float64
	netPurchase float64
	netProfit   float64
}

// accumulateTotals sums the financial aggregates across enriched sales
// records and buckets GST amounts by combined rate. Purchase-side GST is
// derived per item by backing the combined rate out of the gross unit
// purchase amount and splitting it evenly between CGST and SGST.
func accumulateTotals(sales []*models.Record) (totals, []RateBucket) {
	var t totals
	buckets := make(map[string]*RateBucket)

	for _, r := range sales {
		quantity := r.Number(fieldQty)
		netSaleAmount := r.Number(fieldNetAmount)
		unitGrossPurchaseAmount := r.Number(fieldUnitPurchaseAmount)

		cgstRate := r.Number(fieldCGSTRate)
		sgstRate := r.Number(fieldSGSTRate)
		totalTaxRate := cgstRate + sgstRate

		cgstAmount := r.Number(fieldCGSTAmount)
		sgstAmount := r.Number(fieldSGSTAmount)
		totalGSTAmount := cgstAmount + sgstAmount

		unitNetPurchaseAmount := unitGrossPurchaseAmount / (1 + totalTaxRate/100)
		netPurchaseAmount := unitNetPurchaseAmount * quantity
		purchaseGSTAmount := unitGrossPurchaseAmount*quantity - netPurchaseAmount

		if totalTaxRate > 0 {
			rateKey := fmt.Sprintf("%.2f%%", totalTaxRate)
			bucket, ok := buckets[rateKey]
			if !ok {
				bucket = &RateBucket{rate: totalTaxRate, Rate: rateKey}
				buckets[rateKey] = bucket
			}
			bucket.CGSTAmount += cgstAmount
			bucket.SGSTAmount += sgstAmount
			bucket.TotalAmount += totalGSTAmount
			bucket.PurchaseCGSTAmount += purchaseGSTAmount / 2
			bucket.PurchaseSGSTAmount += purchaseGSTAmount / 2
			bucket.PurchaseGSTAmount += purchaseGSTAmount
			bucket.NetGSTAmount += totalGSTAmount - purchaseGSTAmount
			bucket.Items++
		}

		t.purchase += unitGrossPurchaseAmount * quantity
		t.sale += r.Number(fieldTotalSaleAmount)
		t.cgst += cgstAmount
		t.sgst += sgstAmount
		t.netSale += netSaleAmount
		t.netPurchase += netPurchaseAmount
		t.netProfit += netSaleAmount - netPurchaseAmount
	}

	ordered := make([]RateBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ordered = append(ordered, *bucket)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].rate > ordered[j].rate
	})
	return t, ordered
}

// matchRecords produces the sales-driven inner join: every enriched sales
// record with a purchase match becomes one merged record, purchase columns
// renamed with the PO_ prefix.
func matchRecords(sales []*models.Record, index map[string]*models.Record) []*models.Record {
	var matched []*models.Record
	for _, r := range sales {
		id := r.Get(fieldItemID)
		if id == "" {
			continue
		}
		purchase := index[id]
		if purchase == nil {
			continue
		}

		merged := r.Clone()
		for _, key := range purchase.Keys() {
			if key == fieldItemID {
				merged.Set(key, purchase.Get(key))
				continue
			}
			merged.Set(matchedKeyPrefix+key, purchase.Get(key))
		}
		matched = append(matched, merged)
	}
	return matched
}

type categoryTotals struct {
	garmentPurchaseQty float64
	garmentSaleQty     float64
	fabricPurchaseQty  float64
	fabricSaleQty      float64
	garmentByDate      []DateBucket
	fabricByDate       []DateBucket
}

// accumulateCategories tags items as garment or fabric by a case-insensitive
// substring match on the purchase supplier name, sums quantities on both
// sides, and buckets category sale amounts by day.
func accumulateCategories(purchases, sales []*models.Record) categoryTotals {
	var c categoryTotals
	garmentItems := make(map[string]bool)
	fabricItems := make(map[string]bool)

	for _, r := range purchases {
		supplier := strings.ToLower(r.Get(fieldSupplierName))
		id := r.Get(fieldItemID)
		if id == "" {
			continue
		}

		if strings.Contains(supplier, "garment") {
			c.garmentPurchaseQty += r.Number(fieldReceivedQty)
			garmentItems[id] = true
		}

		if strings.Contains(supplier, "fabric") {
			// The carve-out invoice is skipped for the quantity sum only;
			// its items still count as fabric on the sale side.
			if r.Get(fieldInvoiceNumber) != fabricExcludedInvoice {
				c.fabricPurchaseQty += r.Number(fieldReceivedQty)
			}
			fabricItems[id] = true
		}
	}

	garmentByDate := make(map[string]*DateBucket)
	fabricByDate := make(map[string]*DateBucket)

	for _, r := range sales {
		id := r.Get(fieldItemID)
		if id == "" {
			continue
		}
		quantity := r.Number(fieldQty)
		amount := r.Number(fieldNetAmount) + r.Number(fieldCGSTAmount) + r.Number(fieldSGSTAmount)
		date := saleDateKey(r.Get(fieldDate))

		if garmentItems[id] {
			c.garmentSaleQty += quantity
			addToDateBucket(garmentByDate, date, quantity, amount)
		}
		if fabricItems[id] {
			c.fabricSaleQty += quantity
			addToDateBucket(fabricByDate, date, quantity, amount)
		}
	}

	c.garmentByDate = sortedDateBuckets(garmentByDate)
	c.fabricByDate = sortedDateBuckets(fabricByDate)
	return c
}

func addToDateBucket(buckets map[string]*DateBucket, date string, quantity, amount float64) {
	bucket, ok := buckets[date]
	if !ok {
		bucket = &DateBucket{Date: date}
		buckets[date] = bucket
	}
	bucket.Quantity += quantity
	bucket.Amount += amount
}

func sortedDateBuckets(buckets map[string]*DateBucket) []DateBucket {
	ordered := make([]DateBucket, 0, len(buckets))
	for _, bucket := range buckets {
		ordered = append(ordered, *bucket)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})
	return ordered
}

// saleDateKey normalizes a DD-MM-YYYY sale date to YYYY-MM-DD for grouping.
// A missing date groups under "Unknown Date"; a date that is not three
// dash-separated parts is kept as-is rather than guessed at.
func saleDateKey(date string) string {
	if date == "" {
		return "Unknown Date"
	}
	if normalized, ok := normalizeDate(date); ok {
		return normalized
	}
	return date
}

// normalizeDate reorders DD-MM-YYYY into YYYY-MM-DD by pure string slicing.
// Deliberately not calendar-aware: a time.Time round trip could shift the
// day across timezones.
func normalizeDate(date string) (string, bool) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return "", false
	}
	return parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0]), true
}

func pad2(s string) string {
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

// ratioPercent formats part/whole as a two-decimal percentage, or "N/A" when
// the denominator is not positive.
func ratioPercent(part, whole float64) string {
	if whole <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", part/whole*100)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
