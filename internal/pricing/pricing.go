// Package pricing computes tax-aware monetary figures for bills and
// aggregates line items across bills for reporting. All arithmetic is
// exact decimal; nothing is rounded until presentation.
package pricing

import (
	"sort"

	"billing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownItemName is the display name used for lines whose item no longer
// exists in the catalog. Such lines still contribute price*quantity to
// every subtotal; they must not silently vanish from totals.
const UnknownItemName = "N/A"

var hundred = decimal.NewFromInt(100)

// Catalog indexes items by id for line lookups.
type Catalog map[uuid.UUID]model.Item

// NewCatalog folds an item list into a lookup table.
func NewCatalog(items []model.Item) Catalog {
	cat := make(Catalog, len(items))
	for _, item := range items {
		cat[item.ID] = item
	}
	return cat
}

// LineFigures holds the computed monetary figures for one bill line.
type LineFigures struct {
	ItemID        uuid.UUID       `json:"item_id"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	GSTPercentage decimal.Decimal `json:"gst_percentage"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	GSTAmount     decimal.Decimal `json:"gst_amount"`
	TotalWithGST  decimal.Decimal `json:"total_with_gst"`
}

// BillTotals is the sum of the per-line figures of one bill.
type BillTotals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	GSTAmount    decimal.Decimal `json:"gst_amount"`
	TotalWithGST decimal.Decimal `json:"total_with_gst"`
}

// ComputeLine derives the figures for a single line. The stored line price
// is authoritative for the subtotal; the GST percentage is read live from
// the catalog, so a later catalog change shifts the tax figures of old
// lines while their subtotal stays fixed.
func ComputeLine(line model.BillItem, catalog Catalog, lang string) LineFigures {
	name := UnknownItemName
	gst := decimal.Zero
	if item, ok := catalog[line.ItemID]; ok {
		name = item.DisplayName(lang)
		gst = item.EffectiveGST()
	}

	qty := decimal.NewFromInt(int64(line.Quantity))
	subtotal := line.Price.Mul(qty)
	gstAmount := subtotal.Mul(gst).Div(hundred)

	return LineFigures{
		ItemID:        line.ItemID,
		Name:          name,
		Quantity:      line.Quantity,
		Price:         line.Price,
		GSTPercentage: gst,
		Subtotal:      subtotal,
		GSTAmount:     gstAmount,
		TotalWithGST:  subtotal.Add(gstAmount),
	}
}

// BillFigures computes every line of a bill plus the bill-level totals.
// Totals are sums of the unrounded per-line values.
func BillFigures(lines []model.BillItem, catalog Catalog, lang string) ([]LineFigures, BillTotals) {
	figures := make([]LineFigures, 0, len(lines))
	totals := BillTotals{
		Subtotal:     decimal.Zero,
		GSTAmount:    decimal.Zero,
		TotalWithGST: decimal.Zero,
	}
	for _, line := range lines {
		f := ComputeLine(line, catalog, lang)
		figures = append(figures, f)
		totals.Subtotal = totals.Subtotal.Add(f.Subtotal)
		totals.GSTAmount = totals.GSTAmount.Add(f.GSTAmount)
		totals.TotalWithGST = totals.TotalWithGST.Add(f.TotalWithGST)
	}
	return figures, totals
}

// Add accumulates another bill's totals, for grand totals across bills.
func (t BillTotals) Add(other BillTotals) BillTotals {
	return BillTotals{
		Subtotal:     t.Subtotal.Add(other.Subtotal),
		GSTAmount:    t.GSTAmount.Add(other.GSTAmount),
		TotalWithGST: t.TotalWithGST.Add(other.TotalWithGST),
	}
}

// ItemSummary is one row of the cross-bill item-wise report: total quantity
// and total subtotal (stored line prices, not live rates) for one display name.
type ItemSummary struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ItemWiseSummary groups line items from any number of bills by display
// name in the given language and sums quantity and subtotal per group.
// Lines with no catalog entry are grouped under UnknownItemName. Rows come
// back sorted by name so reports are stable.
func ItemWiseSummary(lines []model.BillItem, catalog Catalog, lang string) []ItemSummary {
	groups := make(map[string]*ItemSummary)
	for _, line := range lines {
		name := UnknownItemName
		if item, ok := catalog[line.ItemID]; ok {
			name = item.DisplayName(lang)
		}
		row, ok := groups[name]
		if !ok {
			row = &ItemSummary{Name: name, Subtotal: decimal.Zero}
			groups[name] = row
		}
		row.Quantity += line.Quantity
		row.Subtotal = row.Subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	rows := make([]ItemSummary, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// Format renders a decimal for display, rounded to 2 fractional digits.
// Rounding happens here and nowhere else.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
