package importer

import (
	"strconv"
	"time"

	"billing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Diagnostic records why a single row was dropped. One bad row never
// aborts the batch; the remaining rows are still resolved.
type Diagnostic struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Ref is one entry of a reference table used to resolve human-readable
// names to identifiers.
type Ref struct {
	Name string
	ID   uuid.UUID
}

// BuildRefMap folds a reference list into a name → id table. When the same
// name appears more than once the last-registered id wins; imported data
// may depend on this, so it is pinned by tests rather than fixed.
func BuildRefMap(refs []Ref) map[string]uuid.UUID {
	m := make(map[string]uuid.UUID, len(refs))
	for _, ref := range refs {
		m[ref.Name] = ref.ID
	}
	return m
}

// lookup resolves a foreign name with an exact, case-sensitive match.
func lookup(refs map[string]uuid.UUID, name string) (uuid.UUID, bool) {
	id, ok := refs[name]
	return id, ok
}

// ResolveRoutes maps Route{name, description} rows to records.
func ResolveRoutes(rows []Row) ([]model.Route, []Diagnostic) {
	var records []model.Route
	var diags []Diagnostic
	for _, row := range rows {
		name := row.Fields["name"]
		if missing(name) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "name", Value: name, Reason: "missing required field"})
			continue
		}
		records = append(records, model.Route{
			Name:        name,
			Description: row.Fields["description"],
		})
	}
	return records, diags
}

// ResolveVendors maps Vendor{name, route_name, contact, address} rows to
// records, resolving route_name against the supplied route reference map.
func ResolveVendors(rows []Row, routes map[string]uuid.UUID) ([]model.Vendor, []Diagnostic) {
	var records []model.Vendor
	var diags []Diagnostic
	for _, row := range rows {
		name := row.Fields["name"]
		if missing(name) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "name", Value: name, Reason: "missing required field"})
			continue
		}
		routeName := row.Fields["route_name"]
		if missing(routeName) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "route_name", Value: routeName, Reason: "missing required field"})
			continue
		}
		routeID, ok := lookup(routes, routeName)
		if !ok {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "route_name", Value: routeName, Reason: "no route with this name"})
			continue
		}
		records = append(records, model.Vendor{
			Name:    name,
			RouteID: routeID,
			Contact: row.Fields["contact"],
			Address: row.Fields["address"],
		})
	}
	return records, diags
}

// ResolveItems maps Item{name_en, name_gu, rate, has_gst, gst_percentage}
// rows to records. rate must parse as a number; has_gst accepts literal
// true/false; gst_percentage is required only when has_gst is true and a
// value is present.
func ResolveItems(rows []Row) ([]model.Item, []Diagnostic) {
	var records []model.Item
	var diags []Diagnostic
	for _, row := range rows {
		nameEn := row.Fields["name_en"]
		if missing(nameEn) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "name_en", Value: nameEn, Reason: "missing required field"})
			continue
		}
		nameGu := row.Fields["name_gu"]
		if missing(nameGu) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "name_gu", Value: nameGu, Reason: "missing required field"})
			continue
		}

		rateStr := row.Fields["rate"]
		if missing(rateStr) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "rate", Value: rateStr, Reason: "missing required field"})
			continue
		}
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "rate", Value: rateStr, Reason: "not a number"})
			continue
		}

		hasGST := false
		if gstFlag := row.Fields["has_gst"]; !missing(gstFlag) {
			switch gstFlag {
			case "true":
				hasGST = true
			case "false":
				hasGST = false
			default:
				diags = append(diags, Diagnostic{Row: row.Num, Field: "has_gst", Value: gstFlag, Reason: "must be true or false"})
				continue
			}
		}

		gstPct := decimal.Zero
		if pctStr := row.Fields["gst_percentage"]; hasGST && !missing(pctStr) {
			gstPct, err = decimal.NewFromString(pctStr)
			if err != nil {
				diags = append(diags, Diagnostic{Row: row.Num, Field: "gst_percentage", Value: pctStr, Reason: "not a number"})
				continue
			}
		}

		records = append(records, model.Item{
			NameEn:        nameEn,
			NameGu:        nameGu,
			Rate:          rate,
			HasGST:        hasGST,
			GSTPercentage: gstPct,
		})
	}
	return records, diags
}

// ResolveBills maps Bill{vendor_name, date} rows to records, resolving
// vendor_name against the supplied vendor reference map. Dates are ISO.
func ResolveBills(rows []Row, vendors map[string]uuid.UUID) ([]model.Bill, []Diagnostic) {
	var records []model.Bill
	var diags []Diagnostic
	for _, row := range rows {
		vendorName := row.Fields["vendor_name"]
		if missing(vendorName) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "vendor_name", Value: vendorName, Reason: "missing required field"})
			continue
		}
		vendorID, ok := lookup(vendors, vendorName)
		if !ok {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "vendor_name", Value: vendorName, Reason: "no vendor with this name"})
			continue
		}

		dateStr := row.Fields["date"]
		if missing(dateStr) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "date", Value: dateStr, Reason: "missing required field"})
			continue
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "date", Value: dateStr, Reason: "not a date (expected YYYY-MM-DD)"})
			continue
		}

		records = append(records, model.Bill{VendorID: vendorID, Date: date})
	}
	return records, diags
}

// BillItemRecord is a resolved bill line still tagged with its source row,
// so callers doing their own existence checks can report against the file.
type BillItemRecord struct {
	Row  int
	Line model.BillItem
}

// ResolveBillItems maps BillItem{bill_id, item_name_en, quantity} rows to
// records, resolving item_name_en against the supplied item reference map.
// Quantity must be a positive integer; non-positive quantities are rejected
// here so they can never reach a persisted bill line. The caller snapshots
// each line's price from the item's current rate.
func ResolveBillItems(rows []Row, items map[string]uuid.UUID) ([]BillItemRecord, []Diagnostic) {
	var records []BillItemRecord
	var diags []Diagnostic
	for _, row := range rows {
		billIDStr := row.Fields["bill_id"]
		if missing(billIDStr) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "bill_id", Value: billIDStr, Reason: "missing required field"})
			continue
		}
		billID, err := uuid.Parse(billIDStr)
		if err != nil {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "bill_id", Value: billIDStr, Reason: "not a valid id"})
			continue
		}

		itemName := row.Fields["item_name_en"]
		if missing(itemName) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "item_name_en", Value: itemName, Reason: "missing required field"})
			continue
		}
		itemID, ok := lookup(items, itemName)
		if !ok {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "item_name_en", Value: itemName, Reason: "no item with this name"})
			continue
		}

		qtyStr := row.Fields["quantity"]
		if missing(qtyStr) {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "quantity", Value: qtyStr, Reason: "missing required field"})
			continue
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "quantity", Value: qtyStr, Reason: "not a number"})
			continue
		}
		if qty <= 0 {
			diags = append(diags, Diagnostic{Row: row.Num, Field: "quantity", Value: qtyStr, Reason: "must be a positive integer"})
			continue
		}

		records = append(records, BillItemRecord{
			Row:  row.Num,
			Line: model.BillItem{BillID: billID, ItemID: itemID, Quantity: qty},
		})
	}
	return records, diags
}
