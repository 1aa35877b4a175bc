package importer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func row(num int, fields map[string]string) Row {
	return Row{Num: num, Fields: fields}
}

func TestBuildRefMapLastWins(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	refs := BuildRefMap([]Ref{
		{Name: "Main Street Route", ID: first},
		{Name: "Main Street Route", ID: second},
	})
	if got := refs["Main Street Route"]; got != second {
		t.Errorf("duplicate name resolved to %s, want the last-registered id", got)
	}
}

func TestResolveRoutes(t *testing.T) {
	rows := []Row{
		row(1, map[string]string{"name": "Main Street Route", "description": "morning"}),
		row(2, map[string]string{"name": "   ", "description": "no name"}),
		row(3, map[string]string{"name": "Station Route"}),
	}

	records, diags := ResolveRoutes(rows)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Main Street Route" || records[1].Name != "Station Route" {
		t.Errorf("records = %+v", records)
	}
	if len(diags) != 1 || diags[0].Row != 2 || diags[0].Field != "name" || diags[0].Reason != "missing required field" {
		t.Errorf("diags = %+v", diags)
	}
}

func TestResolveVendors(t *testing.T) {
	routeID := uuid.New()
	routes := map[string]uuid.UUID{"Main Street Route": routeID}

	rows := []Row{
		row(1, map[string]string{"name": "Patel Stores", "route_name": "Main Street Route", "contact": "98250", "address": "12 Main St"}),
		row(2, map[string]string{"name": "Shah Traders", "route_name": "main street route"}),
		row(3, map[string]string{"name": "Desai & Sons", "route_name": ""}),
	}

	records, diags := ResolveVendors(rows, routes)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Name != "Patel Stores" || records[0].RouteID != routeID {
		t.Errorf("record = %+v", records[0])
	}

	if len(diags) != 2 {
		t.Fatalf("diags = %+v", diags)
	}
	// Name matching is exact and case-sensitive
	if diags[0].Row != 2 || diags[0].Reason != "no route with this name" {
		t.Errorf("case mismatch diag = %+v", diags[0])
	}
	if diags[1].Row != 3 || diags[1].Reason != "missing required field" {
		t.Errorf("missing route diag = %+v", diags[1])
	}
}

func TestResolveItems(t *testing.T) {
	rows := []Row{
		row(1, map[string]string{"name_en": "Masala Tea", "name_gu": "મસાલા ચા", "rate": "10.50", "has_gst": "true", "gst_percentage": "18"}),
		row(2, map[string]string{"name_en": "Sugar", "name_gu": "ખાંડ", "rate": "42"}),
		row(3, map[string]string{"name_en": "Salt", "name_gu": "મીઠું", "rate": "abc"}),
		row(4, map[string]string{"name_en": "Oil", "name_gu": "તેલ", "rate": "120", "has_gst": "yes"}),
		// has_gst false: gst_percentage value is ignored, not parsed
		row(5, map[string]string{"name_en": "Rice", "name_gu": "ચોખા", "rate": "55", "has_gst": "false", "gst_percentage": "not-a-number"}),
	}

	records, diags := ResolveItems(rows)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(records), records)
	}

	tea := records[0]
	if !tea.HasGST || !tea.GSTPercentage.Equal(decimal.NewFromInt(18)) || !tea.Rate.Equal(decimal.RequireFromString("10.50")) {
		t.Errorf("tea = %+v", tea)
	}
	sugar := records[1]
	if sugar.HasGST || !sugar.GSTPercentage.IsZero() {
		t.Errorf("sugar = %+v", sugar)
	}
	rice := records[2]
	if rice.HasGST || !rice.GSTPercentage.IsZero() {
		t.Errorf("rice = %+v", rice)
	}

	if len(diags) != 2 {
		t.Fatalf("diags = %+v", diags)
	}
	if diags[0].Row != 3 || diags[0].Field != "rate" || diags[0].Reason != "not a number" {
		t.Errorf("rate diag = %+v", diags[0])
	}
	if diags[1].Row != 4 || diags[1].Field != "has_gst" || diags[1].Reason != "must be true or false" {
		t.Errorf("has_gst diag = %+v", diags[1])
	}
}

func TestResolveBills(t *testing.T) {
	vendorID := uuid.New()
	vendors := map[string]uuid.UUID{"Patel Stores": vendorID}

	rows := []Row{
		row(1, map[string]string{"vendor_name": "Patel Stores", "date": "2025-04-01"}),
		row(2, map[string]string{"vendor_name": "Nobody", "date": "2025-04-01"}),
		row(3, map[string]string{"vendor_name": "Patel Stores", "date": "01/04/2025"}),
	}

	records, diags := ResolveBills(rows, vendors)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].VendorID != vendorID || records[0].Date.Format("2006-01-02") != "2025-04-01" {
		t.Errorf("record = %+v", records[0])
	}

	if len(diags) != 2 {
		t.Fatalf("diags = %+v", diags)
	}
	if diags[0].Row != 2 || diags[0].Reason != "no vendor with this name" {
		t.Errorf("vendor diag = %+v", diags[0])
	}
	if diags[1].Row != 3 || diags[1].Field != "date" {
		t.Errorf("date diag = %+v", diags[1])
	}
}

func TestResolveBillItems(t *testing.T) {
	billID := uuid.New()
	itemID := uuid.New()
	items := map[string]uuid.UUID{"Masala Tea": itemID}

	rows := []Row{
		row(1, map[string]string{"bill_id": billID.String(), "item_name_en": "Masala Tea", "quantity": "3"}),
		row(2, map[string]string{"bill_id": "not-a-uuid", "item_name_en": "Masala Tea", "quantity": "1"}),
		row(3, map[string]string{"bill_id": billID.String(), "item_name_en": "Unknown Thing", "quantity": "1"}),
		row(4, map[string]string{"bill_id": billID.String(), "item_name_en": "Masala Tea", "quantity": "0"}),
		row(5, map[string]string{"bill_id": billID.String(), "item_name_en": "Masala Tea", "quantity": "-2"}),
		row(6, map[string]string{"bill_id": billID.String(), "item_name_en": "Masala Tea", "quantity": "two"}),
	}

	records, diags := ResolveBillItems(rows, items)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Row != 1 || rec.Line.BillID != billID || rec.Line.ItemID != itemID || rec.Line.Quantity != 3 {
		t.Errorf("record = %+v", rec)
	}

	wantReasons := map[int]string{
		2: "not a valid id",
		3: "no item with this name",
		4: "must be a positive integer",
		5: "must be a positive integer",
		6: "not a number",
	}
	if len(diags) != len(wantReasons) {
		t.Fatalf("diags = %+v", diags)
	}
	for _, d := range diags {
		if want := wantReasons[d.Row]; d.Reason != want {
			t.Errorf("row %d reason = %q, want %q", d.Row, d.Reason, want)
		}
	}
}

// Resolving the same input twice yields identical results.
func TestResolveIsPure(t *testing.T) {
	rows := []Row{
		row(1, map[string]string{"name": "Main Street Route"}),
		row(2, map[string]string{"name": ""}),
	}
	first, firstDiags := ResolveRoutes(rows)
	second, secondDiags := ResolveRoutes(rows)
	if len(first) != len(second) || len(firstDiags) != len(secondDiags) {
		t.Errorf("resolution is not repeatable: %d/%d vs %d/%d", len(first), len(firstDiags), len(second), len(secondDiags))
	}
}
