package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"billing/internal/model"
	"billing/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var firstPage = pagination.Params{Page: 1, Limit: 20, Offset: 0}

// --- In-memory fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) NotifyBill(eventType, billID string) {
	n.events = append(n.events, eventType)
}

type fakeVendorRepo struct {
	vendors   map[uuid.UUID]*model.Vendor
	deleteErr error
}

func newFakeVendorRepo(vendors ...*model.Vendor) *fakeVendorRepo {
	r := &fakeVendorRepo{vendors: make(map[uuid.UUID]*model.Vendor)}
	for _, v := range vendors {
		r.vendors[v.ID] = v
	}
	return r
}

func (r *fakeVendorRepo) Create(ctx context.Context, vendor *model.Vendor) error {
	r.vendors[vendor.ID] = vendor
	return nil
}

func (r *fakeVendorRepo) CreateBatch(ctx context.Context, vendors []model.Vendor) error {
	for i := range vendors {
		if vendors[i].ID == uuid.Nil {
			vendors[i].ID = uuid.New()
		}
		r.vendors[vendors[i].ID] = &vendors[i]
	}
	return nil
}

func (r *fakeVendorRepo) Update(ctx context.Context, vendor *model.Vendor) error { return nil }

func (r *fakeVendorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.vendors, id)
	return nil
}

func (r *fakeVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	v, ok := r.vendors[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return v, nil
}

func (r *fakeVendorRepo) FindAll(ctx context.Context, routeID *uuid.UUID) ([]model.Vendor, error) {
	var out []model.Vendor
	for _, v := range r.vendors {
		out = append(out, *v)
	}
	return out, nil
}

type fakeItemRepo struct {
	items     map[uuid.UUID]model.Item
	deleteErr error
}

func newFakeItemRepo(items ...model.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[uuid.UUID]model.Item)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeItemRepo) Create(ctx context.Context, item *model.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) CreateBatch(ctx context.Context, items []model.Item) error {
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items[item.ID] = item
	}
	return nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *model.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return &item, nil
}

func (r *fakeItemRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	var out []model.Item
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) FindAll(ctx context.Context) ([]model.Item, error) {
	var out []model.Item
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

type fakeBillRepo struct {
	bills map[uuid.UUID]*model.Bill
	lines map[uuid.UUID]*model.BillItem

	failCreateItems  bool
	failCreateOnCall int
	createCalls      int
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{
		bills: make(map[uuid.UUID]*model.Bill),
		lines: make(map[uuid.UUID]*model.BillItem),
	}
}

func (r *fakeBillRepo) Create(ctx context.Context, bill *model.Bill) error {
	r.createCalls++
	if r.failCreateOnCall > 0 && r.createCalls >= r.failCreateOnCall {
		return fmt.Errorf("insert failed")
	}
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	clone := *bill
	r.bills[bill.ID] = &clone
	return nil
}

func (r *fakeBillRepo) CreateItems(ctx context.Context, items []model.BillItem) error {
	if r.failCreateItems {
		return fmt.Errorf("insert failed")
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		clone := items[i]
		r.lines[items[i].ID] = &clone
	}
	return nil
}

func (r *fakeBillRepo) Update(ctx context.Context, bill *model.Bill) error {
	clone := *bill
	r.bills[bill.ID] = &clone
	return nil
}

func (r *fakeBillRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	bill, ok := r.bills[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	clone := *bill
	clone.Items = nil
	for _, line := range r.lines {
		if line.BillID == id {
			clone.Items = append(clone.Items, *line)
		}
	}
	return &clone, nil
}

func (r *fakeBillRepo) FindAll(ctx context.Context, vendorID *uuid.UUID) ([]model.Bill, error) {
	var out []model.Bill
	for id, bill := range r.bills {
		if vendorID != nil && bill.VendorID != *vendorID {
			continue
		}
		full, _ := r.FindByID(ctx, id)
		out = append(out, *full)
	}
	return out, nil
}

func (r *fakeBillRepo) FindPage(ctx context.Context, vendorID *uuid.UUID, limit, offset int) ([]model.Bill, int64, error) {
	all, err := r.FindAll(ctx, vendorID)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeBillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.bills, id)
	return nil
}

func (r *fakeBillRepo) DeleteItemsByBillID(ctx context.Context, billID uuid.UUID) error {
	for id, line := range r.lines {
		if line.BillID == billID {
			delete(r.lines, id)
		}
	}
	return nil
}

func (r *fakeBillRepo) DeleteAll(ctx context.Context) error {
	r.bills = make(map[uuid.UUID]*model.Bill)
	return nil
}

func (r *fakeBillRepo) DeleteAllItems(ctx context.Context) error {
	r.lines = make(map[uuid.UUID]*model.BillItem)
	return nil
}

func (r *fakeBillRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*model.BillItem, error) {
	line, ok := r.lines[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	clone := *line
	return &clone, nil
}

func (r *fakeBillRepo) FindAllItems(ctx context.Context) ([]model.BillItem, error) {
	var out []model.BillItem
	for _, line := range r.lines {
		out = append(out, *line)
	}
	return out, nil
}

func (r *fakeBillRepo) UpdateItem(ctx context.Context, item *model.BillItem) error {
	clone := *item
	r.lines[item.ID] = &clone
	return nil
}

func (r *fakeBillRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	delete(r.lines, id)
	return nil
}

// --- Fixtures ---

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type billFixture struct {
	service  BillService
	billRepo *fakeBillRepo
	itemRepo *fakeItemRepo
	notifier *fakeNotifier
	vendor   *model.Vendor
	tea      model.Item
	sugar    model.Item
}

func newBillFixture() *billFixture {
	vendor := &model.Vendor{ID: uuid.New(), Name: "Patel Stores", RouteID: uuid.New()}
	tea := model.Item{ID: uuid.New(), NameEn: "Masala Tea", NameGu: "મસાલા ચા", Rate: mustDec("10.50"), HasGST: true, GSTPercentage: mustDec("18")}
	sugar := model.Item{ID: uuid.New(), NameEn: "Sugar", NameGu: "ખાંડ", Rate: mustDec("42.00")}

	billRepo := newFakeBillRepo()
	itemRepo := newFakeItemRepo(tea, sugar)
	notifier := &fakeNotifier{}
	svc := NewBillService(billRepo, itemRepo, newFakeVendorRepo(vendor), fakeTxManager{}, notifier)

	return &billFixture{
		service:  svc,
		billRepo: billRepo,
		itemRepo: itemRepo,
		notifier: notifier,
		vendor:   vendor,
		tea:      tea,
		sugar:    sugar,
	}
}

func (f *billFixture) createBill(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := f.service.CreateBill(context.Background(), CreateBillRequest{
		VendorID: f.vendor.ID.String(),
		Date:     "2025-04-01",
		Items: []BillLinePayload{
			{ItemID: f.tea.ID.String(), Quantity: 3},
			{ItemID: f.sugar.ID.String(), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	billID, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("CreateBill returned %q: %v", id, err)
	}
	return billID
}

// --- Tests ---

func TestCreateBillSnapshotsPrices(t *testing.T) {
	f := newBillFixture()
	billID := f.createBill(t)

	bill, err := f.billRepo.FindByID(context.Background(), billID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(bill.Items) != 2 {
		t.Fatalf("got %d lines, want 2", len(bill.Items))
	}
	for _, line := range bill.Items {
		var wantPrice decimal.Decimal
		switch line.ItemID {
		case f.tea.ID:
			wantPrice = mustDec("10.50")
		case f.sugar.ID:
			wantPrice = mustDec("42.00")
		default:
			t.Fatalf("unexpected line item %s", line.ItemID)
		}
		if !line.Price.Equal(wantPrice) {
			t.Errorf("line price = %s, want %s", line.Price, wantPrice)
		}
	}

	// 3*10.50 + 1*42 = 73.50; GST 18% on the tea line only = 5.67
	if !bill.Total.Equal(mustDec("73.50")) {
		t.Errorf("cached Total = %s, want 73.50", bill.Total)
	}
	if !bill.GSTTotal.Equal(mustDec("5.67")) {
		t.Errorf("cached GSTTotal = %s, want 5.67", bill.GSTTotal)
	}

	if len(f.notifier.events) != 1 {
		t.Errorf("events = %v, want one create event", f.notifier.events)
	}
}

// Raising an item's rate after bill creation must not change stored lines.
func TestCreateBillPricesAreImmutable(t *testing.T) {
	f := newBillFixture()
	billID := f.createBill(t)

	tea := f.tea
	tea.Rate = mustDec("99.99")
	if err := f.itemRepo.Update(context.Background(), &tea); err != nil {
		t.Fatal(err)
	}

	bill, _ := f.billRepo.FindByID(context.Background(), billID)
	for _, line := range bill.Items {
		if line.ItemID == f.tea.ID && !line.Price.Equal(mustDec("10.50")) {
			t.Errorf("stored price drifted to %s after rate change", line.Price)
		}
	}
}

func TestCreateBillValidation(t *testing.T) {
	f := newBillFixture()

	tests := []struct {
		name string
		req  CreateBillRequest
	}{
		{
			name: "no items",
			req:  CreateBillRequest{VendorID: f.vendor.ID.String(), Date: "2025-04-01"},
		},
		{
			name: "zero quantity",
			req: CreateBillRequest{VendorID: f.vendor.ID.String(), Date: "2025-04-01",
				Items: []BillLinePayload{{ItemID: f.tea.ID.String(), Quantity: 0}}},
		},
		{
			name: "negative quantity",
			req: CreateBillRequest{VendorID: f.vendor.ID.String(), Date: "2025-04-01",
				Items: []BillLinePayload{{ItemID: f.tea.ID.String(), Quantity: -1}}},
		},
		{
			name: "bad date",
			req: CreateBillRequest{VendorID: f.vendor.ID.String(), Date: "01/04/2025",
				Items: []BillLinePayload{{ItemID: f.tea.ID.String(), Quantity: 1}}},
		},
		{
			name: "unknown vendor",
			req: CreateBillRequest{VendorID: uuid.New().String(), Date: "2025-04-01",
				Items: []BillLinePayload{{ItemID: f.tea.ID.String(), Quantity: 1}}},
		},
		{
			name: "unknown item",
			req: CreateBillRequest{VendorID: f.vendor.ID.String(), Date: "2025-04-01",
				Items: []BillLinePayload{{ItemID: uuid.New().String(), Quantity: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.service.CreateBill(context.Background(), tt.req); err == nil {
				t.Error("expected error")
			}
		})
	}
	if len(f.billRepo.bills) != 0 {
		t.Errorf("rejected requests still created %d bills", len(f.billRepo.bills))
	}
	if len(f.notifier.events) != 0 {
		t.Errorf("rejected requests emitted events: %v", f.notifier.events)
	}
}

func TestCreateBillFailedInsertReturnsError(t *testing.T) {
	f := newBillFixture()
	f.billRepo.failCreateItems = true

	_, err := f.service.CreateBill(context.Background(), CreateBillRequest{
		VendorID: f.vendor.ID.String(),
		Date:     "2025-04-01",
		Items:    []BillLinePayload{{ItemID: f.tea.ID.String(), Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected error from failed line insert")
	}
	if len(f.notifier.events) != 0 {
		t.Errorf("failed create emitted events: %v", f.notifier.events)
	}
}

func TestGetBillsRendersFigures(t *testing.T) {
	f := newBillFixture()
	f.createBill(t)

	bills, _, err := f.service.GetBills(context.Background(), "", "en", firstPage)
	if err != nil {
		t.Fatalf("GetBills: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("got %d bills, want 1", len(bills))
	}

	bill := bills[0]
	if bill.Subtotal != "73.50" || bill.GSTAmount != "5.67" || bill.Total != "79.17" {
		t.Errorf("totals = %s/%s/%s, want 73.50/5.67/79.17", bill.Subtotal, bill.GSTAmount, bill.Total)
	}
	if bill.Date != "2025-04-01" {
		t.Errorf("date = %q", bill.Date)
	}

	byName := make(map[string]BillLineResponse)
	for _, line := range bill.Items {
		byName[line.Name] = line
	}
	tea, ok := byName["Masala Tea"]
	if !ok {
		t.Fatalf("no tea line in %+v", bill.Items)
	}
	if tea.Subtotal != "31.50" || tea.GSTAmount != "5.67" || tea.TotalWithGST != "37.17" {
		t.Errorf("tea line = %+v", tea)
	}
}

func TestGetBillItems(t *testing.T) {
	f := newBillFixture()
	billID := f.createBill(t)

	lines, err := f.service.GetBillItems(context.Background(), billID.String(), "en")
	if err != nil {
		t.Fatalf("GetBillItems: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	byName := make(map[string]BillLineResponse)
	for _, line := range lines {
		byName[line.Name] = line
	}
	tea, ok := byName["Masala Tea"]
	if !ok {
		t.Fatalf("no tea line in %+v", lines)
	}
	if tea.Quantity != 3 || tea.TotalWithGST != "37.17" {
		t.Errorf("tea line = %+v", tea)
	}

	if _, err := f.service.GetBillItems(context.Background(), "not-a-uuid", "en"); err == nil {
		t.Error("expected error for malformed id")
	}
	if _, err := f.service.GetBillItems(context.Background(), uuid.NewString(), "en"); err == nil {
		t.Error("expected error for unknown bill")
	}
}

func TestGetBillsGujaratiNames(t *testing.T) {
	f := newBillFixture()
	f.createBill(t)

	bills, _, err := f.service.GetBills(context.Background(), "", "gu", firstPage)
	if err != nil {
		t.Fatalf("GetBills: %v", err)
	}
	names := make(map[string]bool)
	for _, line := range bills[0].Items {
		names[line.Name] = true
	}
	if !names["મસાલા ચા"] || !names["ખાંડ"] {
		t.Errorf("names = %v, want Gujarati catalog names", names)
	}
}

// A line whose item was deleted shows as N/A but keeps contributing.
func TestGetBillsOrphanLine(t *testing.T) {
	f := newBillFixture()
	f.createBill(t)

	if err := f.itemRepo.Delete(context.Background(), f.sugar.ID); err != nil {
		t.Fatal(err)
	}

	bills, _, err := f.service.GetBills(context.Background(), "", "en", firstPage)
	if err != nil {
		t.Fatalf("GetBills: %v", err)
	}
	bill := bills[0]

	var orphan *BillLineResponse
	for i := range bill.Items {
		if bill.Items[i].Name == "N/A" {
			orphan = &bill.Items[i]
		}
	}
	if orphan == nil {
		t.Fatalf("no N/A line in %+v", bill.Items)
	}
	if orphan.Subtotal != "42.00" || orphan.GSTPercentage != "0" {
		t.Errorf("orphan line = %+v", orphan)
	}
	// 73.50 still includes the orphan's 42.00
	if bill.Subtotal != "73.50" {
		t.Errorf("Subtotal = %s, want 73.50", bill.Subtotal)
	}
}

func TestDeleteBillRemovesLines(t *testing.T) {
	f := newBillFixture()
	billID := f.createBill(t)

	if err := f.service.DeleteBill(context.Background(), billID.String()); err != nil {
		t.Fatalf("DeleteBill: %v", err)
	}
	if len(f.billRepo.bills) != 0 {
		t.Errorf("%d bills remain", len(f.billRepo.bills))
	}
	if len(f.billRepo.lines) != 0 {
		t.Errorf("%d orphan lines remain", len(f.billRepo.lines))
	}

	if err := f.service.DeleteBill(context.Background(), uuid.New().String()); err == nil {
		t.Error("expected error for unknown bill")
	}
}

func TestDeleteAllBills(t *testing.T) {
	f := newBillFixture()
	f.createBill(t)
	f.createBill(t)

	if err := f.service.DeleteAllBills(context.Background()); err != nil {
		t.Fatalf("DeleteAllBills: %v", err)
	}
	if len(f.billRepo.bills) != 0 || len(f.billRepo.lines) != 0 {
		t.Errorf("wipe left %d bills and %d lines", len(f.billRepo.bills), len(f.billRepo.lines))
	}
}

func TestResyncPrices(t *testing.T) {
	f := newBillFixture()
	billID := f.createBill(t)

	// Rate change after creation: lines keep the old snapshot until resync
	tea := f.tea
	tea.Rate = mustDec("12.00")
	if err := f.itemRepo.Update(context.Background(), &tea); err != nil {
		t.Fatal(err)
	}

	result, err := f.service.ResyncPrices(context.Background())
	if err != nil {
		t.Fatalf("ResyncPrices: %v", err)
	}
	if result.UpdatedLines != 1 || result.UpdatedBills != 1 {
		t.Errorf("result = %+v, want 1 line and 1 bill", result)
	}

	bill, _ := f.billRepo.FindByID(context.Background(), billID)
	for _, line := range bill.Items {
		if line.ItemID == f.tea.ID && !line.Price.Equal(mustDec("12.00")) {
			t.Errorf("tea line price = %s, want 12.00", line.Price)
		}
	}
	// 3*12 + 42 = 78; GST 18% of 36 = 6.48
	if !bill.Total.Equal(mustDec("78")) || !bill.GSTTotal.Equal(mustDec("6.48")) {
		t.Errorf("totals = %s/%s, want 78/6.48", bill.Total, bill.GSTTotal)
	}

	// Second run is a no-op
	again, err := f.service.ResyncPrices(context.Background())
	if err != nil {
		t.Fatalf("ResyncPrices again: %v", err)
	}
	if again.UpdatedLines != 0 || again.UpdatedBills != 0 {
		t.Errorf("second run = %+v, want no updates", again)
	}
}

func TestUpdateBillItemRefreshesTotals(t *testing.T) {
	f := newBillFixture()
	billID := f.createBill(t)

	var teaLineID uuid.UUID
	bill, _ := f.billRepo.FindByID(context.Background(), billID)
	for _, line := range bill.Items {
		if line.ItemID == f.tea.ID {
			teaLineID = line.ID
		}
	}

	qty := 5
	if err := f.service.UpdateBillItem(context.Background(), teaLineID.String(), UpdateBillItemRequest{Quantity: &qty}); err != nil {
		t.Fatalf("UpdateBillItem: %v", err)
	}

	bill, _ = f.billRepo.FindByID(context.Background(), billID)
	// 5*10.50 + 42 = 94.50; GST 18% of 52.50 = 9.45
	if !bill.Total.Equal(mustDec("94.50")) || !bill.GSTTotal.Equal(mustDec("9.45")) {
		t.Errorf("totals = %s/%s, want 94.50/9.45", bill.Total, bill.GSTTotal)
	}

	bad := 0
	if err := f.service.UpdateBillItem(context.Background(), teaLineID.String(), UpdateBillItemRequest{Quantity: &bad}); err == nil {
		t.Error("expected error for zero quantity")
	}
	if err := f.service.UpdateBillItem(context.Background(), teaLineID.String(), UpdateBillItemRequest{}); err == nil {
		t.Error("expected error for missing quantity")
	}
}

func TestDeleteBillItemRefreshesTotals(t *testing.T) {
	f := newBillFixture()
	billID := f.createBill(t)

	var teaLineID uuid.UUID
	bill, _ := f.billRepo.FindByID(context.Background(), billID)
	for _, line := range bill.Items {
		if line.ItemID == f.tea.ID {
			teaLineID = line.ID
		}
	}

	if err := f.service.DeleteBillItem(context.Background(), teaLineID.String()); err != nil {
		t.Fatalf("DeleteBillItem: %v", err)
	}

	bill, _ = f.billRepo.FindByID(context.Background(), billID)
	if len(bill.Items) != 1 {
		t.Fatalf("got %d lines, want 1", len(bill.Items))
	}
	if !bill.Total.Equal(mustDec("42")) || !bill.GSTTotal.IsZero() {
		t.Errorf("totals = %s/%s, want 42/0", bill.Total, bill.GSTTotal)
	}
}

func TestGetBillsPagination(t *testing.T) {
	f := newBillFixture()
	for i := 0; i < 3; i++ {
		f.createBill(t)
	}

	page := pagination.Params{Page: 1, Limit: 2, Offset: 0}
	bills, total, err := f.service.GetBills(context.Background(), "", "en", page)
	if err != nil {
		t.Fatalf("GetBills: %v", err)
	}
	if len(bills) != 2 {
		t.Errorf("got %d bills on first page, want 2", len(bills))
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	last := pagination.Params{Page: 2, Limit: 2, Offset: 2}
	bills, total, err = f.service.GetBills(context.Background(), "", "en", last)
	if err != nil {
		t.Fatalf("GetBills: %v", err)
	}
	if len(bills) != 1 || total != 3 {
		t.Errorf("last page = %d bills, total %d; want 1 and 3", len(bills), total)
	}
}

// Bills can span dates; the filter only narrows by vendor.
func TestGetBillsVendorFilter(t *testing.T) {
	f := newBillFixture()
	f.createBill(t)

	other := &model.Vendor{ID: uuid.New(), Name: "Shah Traders", RouteID: uuid.New()}
	if err := f.billRepo.Create(context.Background(), &model.Bill{VendorID: other.ID, Date: time.Now()}); err != nil {
		t.Fatal(err)
	}

	bills, _, err := f.service.GetBills(context.Background(), f.vendor.ID.String(), "en", firstPage)
	if err != nil {
		t.Fatalf("GetBills: %v", err)
	}
	if len(bills) != 1 {
		t.Errorf("got %d bills for vendor filter, want 1", len(bills))
	}

	if _, _, err := f.service.GetBills(context.Background(), "nonsense", "en", firstPage); err == nil {
		t.Error("expected error for malformed vendor filter")
	}
}
