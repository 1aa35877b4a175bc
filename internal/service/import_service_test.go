package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"billing/internal/model"

	"github.com/google/uuid"
)

type fakeRouteRepo struct {
	routes    map[uuid.UUID]*model.Route
	order     []uuid.UUID
	deleteErr error
}

func newFakeRouteRepo() *fakeRouteRepo {
	return &fakeRouteRepo{routes: make(map[uuid.UUID]*model.Route)}
}

func (r *fakeRouteRepo) Create(ctx context.Context, route *model.Route) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	r.routes[route.ID] = route
	r.order = append(r.order, route.ID)
	return nil
}

func (r *fakeRouteRepo) CreateBatch(ctx context.Context, routes []model.Route) error {
	for i := range routes {
		clone := routes[i]
		if err := r.Create(ctx, &clone); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRouteRepo) Update(ctx context.Context, route *model.Route) error { return nil }

func (r *fakeRouteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.routes, id)
	return nil
}

func (r *fakeRouteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Route, error) {
	route, ok := r.routes[id]
	if !ok {
		return nil, context.Canceled
	}
	return route, nil
}

// FindAll preserves insertion order the way the real repository orders by
// creation time, which the name resolver's last-wins rule depends on.
func (r *fakeRouteRepo) FindAll(ctx context.Context) ([]model.Route, error) {
	out := make([]model.Route, 0, len(r.order))
	for _, id := range r.order {
		if route, ok := r.routes[id]; ok {
			out = append(out, *route)
		}
	}
	return out, nil
}

type importFixture struct {
	service    ImportService
	routeRepo  *fakeRouteRepo
	vendorRepo *fakeVendorRepo
	itemRepo   *fakeItemRepo
	billRepo   *fakeBillRepo
}

func newImportFixture() *importFixture {
	routeRepo := newFakeRouteRepo()
	vendorRepo := newFakeVendorRepo()
	itemRepo := newFakeItemRepo()
	billRepo := newFakeBillRepo()
	return &importFixture{
		service:    NewImportService(routeRepo, vendorRepo, itemRepo, billRepo, fakeTxManager{}),
		routeRepo:  routeRepo,
		vendorRepo: vendorRepo,
		itemRepo:   itemRepo,
		billRepo:   billRepo,
	}
}

// snapshotTxManager restores the bill table when the wrapped function
// fails, mimicking the rollback the real transaction manager provides.
type snapshotTxManager struct {
	billRepo *fakeBillRepo
}

func (m snapshotTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	saved := make(map[uuid.UUID]*model.Bill, len(m.billRepo.bills))
	for id, bill := range m.billRepo.bills {
		clone := *bill
		saved[id] = &clone
	}
	if err := fn(ctx); err != nil {
		m.billRepo.bills = saved
		return err
	}
	return nil
}

func files(pairs ...string) map[string]io.Reader {
	m := make(map[string]io.Reader)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = strings.NewReader(pairs[i+1])
	}
	return m
}

func resultFor(t *testing.T, results []TableResult, table string) TableResult {
	t.Helper()
	for _, r := range results {
		if r.Table == table {
			return r
		}
	}
	t.Fatalf("no result for table %q in %+v", table, results)
	return TableResult{}
}

func TestImportAllFullChain(t *testing.T) {
	f := newImportFixture()

	results := f.service.ImportAll(context.Background(), files(
		"routes", "name,description\nMain Street Route,morning\nStation Route,\n",
		"vendors", "name,route_name,contact,address\nPatel Stores,Main Street Route,98250,12 Main St\n",
		"items", "name_en,name_gu,rate,has_gst,gst_percentage\nMasala Tea,મસાલા ચા,10.50,true,18\nSugar,ખાંડ,42,,\n",
		"bills", "vendor_name,date\nPatel Stores,2025-04-01\n",
	))

	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for _, table := range []string{"routes", "vendors", "items", "bills"} {
		r := resultFor(t, results, table)
		if r.Error != "" {
			t.Errorf("%s: unexpected error %q", table, r.Error)
		}
		if len(r.Diagnostics) != 0 {
			t.Errorf("%s: unexpected diagnostics %+v", table, r.Diagnostics)
		}
	}
	if r := resultFor(t, results, "routes"); r.Imported != 2 {
		t.Errorf("routes imported = %d, want 2", r.Imported)
	}
	if r := resultFor(t, results, "bills"); r.Imported != 1 {
		t.Errorf("bills imported = %d, want 1", r.Imported)
	}

	// Vendors uploaded in the same batch resolved against the routes above
	vendors, _ := f.vendorRepo.FindAll(context.Background(), nil)
	if len(vendors) != 1 || vendors[0].RouteID == uuid.Nil {
		t.Errorf("vendors = %+v", vendors)
	}
}

func TestImportBillItemsSnapshotsPrices(t *testing.T) {
	f := newImportFixture()
	ctx := context.Background()

	tea := model.Item{ID: uuid.New(), NameEn: "Masala Tea", NameGu: "મસાલા ચા", Rate: mustDec("10.50"), HasGST: true, GSTPercentage: mustDec("18")}
	if err := f.itemRepo.Create(ctx, &tea); err != nil {
		t.Fatal(err)
	}
	bill := model.Bill{VendorID: uuid.New()}
	if err := f.billRepo.Create(ctx, &bill); err != nil {
		t.Fatal(err)
	}

	csv := "bill_id,item_name_en,quantity\n" +
		bill.ID.String() + ",Masala Tea,3\n" +
		uuid.NewString() + ",Masala Tea,1\n" +
		bill.ID.String() + ",Nothing Such,2\n"

	results := f.service.ImportAll(ctx, files("bill_items", csv))
	r := resultFor(t, results, "bill_items")

	if r.Error != "" {
		t.Fatalf("unexpected error %q", r.Error)
	}
	if r.Imported != 1 {
		t.Errorf("imported = %d, want 1", r.Imported)
	}
	if len(r.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %+v, want 2", r.Diagnostics)
	}
	reasons := map[string]bool{}
	for _, d := range r.Diagnostics {
		reasons[d.Reason] = true
	}
	if !reasons["no bill with this id"] || !reasons["no item with this name"] {
		t.Errorf("diagnostic reasons = %v", reasons)
	}

	stored, _ := f.billRepo.FindByID(ctx, bill.ID)
	if len(stored.Items) != 1 {
		t.Fatalf("stored lines = %d, want 1", len(stored.Items))
	}
	if !stored.Items[0].Price.Equal(mustDec("10.50")) {
		t.Errorf("line price = %s, want the catalog rate snapshot", stored.Items[0].Price)
	}
	// The owning bill's cached totals were refreshed from the new lines
	if !stored.Total.Equal(mustDec("31.50")) || !stored.GSTTotal.Equal(mustDec("5.67")) {
		t.Errorf("totals = %s/%s, want 31.50/5.67", stored.Total, stored.GSTTotal)
	}
}

func TestImportTableFailures(t *testing.T) {
	f := newImportFixture()

	tests := []struct {
		name  string
		table string
		csv   string
	}{
		{"empty file", "routes", ""},
		{"header only", "routes", "name,description\n"},
		{"all rows invalid", "routes", "name,description\n ,x\n,y\n"},
		{"vendors with no matching routes", "vendors", "name,route_name\nPatel Stores,Ghost Route\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := f.service.ImportAll(context.Background(), files(tt.table, tt.csv))
			r := resultFor(t, results, tt.table)
			if r.Error == "" {
				t.Errorf("result = %+v, want an error", r)
			}
			if r.Imported != 0 {
				t.Errorf("imported = %d, want 0", r.Imported)
			}
		})
	}
}

// A broken table in the middle of a batch must not stop later tables.
func TestImportBatchContinuesPastFailure(t *testing.T) {
	f := newImportFixture()

	results := f.service.ImportAll(context.Background(), files(
		"routes", "wrong_header\nvalue\n",
		"items", "name_en,name_gu,rate\nSugar,ખાંડ,42\n",
	))

	if r := resultFor(t, results, "routes"); r.Error == "" {
		t.Error("routes should have failed")
	}
	if r := resultFor(t, results, "items"); r.Error != "" || r.Imported != 1 {
		t.Errorf("items result = %+v, want one imported row", r)
	}
}

func TestImportBillsMidBatchFailureCommitsNothing(t *testing.T) {
	f := newImportFixture()
	f.service = NewImportService(f.routeRepo, f.vendorRepo, f.itemRepo, f.billRepo, snapshotTxManager{billRepo: f.billRepo})

	vendor := &model.Vendor{ID: uuid.New(), Name: "Patel Stores"}
	f.vendorRepo.vendors[vendor.ID] = vendor
	f.billRepo.failCreateOnCall = 2

	results := f.service.ImportAll(context.Background(), files(
		"bills", "vendor_name,date\nPatel Stores,2025-04-01\nPatel Stores,2025-04-02\n",
	))

	r := resultFor(t, results, "bills")
	if !strings.Contains(r.Error, "failed to insert bills") {
		t.Errorf("error = %q, want insert failure", r.Error)
	}
	if r.Imported != 0 {
		t.Errorf("imported = %d, want 0", r.Imported)
	}
	if len(f.billRepo.bills) != 0 {
		t.Errorf("%d bills stayed committed after a mid-batch failure, want 0", len(f.billRepo.bills))
	}
}

func TestImportSkipsAbsentTables(t *testing.T) {
	f := newImportFixture()
	results := f.service.ImportAll(context.Background(), files(
		"items", "name_en,name_gu,rate\nSugar,ખાંડ,42\n",
	))
	if len(results) != 1 || results[0].Table != "items" {
		t.Errorf("results = %+v, want only the items table", results)
	}
}
