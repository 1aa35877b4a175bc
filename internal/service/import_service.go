package service

import (
	"context"
	"fmt"
	"io"

	"billing/internal/importer"
	"billing/internal/model"
	"billing/internal/pricing"
	"billing/internal/repository"

	"github.com/google/uuid"
)

// Import table names, in processing order. Earlier tables feed the
// reference maps of later ones, so the order is fixed and sequential.
var ImportTables = []string{"routes", "vendors", "items", "bills", "bill_items"}

// TableResult reports the outcome of one table's import. A table with
// dropped rows still succeeds for the rows that resolved; a table whose
// rows were all dropped is a failure even though no error was raised
// row-by-row.
type TableResult struct {
	Table       string                `json:"table"`
	Imported    int                   `json:"imported"`
	Diagnostics []importer.Diagnostic `json:"diagnostics,omitempty"`
	Error       string                `json:"error,omitempty"`
}

type ImportService interface {
	// ImportAll processes the supplied files (keyed by table name) strictly
	// in ImportTables order, one table at a time. A failed table never
	// aborts the batch; its result carries the failure.
	ImportAll(ctx context.Context, files map[string]io.Reader) []TableResult
}

type importService struct {
	routeRepo  repository.RouteRepository
	vendorRepo repository.VendorRepository
	itemRepo   repository.ItemRepository
	billRepo   repository.BillRepository
	txManager  repository.TransactionManager
}

func NewImportService(
	routeRepo repository.RouteRepository,
	vendorRepo repository.VendorRepository,
	itemRepo repository.ItemRepository,
	billRepo repository.BillRepository,
	txManager repository.TransactionManager,
) ImportService {
	return &importService{
		routeRepo:  routeRepo,
		vendorRepo: vendorRepo,
		itemRepo:   itemRepo,
		billRepo:   billRepo,
		txManager:  txManager,
	}
}

func (s *importService) ImportAll(ctx context.Context, files map[string]io.Reader) []TableResult {
	var results []TableResult
	for _, table := range ImportTables {
		file, ok := files[table]
		if !ok {
			continue
		}
		results = append(results, s.importTable(ctx, table, file))
	}
	return results
}

func (s *importService) importTable(ctx context.Context, table string, file io.Reader) TableResult {
	result := TableResult{Table: table}

	rows, err := importer.ReadRows(file)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if len(rows) == 0 {
		result.Error = "file has no data rows"
		return result
	}

	switch table {
	case "routes":
		s.importRoutes(ctx, rows, &result)
	case "vendors":
		s.importVendors(ctx, rows, &result)
	case "items":
		s.importItems(ctx, rows, &result)
	case "bills":
		s.importBills(ctx, rows, &result)
	case "bill_items":
		s.importBillItems(ctx, rows, &result)
	}

	if result.Error == "" && result.Imported == 0 {
		result.Error = "no valid rows to import"
	}
	return result
}

func (s *importService) importRoutes(ctx context.Context, rows []importer.Row, result *TableResult) {
	records, diags := importer.ResolveRoutes(rows)
	result.Diagnostics = diags
	if len(records) == 0 {
		return
	}
	if err := s.routeRepo.CreateBatch(ctx, records); err != nil {
		result.Error = fmt.Sprintf("failed to insert routes: %v", err)
		return
	}
	result.Imported = len(records)
}

func (s *importService) importVendors(ctx context.Context, rows []importer.Row, result *TableResult) {
	routes, err := s.routeRepo.FindAll(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load routes for resolution: %v", err)
		return
	}
	refs := make([]importer.Ref, 0, len(routes))
	for _, r := range routes {
		refs = append(refs, importer.Ref{Name: r.Name, ID: r.ID})
	}

	records, diags := importer.ResolveVendors(rows, importer.BuildRefMap(refs))
	result.Diagnostics = diags
	if len(records) == 0 {
		return
	}
	if err := s.vendorRepo.CreateBatch(ctx, records); err != nil {
		result.Error = fmt.Sprintf("failed to insert vendors: %v", err)
		return
	}
	result.Imported = len(records)
}

func (s *importService) importItems(ctx context.Context, rows []importer.Row, result *TableResult) {
	records, diags := importer.ResolveItems(rows)
	result.Diagnostics = diags
	if len(records) == 0 {
		return
	}
	if err := s.itemRepo.CreateBatch(ctx, records); err != nil {
		result.Error = fmt.Sprintf("failed to insert items: %v", err)
		return
	}
	result.Imported = len(records)
}

func (s *importService) importBills(ctx context.Context, rows []importer.Row, result *TableResult) {
	vendors, err := s.vendorRepo.FindAll(ctx, nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load vendors for resolution: %v", err)
		return
	}
	refs := make([]importer.Ref, 0, len(vendors))
	for _, v := range vendors {
		refs = append(refs, importer.Ref{Name: v.Name, ID: v.ID})
	}

	records, diags := importer.ResolveBills(rows, importer.BuildRefMap(refs))
	result.Diagnostics = diags
	if len(records) == 0 {
		return
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for i := range records {
			if err := s.billRepo.Create(txCtx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to insert bills: %v", err)
		return
	}
	result.Imported = len(records)
}

// importBillItems resolves item names, drops lines pointing at unknown
// bills, snapshots each line's price from the item's current rate and
// inserts everything plus the touched bills' refreshed totals in one
// transaction.
func (s *importService) importBillItems(ctx context.Context, rows []importer.Row, result *TableResult) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load items for resolution: %v", err)
		return
	}
	refs := make([]importer.Ref, 0, len(items))
	for _, it := range items {
		refs = append(refs, importer.Ref{Name: it.NameEn, ID: it.ID})
	}
	catalog := pricing.NewCatalog(items)

	records, diags := importer.ResolveBillItems(rows, importer.BuildRefMap(refs))
	result.Diagnostics = diags
	if len(records) == 0 {
		return
	}

	bills, err := s.billRepo.FindAll(ctx, nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load bills: %v", err)
		return
	}
	knownBills := make(map[uuid.UUID]bool, len(bills))
	for _, b := range bills {
		knownBills[b.ID] = true
	}

	lines := make([]model.BillItem, 0, len(records))
	for _, rec := range records {
		if !knownBills[rec.Line.BillID] {
			result.Diagnostics = append(result.Diagnostics, importer.Diagnostic{
				Row: rec.Row, Field: "bill_id", Value: rec.Line.BillID.String(), Reason: "no bill with this id",
			})
			continue
		}
		rec.Line.Price = catalog[rec.Line.ItemID].Rate
		lines = append(lines, rec.Line)
	}
	if len(lines) == 0 {
		return
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.billRepo.CreateItems(txCtx, lines); err != nil {
			return err
		}
		touched := make(map[uuid.UUID]bool)
		for _, line := range lines {
			touched[line.BillID] = true
		}
		for billID := range touched {
			bill, err := s.billRepo.FindByID(txCtx, billID)
			if err != nil {
				return err
			}
			_, totals := pricing.BillFigures(bill.Items, catalog, "en")
			bill.Total = totals.Subtotal
			bill.GSTTotal = totals.GSTAmount
			if err := s.billRepo.Update(txCtx, bill); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to insert bill items: %v", err)
		return
	}
	result.Imported = len(lines)
}
