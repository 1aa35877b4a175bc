package service

import (
	"context"
	"fmt"
	"time"

	"billing/internal/model"
	"billing/internal/pricing"
	"billing/internal/repository"
	"billing/internal/websocket"
	"billing/pkg/pagination"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// BillNotifier pushes bill lifecycle events to connected clients.
// Satisfied by *websocket.Hub.
type BillNotifier interface {
	NotifyBill(eventType, billID string)
}

// --- DTOs ---

type BillLinePayload struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type CreateBillRequest struct {
	VendorID string            `json:"vendor_id" binding:"required"`
	Date     string            `json:"date" binding:"required"` // YYYY-MM-DD
	Items    []BillLinePayload `json:"items" binding:"required"`
}

type UpdateBillItemRequest struct {
	Quantity *int `json:"quantity"`
}

type BillLineResponse struct {
	ID            string `json:"id"`
	ItemID        string `json:"item_id"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Price         string `json:"price"`
	GSTPercentage string `json:"gst_percentage"`
	Subtotal      string `json:"subtotal"`
	GSTAmount     string `json:"gst_amount"`
	TotalWithGST  string `json:"total_with_gst"`
}

type BillResponse struct {
	ID         string             `json:"id"`
	VendorID   string             `json:"vendor_id"`
	VendorName string             `json:"vendor_name"`
	Date       string             `json:"date"`
	Items      []BillLineResponse `json:"items"`
	Subtotal   string             `json:"subtotal"`
	GSTAmount  string             `json:"gst_amount"`
	Total      string             `json:"total"`
}

type ResyncResult struct {
	UpdatedLines int `json:"updated_lines"`
	UpdatedBills int `json:"updated_bills"`
}

// --- Interface ---

type BillService interface {
	CreateBill(ctx context.Context, req CreateBillRequest) (string, error)
	GetBills(ctx context.Context, vendorID, lang string, page pagination.Params) ([]BillResponse, int64, error)
	DeleteBill(ctx context.Context, id string) error
	DeleteAllBills(ctx context.Context) error
	ResyncPrices(ctx context.Context) (ResyncResult, error)
	GetBillItems(ctx context.Context, billID, lang string) ([]BillLineResponse, error)
	UpdateBillItem(ctx context.Context, id string, req UpdateBillItemRequest) error
	DeleteBillItem(ctx context.Context, id string) error
}

type billService struct {
	billRepo   repository.BillRepository
	itemRepo   repository.ItemRepository
	vendorRepo repository.VendorRepository
	txManager  repository.TransactionManager
	notifier   BillNotifier
}

func NewBillService(
	billRepo repository.BillRepository,
	itemRepo repository.ItemRepository,
	vendorRepo repository.VendorRepository,
	txManager repository.TransactionManager,
	notifier BillNotifier,
) BillService {
	return &billService{
		billRepo:   billRepo,
		itemRepo:   itemRepo,
		vendorRepo: vendorRepo,
		txManager:  txManager,
		notifier:   notifier,
	}
}

// --- Implementation ---

// CreateBill inserts the bill header and all its lines as one transaction.
// Each line's price is snapshotted from the item's current rate at this
// moment; later rate changes do not alter the stored lines.
func (s *billService) CreateBill(ctx context.Context, req CreateBillRequest) (string, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return "", fmt.Errorf("invalid vendor_id: %w", err)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return "", fmt.Errorf("invalid date (expected YYYY-MM-DD): %w", err)
	}
	if len(req.Items) == 0 {
		return "", fmt.Errorf("a bill needs at least one item")
	}

	itemIDs := make([]uuid.UUID, 0, len(req.Items))
	for i, line := range req.Items {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			return "", fmt.Errorf("items[%d]: invalid item_id", i)
		}
		if line.Quantity <= 0 {
			return "", fmt.Errorf("items[%d]: quantity must be a positive integer", i)
		}
		itemIDs = append(itemIDs, itemID)
	}

	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return "", fmt.Errorf("vendor not found: %w", err)
	}

	var billID uuid.UUID
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		items, err := s.itemRepo.FindByIDs(txCtx, itemIDs)
		if err != nil {
			return fmt.Errorf("failed to load items: %w", err)
		}
		catalog := pricing.NewCatalog(items)
		for i, id := range itemIDs {
			if _, ok := catalog[id]; !ok {
				return fmt.Errorf("items[%d]: item not found", i)
			}
		}

		lines := make([]model.BillItem, 0, len(req.Items))
		for i, payload := range req.Items {
			item := catalog[itemIDs[i]]
			lines = append(lines, model.BillItem{
				ItemID:   item.ID,
				Quantity: payload.Quantity,
				Price:    item.Rate,
			})
		}

		_, totals := pricing.BillFigures(lines, catalog, "en")
		bill := model.Bill{
			VendorID: vendorID,
			Date:     date,
			Total:    totals.Subtotal,
			GSTTotal: totals.GSTAmount,
		}
		if err := s.billRepo.Create(txCtx, &bill); err != nil {
			return fmt.Errorf("failed to create bill: %w", err)
		}

		for i := range lines {
			lines[i].BillID = bill.ID
		}
		if err := s.billRepo.CreateItems(txCtx, lines); err != nil {
			return fmt.Errorf("failed to create bill items: %w", err)
		}

		billID = bill.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	s.notifier.NotifyBill(websocket.EventBillCreated, billID.String())
	return billID.String(), nil
}

func (s *billService) GetBills(ctx context.Context, vendorID, lang string, page pagination.Params) ([]BillResponse, int64, error) {
	var filter *uuid.UUID
	if vendorID != "" {
		parsed, err := uuid.Parse(vendorID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid vendor_id filter")
		}
		filter = &parsed
	}

	bills, total, err := s.billRepo.FindPage(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bills: %w", err)
	}
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}
	catalog := pricing.NewCatalog(items)

	responses := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		responses = append(responses, toBillResponse(bill, catalog, lang))
	}
	return responses, total, nil
}

// DeleteBill removes the bill's lines and then the bill itself inside one
// transaction, so a failure can never leave orphan lines or a half-deleted
// bill behind.
func (s *billService) DeleteBill(ctx context.Context, id string) error {
	billID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid bill ID")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.billRepo.FindByID(txCtx, billID); err != nil {
			return fmt.Errorf("bill not found: %w", err)
		}
		if err := s.billRepo.DeleteItemsByBillID(txCtx, billID); err != nil {
			return fmt.Errorf("failed to delete bill items: %w", err)
		}
		if err := s.billRepo.Delete(txCtx, billID); err != nil {
			return fmt.Errorf("failed to delete bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyBill(websocket.EventBillDeleted, id)
	return nil
}

// DeleteAllBills wipes both bill tables, lines first. The handler demands
// an explicit confirmation token before calling this.
func (s *billService) DeleteAllBills(ctx context.Context) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.billRepo.DeleteAllItems(txCtx); err != nil {
			return fmt.Errorf("failed to delete all bill items: %w", err)
		}
		if err := s.billRepo.DeleteAll(txCtx); err != nil {
			return fmt.Errorf("failed to delete all bills: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyBill(websocket.EventBillsWiped, "")
	return nil
}

// ResyncPrices rewrites every line whose snapshotted price differs from its
// item's current rate, then refreshes the cached totals of the touched
// bills. This is the one sanctioned way to alter price history.
func (s *billService) ResyncPrices(ctx context.Context) (ResyncResult, error) {
	var result ResyncResult

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		items, err := s.itemRepo.FindAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch items: %w", err)
		}
		catalog := pricing.NewCatalog(items)

		lines, err := s.billRepo.FindAllItems(txCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch bill items: %w", err)
		}

		touched := make(map[uuid.UUID]bool)
		for i := range lines {
			item, ok := catalog[lines[i].ItemID]
			if !ok {
				continue // orphan line, leave as-is
			}
			if lines[i].Price.Equal(item.Rate) {
				continue
			}
			lines[i].Price = item.Rate
			if err := s.billRepo.UpdateItem(txCtx, &lines[i]); err != nil {
				return fmt.Errorf("failed to update bill item %s: %w", lines[i].ID, err)
			}
			result.UpdatedLines++
			touched[lines[i].BillID] = true
		}

		for billID := range touched {
			if err := s.refreshBillTotals(txCtx, billID, catalog); err != nil {
				return err
			}
			result.UpdatedBills++
		}
		return nil
	})
	if err != nil {
		return ResyncResult{}, err
	}
	return result, nil
}

// GetBillItems returns one bill's lines with their computed figures.
func (s *billService) GetBillItems(ctx context.Context, billID, lang string) ([]BillLineResponse, error) {
	id, err := uuid.Parse(billID)
	if err != nil {
		return nil, fmt.Errorf("invalid bill ID")
	}

	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bill not found: %w", err)
	}
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}

	return toBillResponse(*bill, pricing.NewCatalog(items), lang).Items, nil
}

func (s *billService) UpdateBillItem(ctx context.Context, id string, req UpdateBillItemRequest) error {
	lineID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid bill item ID")
	}
	if req.Quantity == nil {
		return fmt.Errorf("quantity is required")
	}
	if *req.Quantity <= 0 {
		return fmt.Errorf("quantity must be a positive integer")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, err := s.billRepo.FindItemByID(txCtx, lineID)
		if err != nil {
			return fmt.Errorf("bill item not found: %w", err)
		}
		line.Quantity = *req.Quantity
		if err := s.billRepo.UpdateItem(txCtx, line); err != nil {
			return fmt.Errorf("failed to update bill item: %w", err)
		}

		items, err := s.itemRepo.FindAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch items: %w", err)
		}
		return s.refreshBillTotals(txCtx, line.BillID, pricing.NewCatalog(items))
	})
}

func (s *billService) DeleteBillItem(ctx context.Context, id string) error {
	lineID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid bill item ID")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, err := s.billRepo.FindItemByID(txCtx, lineID)
		if err != nil {
			return fmt.Errorf("bill item not found: %w", err)
		}
		if err := s.billRepo.DeleteItem(txCtx, lineID); err != nil {
			return fmt.Errorf("failed to delete bill item: %w", err)
		}

		items, err := s.itemRepo.FindAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch items: %w", err)
		}
		return s.refreshBillTotals(txCtx, line.BillID, pricing.NewCatalog(items))
	})
}

// refreshBillTotals recomputes a bill's cached totals from its current
// lines. Cached figures stay re-derivable at all times.
func (s *billService) refreshBillTotals(ctx context.Context, billID uuid.UUID, catalog pricing.Catalog) error {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return fmt.Errorf("failed to reload bill: %w", err)
	}
	_, totals := pricing.BillFigures(bill.Items, catalog, "en")
	bill.Total = totals.Subtotal
	bill.GSTTotal = totals.GSTAmount
	if err := s.billRepo.Update(ctx, bill); err != nil {
		return fmt.Errorf("failed to update bill totals: %w", err)
	}
	return nil
}

// --- Mapping ---

func toBillResponse(bill model.Bill, catalog pricing.Catalog, lang string) BillResponse {
	figures, totals := pricing.BillFigures(bill.Items, catalog, lang)

	lines := make([]BillLineResponse, 0, len(figures))
	for i, f := range figures {
		lines = append(lines, BillLineResponse{
			ID:            bill.Items[i].ID.String(),
			ItemID:        f.ItemID.String(),
			Name:          f.Name,
			Quantity:      f.Quantity,
			Price:         pricing.Format(f.Price),
			GSTPercentage: f.GSTPercentage.String(),
			Subtotal:      pricing.Format(f.Subtotal),
			GSTAmount:     pricing.Format(f.GSTAmount),
			TotalWithGST:  pricing.Format(f.TotalWithGST),
		})
	}

	resp := BillResponse{
		ID:        bill.ID.String(),
		VendorID:  bill.VendorID.String(),
		Date:      bill.Date.Format(dateLayout),
		Items:     lines,
		Subtotal:  pricing.Format(totals.Subtotal),
		GSTAmount: pricing.Format(totals.GSTAmount),
		Total:     pricing.Format(totals.TotalWithGST),
	}
	if bill.Vendor != nil {
		resp.VendorName = bill.Vendor.Name
	}
	return resp
}
