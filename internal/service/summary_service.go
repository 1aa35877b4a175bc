package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"billing/internal/model"
	"billing/internal/pricing"
	"billing/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	decimalZero    = decimal.Zero
	decimalHundred = decimal.NewFromInt(100)
)

// Business letterhead printed on invoices and summary exports.
type businessHeader struct {
	Name     string
	Address  string
	Address2 string
	GSTIN    string
	Contact  string
}

var businessEn = businessHeader{
	Name:     "JAISWAL SALES",
	Address:  "APMC MARKET, NEAR BUS STOP, AT PO. TEJGADH, TA. DIST. CHHOTAUDEPUR",
	Address2: "Bank: State Bank Of India Tejgadh, A/C No: 36107439043, IFSC: SBIN0003845",
	GSTIN:    "GSTN NO: 24AAMFJ3444PIZW | PAN: AAMFJ3444P",
	Contact:  "Mo. 8401772172",
}

var businessGu = businessHeader{
	Name:     "જયસ્વાલ સેલ્સ",
	Address:  "ખેડૂત પેટ્રોલ પંપની પાસે, હાઇવે રોડ, મોડાસા-૩૮૩૩૧૫",
	Address2: "જી. અરવલ્લી",
	GSTIN:    "જીએસટીએન: 24CVZPS7118B1Z4",
	Contact:  "મો. ૯૯૨૪૫૮૭૩૫૩",
}

// label returns the bilingual column/row label for the given language.
func label(lang, en, gu string) string {
	if lang == "gu" {
		return gu
	}
	return en
}

// --- DTOs ---

type ItemSummaryRow struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Subtotal      string `json:"subtotal"`
	GSTPercentage string `json:"gst_percentage"`
	GSTAmount     string `json:"gst_amount"`
	TotalWithGST  string `json:"total_with_gst"`
}

type SummaryResponse struct {
	Bills         []BillResponse   `json:"bills"`
	ItemWise      []ItemSummaryRow `json:"item_wise"`
	GrandSubtotal string           `json:"grand_subtotal"`
	GrandGST      string           `json:"grand_gst"`
	GrandTotal    string           `json:"grand_total"`
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// --- Interface ---

type SummaryService interface {
	GetSummary(ctx context.Context, lang string) (SummaryResponse, error)
	ExportSummary(ctx context.Context, lang, format string) (ExportFile, error)
	ExportInvoice(ctx context.Context, billID, lang string) (ExportFile, error)
}

type summaryService struct {
	billRepo repository.BillRepository
	itemRepo repository.ItemRepository
}

func NewSummaryService(billRepo repository.BillRepository, itemRepo repository.ItemRepository) SummaryService {
	return &summaryService{billRepo: billRepo, itemRepo: itemRepo}
}

// --- Implementation ---

func (s *summaryService) GetSummary(ctx context.Context, lang string) (SummaryResponse, error) {
	bills, catalog, err := s.load(ctx)
	if err != nil {
		return SummaryResponse{}, err
	}
	return buildSummary(bills, catalog, lang), nil
}

func (s *summaryService) load(ctx context.Context) ([]model.Bill, pricing.Catalog, error) {
	bills, err := s.billRepo.FindAll(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch bills: %w", err)
	}
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	return bills, pricing.NewCatalog(items), nil
}

func buildSummary(bills []model.Bill, catalog pricing.Catalog, lang string) SummaryResponse {
	resp := SummaryResponse{Bills: make([]BillResponse, 0, len(bills))}

	grand := pricing.BillTotals{}
	var allLines []model.BillItem
	for _, bill := range bills {
		resp.Bills = append(resp.Bills, toBillResponse(bill, catalog, lang))
		_, totals := pricing.BillFigures(bill.Items, catalog, lang)
		grand = grand.Add(totals)
		allLines = append(allLines, bill.Items...)
	}

	// GST columns on item-wise rows come from the catalog entry matching
	// the display name; the subtotal itself is the stored line prices.
	nameToItem := make(map[string]model.Item, len(catalog))
	for _, item := range catalog {
		nameToItem[item.DisplayName(lang)] = item
	}

	for _, row := range pricing.ItemWiseSummary(allLines, catalog, lang) {
		out := ItemSummaryRow{
			Name:     row.Name,
			Quantity: row.Quantity,
			Subtotal: pricing.Format(row.Subtotal),
		}
		if item, ok := nameToItem[row.Name]; ok {
			gst := item.EffectiveGST()
			gstAmount := row.Subtotal.Mul(gst).Div(decimalHundred)
			out.GSTPercentage = gst.String()
			out.GSTAmount = pricing.Format(gstAmount)
			out.TotalWithGST = pricing.Format(row.Subtotal.Add(gstAmount))
		} else {
			out.GSTPercentage = "0"
			out.GSTAmount = pricing.Format(decimalZero)
			out.TotalWithGST = pricing.Format(row.Subtotal)
		}
		resp.ItemWise = append(resp.ItemWise, out)
	}

	resp.GrandSubtotal = pricing.Format(grand.Subtotal)
	resp.GrandGST = pricing.Format(grand.GSTAmount)
	resp.GrandTotal = pricing.Format(grand.TotalWithGST)
	return resp
}

func (s *summaryService) ExportSummary(ctx context.Context, lang, format string) (ExportFile, error) {
	bills, catalog, err := s.load(ctx)
	if err != nil {
		return ExportFile{}, err
	}
	summary := buildSummary(bills, catalog, lang)

	switch format {
	case "csv":
		return renderSummaryCSV(summary, lang)
	case "", "xlsx":
		return renderSummaryXLSX(summary, lang)
	default:
		return ExportFile{}, fmt.Errorf("unsupported format %q (expected xlsx or csv)", format)
	}
}

func renderSummaryCSV(summary SummaryResponse, lang string) (ExportFile, error) {
	var buf bytes.Buffer
	// UTF-8 BOM so spreadsheet tools detect Gujarati text correctly
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	_ = w.Write([]string{
		label(lang, "Item", "વસ્તુ"),
		label(lang, "Total Quantity", "કુલ જથ્થો"),
		label(lang, "Without GST", "GST વગર"),
		label(lang, "GST %", "GST %"),
		label(lang, "GST Amount", "GST રકમ"),
		label(lang, "With GST", "GST સાથે"),
	})
	for _, row := range summary.ItemWise {
		_ = w.Write([]string{
			row.Name,
			fmt.Sprintf("%d", row.Quantity),
			row.Subtotal,
			row.GSTPercentage,
			row.GSTAmount,
			row.TotalWithGST,
		})
	}
	_ = w.Write([]string{
		label(lang, "Total", "કુલ"), "",
		summary.GrandSubtotal, "", summary.GrandGST, summary.GrandTotal,
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return ExportFile{}, fmt.Errorf("failed to write csv: %w", err)
	}

	return ExportFile{
		Filename:    fmt.Sprintf("summary_%s.csv", lang),
		ContentType: "text/csv; charset=utf-8",
		Content:     buf.Bytes(),
	}, nil
}

func renderSummaryXLSX(summary SummaryResponse, lang string) (ExportFile, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	writeLetterhead(f, sheet, lang, 1)

	row := 7
	setRow(f, sheet, row, label(lang, "Overall Summary", "એકંદરે સારાંશ"))
	row += 2

	setRow(f, sheet, row,
		label(lang, "Item", "વસ્તુ"),
		label(lang, "Total Quantity", "કુલ જથ્થો"),
		label(lang, "Without GST", "GST વગર"),
		label(lang, "GST %", "GST %"),
		label(lang, "GST Amount", "GST રકમ"),
		label(lang, "With GST", "GST સાથે"),
	)
	row++
	for _, item := range summary.ItemWise {
		setRow(f, sheet, row, item.Name, item.Quantity, item.Subtotal, item.GSTPercentage, item.GSTAmount, item.TotalWithGST)
		row++
	}
	setRow(f, sheet, row, label(lang, "Total", "કુલ"), "", summary.GrandSubtotal, "", summary.GrandGST, summary.GrandTotal)
	row += 2

	// Per-bill section
	setRow(f, sheet, row, label(lang, "Bills", "બિલ્સ"))
	row += 2
	setRow(f, sheet, row,
		label(lang, "Vendor", "વિક્રેતા"),
		label(lang, "Date", "તારીખ"),
		label(lang, "Without GST", "GST વગર"),
		label(lang, "GST Amount", "GST રકમ"),
		label(lang, "With GST", "GST સાથે"),
	)
	row++
	for _, bill := range summary.Bills {
		setRow(f, sheet, row, bill.VendorName, bill.Date, bill.Subtotal, bill.GSTAmount, bill.Total)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return ExportFile{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return ExportFile{
		Filename:    fmt.Sprintf("summary_%s.xlsx", lang),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

// ExportInvoice renders a single printable invoice workbook with the
// business letterhead, the vendor block and the full GST breakdown.
func (s *summaryService) ExportInvoice(ctx context.Context, billID, lang string) (ExportFile, error) {
	id, err := uuid.Parse(billID)
	if err != nil {
		return ExportFile{}, fmt.Errorf("invalid bill ID")
	}

	bill, err := s.billRepo.FindByID(ctx, id)
	if err != nil {
		return ExportFile{}, fmt.Errorf("bill not found: %w", err)
	}
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return ExportFile{}, fmt.Errorf("failed to fetch items: %w", err)
	}
	catalog := pricing.NewCatalog(items)
	figures, totals := pricing.BillFigures(bill.Items, catalog, lang)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	writeLetterhead(f, sheet, lang, 1)

	vendorName, vendorAddress, vendorContact := "", "", ""
	if bill.Vendor != nil {
		vendorName = bill.Vendor.Name
		vendorAddress = bill.Vendor.Address
		vendorContact = bill.Vendor.Contact
	}

	row := 7
	setRow(f, sheet, row, label(lang, "Vendor Name", "વેન્ડરનું નામ"), vendorName)
	row++
	setRow(f, sheet, row, label(lang, "Address", "સરનામું"), vendorAddress)
	row++
	setRow(f, sheet, row, label(lang, "Contact", "સંપર્ક"), vendorContact)
	row++
	setRow(f, sheet, row, label(lang, "Bill Date", "બિલની તારીખ"), bill.Date.Format(dateLayout))
	row += 2

	setRow(f, sheet, row,
		label(lang, "Item", "વસ્તુ"),
		label(lang, "Quantity", "જથ્થો"),
		label(lang, "Rate", "ભાવ"),
		label(lang, "GST %", "GST %"),
		label(lang, "GST Amount", "GST રકમ"),
		label(lang, "Without GST", "GST વગર"),
		label(lang, "With GST", "GST સાથે"),
	)
	row++
	for _, fig := range figures {
		setRow(f, sheet, row,
			fig.Name,
			fig.Quantity,
			pricing.Format(fig.Price),
			fig.GSTPercentage.String()+"%",
			pricing.Format(fig.GSTAmount),
			pricing.Format(fig.Subtotal),
			pricing.Format(fig.TotalWithGST),
		)
		row++
	}
	setRow(f, sheet, row, label(lang, "Total", "કુલ"), "", "", "",
		pricing.Format(totals.GSTAmount),
		pricing.Format(totals.Subtotal),
		pricing.Format(totals.TotalWithGST),
	)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return ExportFile{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return ExportFile{
		Filename:    fmt.Sprintf("bill_%s_%s_%s.xlsx", vendorName, bill.Date.Format(dateLayout), lang),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

// --- workbook helpers ---

func writeLetterhead(f *excelize.File, sheet, lang string, startRow int) {
	business := businessEn
	if lang == "gu" {
		business = businessGu
	}
	setRow(f, sheet, startRow, business.Name)
	setRow(f, sheet, startRow+1, business.Address)
	setRow(f, sheet, startRow+2, business.Address2)
	setRow(f, sheet, startRow+3, business.GSTIN)
	setRow(f, sheet, startRow+4, business.Contact)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return
	}
	_ = f.SetSheetRow(sheet, cell, &values)
}
