package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bill is an invoice for one vendor on one date, created atomically with its lines.
// Total and GSTTotal are cached for listing; they are always re-derivable from the lines.
type Bill struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VendorID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor    *Vendor         `gorm:"foreignKey:VendorID;constraint:OnDelete:RESTRICT" json:"vendor,omitempty"`
	Date      time.Time       `gorm:"type:date;not null;index" json:"date"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total"`
	GSTTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"gst_total"`
	Items     []BillItem      `gorm:"foreignKey:BillID" json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BillItem is one item-quantity-price entry within a bill.
// Price is a snapshot of the item's rate at line creation and is never
// rewritten by later catalog changes; only the explicit price resync
// operation may touch it.
type BillItem struct {
	ID       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BillID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"bill_id"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item     *Item           `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity int             `gorm:"type:int;not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
}
