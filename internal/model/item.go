package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog product with an English and a Gujarati name.
// Rate is the current unit price; GSTPercentage only applies when HasGST is set.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NameEn        string          `gorm:"type:varchar(255);not null;index" json:"name_en"`
	NameGu        string          `gorm:"type:varchar(255);not null" json:"name_gu"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"rate"`
	HasGST        bool            `gorm:"not null;default:false" json:"has_gst"`
	GSTPercentage decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"gst_percentage"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DisplayName returns the catalog name in the requested language ("en" or "gu").
func (i Item) DisplayName(lang string) string {
	if lang == "gu" {
		return i.NameGu
	}
	return i.NameEn
}

// EffectiveGST returns the GST percentage to apply, 0 when the item has no GST.
func (i Item) EffectiveGST() decimal.Decimal {
	if !i.HasGST {
		return decimal.Zero
	}
	return i.GSTPercentage
}
