package repository

import (
	"context"

	"billing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillRepository interface {
	Create(ctx context.Context, bill *model.Bill) error
	CreateItems(ctx context.Context, items []model.BillItem) error
	Update(ctx context.Context, bill *model.Bill) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Bill, error)
	FindAll(ctx context.Context, vendorID *uuid.UUID) ([]model.Bill, error)
	FindPage(ctx context.Context, vendorID *uuid.UUID, limit, offset int) ([]model.Bill, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteItemsByBillID(ctx context.Context, billID uuid.UUID) error
	DeleteAll(ctx context.Context) error
	DeleteAllItems(ctx context.Context) error

	FindItemByID(ctx context.Context, id uuid.UUID) (*model.BillItem, error)
	FindAllItems(ctx context.Context) ([]model.BillItem, error)
	UpdateItem(ctx context.Context, item *model.BillItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type billRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	return GetDB(ctx, r.db).Create(bill).Error
}

func (r *billRepository) CreateItems(ctx context.Context, items []model.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *billRepository) Update(ctx context.Context, bill *model.Bill) error {
	return GetDB(ctx, r.db).Save(bill).Error
}

func (r *billRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	var bill model.Bill
	if err := GetDB(ctx, r.db).Preload("Items").Preload("Vendor").First(&bill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) FindAll(ctx context.Context, vendorID *uuid.UUID) ([]model.Bill, error) {
	var bills []model.Bill
	query := GetDB(ctx, r.db).Preload("Items").Preload("Vendor")
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}
	if err := query.Order("date DESC, created_at DESC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// FindPage returns one page of bills plus the unpaged total for the filter.
func (r *billRepository) FindPage(ctx context.Context, vendorID *uuid.UUID, limit, offset int) ([]model.Bill, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Bill{})
	if vendorID != nil {
		query = query.Where("vendor_id = ?", *vendorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bills []model.Bill
	if err := query.Preload("Items").Preload("Vendor").
		Order("date DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bills).Error; err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Bill{}).Error
}

func (r *billRepository) DeleteItemsByBillID(ctx context.Context, billID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("bill_id = ?", billID).Delete(&model.BillItem{}).Error
}

// DeleteAll wipes the bills table. Lines must be removed first; callers run
// both deletes inside one transaction.
func (r *billRepository) DeleteAll(ctx context.Context) error {
	return GetDB(ctx, r.db).Where("1 = 1").Delete(&model.Bill{}).Error
}

func (r *billRepository) DeleteAllItems(ctx context.Context) error {
	return GetDB(ctx, r.db).Where("1 = 1").Delete(&model.BillItem{}).Error
}

func (r *billRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.BillItem, error) {
	var item model.BillItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *billRepository) FindAllItems(ctx context.Context) ([]model.BillItem, error) {
	var items []model.BillItem
	if err := GetDB(ctx, r.db).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *billRepository) UpdateItem(ctx context.Context, item *model.BillItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *billRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BillItem{}).Error
}
