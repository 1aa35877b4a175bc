package repository

import (
	"context"

	"billing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	CreateBatch(ctx context.Context, vendors []model.Vendor) error
	Update(ctx context.Context, vendor *model.Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	FindAll(ctx context.Context, routeID *uuid.UUID) ([]model.Vendor, error)
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Create(vendor).Error
}

func (r *vendorRepository) CreateBatch(ctx context.Context, vendors []model.Vendor) error {
	if len(vendors) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&vendors).Error
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Save(vendor).Error
}

func (r *vendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Vendor{}).Error
}

func (r *vendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	if err := GetDB(ctx, r.db).Preload("Route").First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepository) FindAll(ctx context.Context, routeID *uuid.UUID) ([]model.Vendor, error) {
	var vendors []model.Vendor
	query := GetDB(ctx, r.db).Preload("Route")
	if routeID != nil {
		query = query.Where("route_id = ?", *routeID)
	}
	if err := query.Order("name ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}
