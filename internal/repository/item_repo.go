package repository

import (
	"context"

	"billing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	CreateBatch(ctx context.Context, items []model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error)
	FindAll(ctx context.Context) ([]model.Item, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) CreateBatch(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Item{}).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	if len(ids) == 0 {
		return items, nil
	}
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) FindAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := GetDB(ctx, r.db).Order("name_en ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
