package service

import (
	"context"
	"fmt"
	"strings"

	"billing/internal/model"
	"billing/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

// Monetary fields travel as strings so they parse into exact decimals,
// never floats.
type CreateItemRequest struct {
	NameEn        string `json:"name_en" binding:"required"`
	NameGu        string `json:"name_gu" binding:"required"`
	Rate          string `json:"rate" binding:"required"`
	HasGST        bool   `json:"has_gst"`
	GSTPercentage string `json:"gst_percentage"`
}

type UpdateItemRequest struct {
	NameEn        *string `json:"name_en"`
	NameGu        *string `json:"name_gu"`
	Rate          *string `json:"rate"`
	HasGST        *bool   `json:"has_gst"`
	GSTPercentage *string `json:"gst_percentage"`
}

// --- Interface ---

type ItemService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*model.Item, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error
	GetItems(ctx context.Context) ([]model.Item, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

// --- Implementation ---

func (s *itemService) CreateItem(ctx context.Context, req CreateItemRequest) (*model.Item, error) {
	if strings.TrimSpace(req.NameEn) == "" || strings.TrimSpace(req.NameGu) == "" {
		return nil, fmt.Errorf("name_en and name_gu are required")
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate: %w", err)
	}

	gstPct := decimal.Zero
	if req.HasGST && req.GSTPercentage != "" {
		gstPct, err = decimal.NewFromString(req.GSTPercentage)
		if err != nil {
			return nil, fmt.Errorf("invalid gst_percentage: %w", err)
		}
	}

	item := &model.Item{
		NameEn:        req.NameEn,
		NameGu:        req.NameGu,
		Rate:          rate,
		HasGST:        req.HasGST,
		GSTPercentage: gstPct,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*model.Item, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid item ID")
	}

	item, err := s.itemRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("item not found: %w", err)
	}

	if req.NameEn != nil {
		if strings.TrimSpace(*req.NameEn) == "" {
			return nil, fmt.Errorf("name_en cannot be empty")
		}
		item.NameEn = *req.NameEn
	}
	if req.NameGu != nil {
		if strings.TrimSpace(*req.NameGu) == "" {
			return nil, fmt.Errorf("name_gu cannot be empty")
		}
		item.NameGu = *req.NameGu
	}
	if req.Rate != nil {
		// Changing the rate never rewrites existing bill lines; their
		// snapshotted prices stay as written unless resynced explicitly.
		rate, err := decimal.NewFromString(*req.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid rate: %w", err)
		}
		item.Rate = rate
	}
	if req.HasGST != nil {
		item.HasGST = *req.HasGST
		if !item.HasGST {
			item.GSTPercentage = decimal.Zero
		}
	}
	if req.GSTPercentage != nil {
		pct, err := decimal.NewFromString(*req.GSTPercentage)
		if err != nil {
			return nil, fmt.Errorf("invalid gst_percentage: %w", err)
		}
		item.GSTPercentage = pct
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid item ID")
	}
	if err := s.itemRepo.Delete(ctx, uid); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("cannot delete this item because it is part of one or more bills")
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *itemService) GetItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.itemRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	return items, nil
}
