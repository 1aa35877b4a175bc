package service

import (
	"context"
	"fmt"
	"strings"

	"billing/internal/model"
	"billing/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateVendorRequest struct {
	Name    string `json:"name" binding:"required"`
	RouteID string `json:"route_id" binding:"required"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

type UpdateVendorRequest struct {
	Name    *string `json:"name"`
	RouteID *string `json:"route_id"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`
}

// --- Interface ---

type VendorService interface {
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*model.Vendor, error)
	UpdateVendor(ctx context.Context, id string, req UpdateVendorRequest) (*model.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error
	GetVendors(ctx context.Context, routeID string) ([]model.Vendor, error)
}

type vendorService struct {
	vendorRepo repository.VendorRepository
	routeRepo  repository.RouteRepository
}

func NewVendorService(vendorRepo repository.VendorRepository, routeRepo repository.RouteRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo, routeRepo: routeRepo}
}

// --- Implementation ---

func (s *vendorService) CreateVendor(ctx context.Context, req CreateVendorRequest) (*model.Vendor, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("invalid route_id")
	}
	if _, err := s.routeRepo.FindByID(ctx, routeID); err != nil {
		return nil, fmt.Errorf("route not found: %w", err)
	}

	vendor := &model.Vendor{
		Name:    req.Name,
		RouteID: routeID,
		Contact: req.Contact,
		Address: req.Address,
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}
	return vendor, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, id string, req UpdateVendorRequest) (*model.Vendor, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid vendor ID")
	}

	vendor, err := s.vendorRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("vendor not found: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		vendor.Name = *req.Name
	}
	if req.RouteID != nil {
		routeID, err := uuid.Parse(*req.RouteID)
		if err != nil {
			return nil, fmt.Errorf("invalid route_id")
		}
		if _, err := s.routeRepo.FindByID(ctx, routeID); err != nil {
			return nil, fmt.Errorf("route not found: %w", err)
		}
		vendor.RouteID = routeID
		vendor.Route = nil
	}
	if req.Contact != nil {
		vendor.Contact = *req.Contact
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return vendor, nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid vendor ID")
	}
	if err := s.vendorRepo.Delete(ctx, uid); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("cannot delete this vendor because they still have bills associated with them")
		}
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	return nil
}

func (s *vendorService) GetVendors(ctx context.Context, routeID string) ([]model.Vendor, error) {
	var filter *uuid.UUID
	if routeID != "" {
		parsed, err := uuid.Parse(routeID)
		if err != nil {
			return nil, fmt.Errorf("invalid route_id filter")
		}
		filter = &parsed
	}

	vendors, err := s.vendorRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}
	return vendors, nil
}
