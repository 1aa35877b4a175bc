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

type CreateRouteRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRouteRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// --- Interface ---

type RouteService interface {
	CreateRoute(ctx context.Context, req CreateRouteRequest) (*model.Route, error)
	UpdateRoute(ctx context.Context, id string, req UpdateRouteRequest) (*model.Route, error)
	DeleteRoute(ctx context.Context, id string) error
	GetRoutes(ctx context.Context) ([]model.Route, error)
}

type routeService struct {
	routeRepo repository.RouteRepository
}

func NewRouteService(routeRepo repository.RouteRepository) RouteService {
	return &routeService{routeRepo: routeRepo}
}

// --- Implementation ---

func (s *routeService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*model.Route, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	route := &model.Route{Name: req.Name, Description: req.Description}
	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	return route, nil
}

func (s *routeService) UpdateRoute(ctx context.Context, id string, req UpdateRouteRequest) (*model.Route, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID")
	}

	route, err := s.routeRepo.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("route not found: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		route.Name = *req.Name
	}
	if req.Description != nil {
		route.Description = *req.Description
	}

	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to update route: %w", err)
	}
	return route, nil
}

func (s *routeService) DeleteRoute(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid route ID")
	}
	if err := s.routeRepo.Delete(ctx, uid); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return fmt.Errorf("cannot delete this route because it is still assigned to one or more vendors")
		}
		return fmt.Errorf("failed to delete route: %w", err)
	}
	return nil
}

func (s *routeService) GetRoutes(ctx context.Context) ([]model.Route, error) {
	routes, err := s.routeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch routes: %w", err)
	}
	return routes, nil
}
