package repository

import (
	"context"

	"billing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RouteRepository interface {
	Create(ctx context.Context, route *model.Route) error
	CreateBatch(ctx context.Context, routes []model.Route) error
	Update(ctx context.Context, route *model.Route) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Route, error)
	FindAll(ctx context.Context) ([]model.Route, error)
}

type routeRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) RouteRepository {
	return &routeRepository{db: db}
}

func (r *routeRepository) Create(ctx context.Context, route *model.Route) error {
	return GetDB(ctx, r.db).Create(route).Error
}

func (r *routeRepository) CreateBatch(ctx context.Context, routes []model.Route) error {
	if len(routes) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&routes).Error
}

func (r *routeRepository) Update(ctx context.Context, route *model.Route) error {
	return GetDB(ctx, r.db).Save(route).Error
}

func (r *routeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Route{}).Error
}

func (r *routeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Route, error) {
	var route model.Route
	if err := GetDB(ctx, r.db).First(&route, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) FindAll(ctx context.Context) ([]model.Route, error) {
	var routes []model.Route
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}
