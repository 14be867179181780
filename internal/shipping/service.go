package shipping

import (
	"context"
	"strings"

	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/metrics"

	"go.uber.org/zap"
)

type Service interface {
	Provinces(ctx context.Context) ([]Province, error)
	Cities(ctx context.Context, provinceID string) ([]City, error)
	Cost(ctx context.Context, req CostRequest) (*CostResult, error)
}

type service struct {
	gateway Gateway
	cache   Cache
	metrics *metrics.Registry
}

func NewService(gateway Gateway, cache Cache, reg *metrics.Registry) Service {
	if cache == nil {
		cache = NewNopCache()
	}
	return &service{gateway: gateway, cache: cache, metrics: reg}
}

func (s *service) Provinces(ctx context.Context) ([]Province, error) {
	var provinces []Province
	if s.cached(ctx, "provinces", &provinces) {
		return provinces, nil
	}

	provinces, err := s.gateway.Provinces(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "provinces", provinces)
	return provinces, nil
}

func (s *service) Cities(ctx context.Context, provinceID string) ([]City, error) {
	provinceID = strings.TrimSpace(provinceID)
	key := "cities:all"
	if provinceID != "" {
		key = "cities:" + provinceID
	}

	var cities []City
	if s.cached(ctx, key, &cities) {
		return cities, nil
	}

	cities, err := s.gateway.Cities(ctx, provinceID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, cities)
	return cities, nil
}

// Cost quotes are not cached; couriers change rates without notice.
func (s *service) Cost(ctx context.Context, req CostRequest) (*CostResult, error) {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)
	req.Courier = strings.ToLower(strings.TrimSpace(req.Courier))

	if req.Origin == "" || req.Destination == "" || req.Weight <= 0 || req.Courier == "" {
		return nil, ErrMissingCostFields
	}

	res, err := s.gateway.Cost(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(res.Options) == 0 {
		return nil, ErrNoShippingService
	}
	return res, nil
}

// cached reports a hit. Cache failures count as misses.
func (s *service) cached(ctx context.Context, key string, dst any) bool {
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		logger.FromCtx(ctx).Warn("shipping cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found && err == nil {
		s.metrics.Inc(metrics.ShippingCacheHit)
		return true
	}
	s.metrics.Inc(metrics.ShippingCacheMiss)
	return false
}

func (s *service) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		logger.FromCtx(ctx).Warn("shipping cache write failed", zap.String("key", key), zap.Error(err))
	}
}
