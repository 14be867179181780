package product

import (
	"context"
	"strings"
	"time"

	"umkm-store-be/internal/logger"

	"go.uber.org/zap"
)

const defaultListLimit = 12

type Service interface {
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Categories(ctx context.Context) ([]Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "List"),
	)

	start := time.Now()

	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}
	opts.Search = strings.TrimSpace(opts.Search)

	products, total, err := s.repo.List(ctx, opts)
	if err != nil {
		log.Error("failed to fetch product list",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	log.Info("get product list success",
		zap.Int("count", len(products)),
		zap.Int("total", total),
		zap.Int("page", opts.Page),
		zap.Duration("duration", time.Since(start)),
	)

	return &ListResult{Items: products, Total: total}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, ErrProductNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.Categories(ctx)
}
