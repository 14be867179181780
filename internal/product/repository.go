package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"umkm-store-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]Product, int, error)
	Categories(ctx context.Context) ([]Category, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, slug, price, stock, weight, status
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Slug, &p.Price, &p.Stock, &p.Weight, &p.Status)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetBySlug"),
		zap.String("slug", slug),
	)

	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.category_id, c.name, c.slug, p.name, p.slug, p.description,
		       p.price, p.discount_price, p.stock, p.weight, p.image, p.status, p.created_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.slug = $1 AND p.status = 'active'
	`, slug).Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.CategorySlug, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.DiscountPrice, &p.Stock, &p.Weight, &p.Image, &p.Status, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to query product", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT image_url FROM product_images WHERE product_id = $1 ORDER BY id
	`, p.ID)
	if err != nil {
		log.Error("failed to query product images", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	p.Images = []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		p.Images = append(p.Images, url)
	}

	return &p, rows.Err()
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Product, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	where := " WHERE p.status = 'active'"
	args := []any{}
	argIndex := 1

	if opts.CategorySlug != "" {
		where += fmt.Sprintf(" AND c.slug = $%d", argIndex)
		args = append(args, opts.CategorySlug)
		argIndex++
	}

	if opts.Search != "" {
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+opts.Search+"%")
		argIndex++
	}

	from := " FROM products p LEFT JOIN categories c ON p.category_id = c.id"

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	query := `SELECT p.id, p.category_id, c.name, p.name, p.slug, p.price, p.discount_price,
		p.stock, p.weight, p.image, p.status, p.created_at` + from + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	log.Debug("executing list products query", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Slug, &p.Price, &p.DiscountPrice,
			&p.Stock, &p.Weight, &p.Image, &p.Status, &p.CreatedAt,
		); err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, 0, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *repository) Categories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
