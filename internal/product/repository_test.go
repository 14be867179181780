package product

import (
	"context"
	"errors"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, name, slug, price, stock, weight, status FROM products WHERE id = \$1`).
			WithArgs(uint(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "price", "stock", "weight", "status"}).
				AddRow(42, "Kaos Polos", "kaos-polos", "50000", 10, 200, "active"))

		p, err := repo.GetByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, uint(42), p.ID)
		assert.True(t, decimal.NewFromInt(50000).Equal(p.Price))
		assert.Equal(t, 10, p.Stock)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(uint(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	columns := []string{
		"id", "category_id", "name", "name", "slug", "price", "discount_price",
		"stock", "weight", "image", "status", "created_at",
	}

	t.Run("CategoryAndSearch", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p LEFT JOIN categories c ON p.category_id = c.id WHERE p.status = 'active' AND c.slug = \$1 AND \(p.name ILIKE \$2 OR p.description ILIKE \$2\)`).
			WithArgs("kaos", "%polos%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(13))

		mock.ExpectQuery(`SELECT p.id, .* ORDER BY p.created_at DESC LIMIT \$3 OFFSET \$4`).
			WithArgs("kaos", "%polos%", 12, 12).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(1, 2, "Kaos", "Kaos Polos", "kaos-polos", "50000", nil, 10, 200, nil, "active", time.Now()))

		products, total, err := repo.List(ctx, ListOptions{CategorySlug: "kaos", Search: "polos", Page: 2, Limit: 12})
		require.NoError(t, err)
		assert.Equal(t, 13, total)
		assert.Len(t, products, 1)
		assert.False(t, products[0].DiscountPrice.Valid)
	})

	t.Run("CountError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnError(errors.New("db down"))

		_, _, err := repo.List(ctx, ListOptions{Page: 1, Limit: 12})
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM products p LEFT JOIN categories c ON p.category_id = c.id WHERE p.slug = \$1`).
		WithArgs("kaos-polos").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "category_id", "name", "slug", "name", "slug", "description",
			"price", "discount_price", "stock", "weight", "image", "status", "created_at",
		}).AddRow(1, 2, "Kaos", "kaos", "Kaos Polos", "kaos-polos", "cotton", "50000", "45000", 10, 200, "a.jpg", "active", time.Now()))

	mock.ExpectQuery(`SELECT image_url FROM product_images WHERE product_id = \$1`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"image_url"}).AddRow("a.jpg").AddRow("b.jpg"))

	p, err := repo.GetBySlug(context.Background(), "kaos-polos")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.True(t, p.DiscountPrice.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Categories(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, slug FROM categories ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).AddRow(1, "Kaos", "kaos"))

	categories, err := NewRepository(db).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{ID: 1, Name: "Kaos", Slug: "kaos"}}, categories)
}
