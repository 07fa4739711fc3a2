package catalog

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"id", "name", "slug", "category", "brand", "image", "description",
	"price", "stock", "rating", "num_reviews", "featured", "created_at",
}

func productRow(id int64, name string, price float64) []driver.Value {
	return []driver.Value{
		id, name, "slug-" + name, "Shirts", "Nike", "/images/p.jpg", "desc",
		price, 10, 4.5, 10, 0, time.Now(),
	}
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(productRow(1, "shirt", 120)...))

		p, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		assert.Equal(t, "shirt", p.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(productCols))

		_, err = repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM products WHERE slug = \$1 ORDER BY id DESC LIMIT 1`).
		WithArgs("nike-slim-shirt").
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(productRow(3, "Nike slim shirt", 120)...))

	p, err := repo.GetBySlug(ctx, "nike-slim-shirt")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
}

func TestRepository_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("CountMatchesFilterSet", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		min, max := 50.0, 150.0
		opts := SearchOptions{
			MinPrice: &min,
			MaxPrice: &max,
			Sort:     SortLowest,
			Page:     1,
			PageSize: 3,
		}

		// Count query mirrors the filter clause.
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE 1=1 AND price >= \$1 AND price <= \$2`).
			WithArgs(50.0, 150.0).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		rows := sqlmock.NewRows(productCols).
			AddRow(productRow(3, "c", 80)...).
			AddRow(productRow(2, "b", 100)...).
			AddRow(productRow(1, "a", 120)...)

		mock.ExpectQuery(`(?s)SELECT .* FROM products WHERE 1=1 AND price >= \$1 AND price <= \$2 ORDER BY price ASC, id DESC LIMIT \$3 OFFSET \$4`).
			WithArgs(50.0, 150.0, 3, 0).
			WillReturnRows(rows)

		products, total, err := repo.Search(ctx, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, products, 3)
		assert.Equal(t, 80.0, products[0].Price)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CountQueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
			WillReturnError(errors.New("db down"))

		_, _, err = repo.Search(ctx, SearchOptions{Page: 1, PageSize: 3})
		assert.Error(t, err)
	})

	t.Run("PageQueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		mock.ExpectQuery(`(?s)SELECT .* FROM products`).
			WillReturnError(errors.New("db down"))

		_, _, err = repo.Search(ctx, SearchOptions{Page: 1, PageSize: 3})
		assert.Error(t, err)
	})
}

func TestRepository_Categories(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT DISTINCT category FROM products ORDER BY category`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Pants").AddRow("Shirts"))

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pants", "Shirts"}, categories)
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO products .* RETURNING id, created_at`).
		WithArgs("Nike slim shirt", "nike-slim-shirt", "Shirts", "Nike", "/images/p1.jpg", "high quality shirt",
			120.0, 10, 4.5, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	p, err := repo.Create(ctx, Product{
		Name: "Nike slim shirt", Slug: "nike-slim-shirt", Category: "Shirts",
		Brand: "Nike", Image: "/images/p1.jpg", Description: "high quality shirt",
		Price: 120, Stock: 10, Rating: 4.5, NumReviews: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE products SET .* WHERE id = \$12`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err = repo.Update(ctx, Product{ID: 99, Name: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE products SET .* WHERE id = \$12`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(productCols).AddRow(productRow(7, "renamed", 99)...))

		p, err := repo.Update(ctx, Product{ID: 7, Name: "renamed"})
		require.NoError(t, err)
		assert.Equal(t, "renamed", p.Name)
	})
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	t.Run("Existing", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("MissingIsNotAnError", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		affected, err := repo.Delete(ctx, 99)
		require.NoError(t, err)
		assert.Equal(t, int64(0), affected)
	})
}

func TestRepository_Counts(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT category\) FROM products`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	products, err := repo.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, products)

	categories, err := repo.CountCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, categories)
}
