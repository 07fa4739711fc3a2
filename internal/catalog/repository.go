package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storemart-be/internal/logger"

	"go.uber.org/zap"
)

const productColumns = `id, name, slug, category, brand, image, description, price, stock, rating, num_reviews, featured, created_at`

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Search(ctx context.Context, opts SearchOptions) ([]Product, int, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p Product) (*Product, error)
	Update(ctx context.Context, p Product) (*Product, error)
	Delete(ctx context.Context, id int64) (int64, error)
	CountProducts(ctx context.Context) (int, error)
	CountCategories(ctx context.Context) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Category, &p.Brand, &p.Image,
		&p.Description, &p.Price, &p.Stock, &p.Rating, &p.NumReviews,
		&p.Featured, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// GetBySlug returns the newest product carrying the slug. Slugs are not
// enforced unique, so ties resolve to the latest record.
func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1 ORDER BY id DESC LIMIT 1`, slug)
	return scanProduct(row)
}

func (r *repository) ListAll(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *repository) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY id`, category)
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Category, &p.Brand, &p.Image,
			&p.Description, &p.Price, &p.Stock, &p.Rating, &p.NumReviews,
			&p.Featured, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Search executes the filtered page query plus the matching count query.
// Both share the same WHERE clause so the count always describes the full
// filtered set, not the page.
func (r *repository) Search(ctx context.Context, opts SearchOptions) ([]Product, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Search"),
	)

	where, args := opts.whereClause()

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT `+productColumns+` FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, opts.orderBy(), len(args)+1, len(args)+2,
	)
	args = append(args, opts.PageSize, opts.Offset())

	log.Debug("executing search query",
		zap.String("query", query),
		zap.Any("args", args),
	)

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, 0, err
	}

	return products, total, nil
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) (*Product, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			name, slug, category, brand, image, description,
			price, stock, rating, num_reviews, featured
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`,
		p.Name, p.Slug, p.Category, p.Brand, p.Image, p.Description,
		p.Price, p.Stock, p.Rating, p.NumReviews, p.Featured,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p Product) (*Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
			name = $1, slug = $2, category = $3, brand = $4, image = $5,
			description = $6, price = $7, stock = $8, rating = $9,
			num_reviews = $10, featured = $11
		WHERE id = $12
	`,
		p.Name, p.Slug, p.Category, p.Brand, p.Image, p.Description,
		p.Price, p.Stock, p.Rating, p.NumReviews, p.Featured, p.ID,
	)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, p.ID)
}

// Delete removes a product by id. Deleting a missing id is not an error;
// the affected count tells the caller whether anything happened.
func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (r *repository) CountCategories(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT category) FROM products`).Scan(&n)
	return n, err
}
