package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storemart-be/internal/logger"
	"storemart-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int64) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*Product, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Search"),
	)

	start := time.Now()

	opts, err := req.Options()
	if err != nil {
		log.Warn("rejected search request", zap.Error(err))
		return nil, err
	}

	log.Debug("product search requested",
		zap.Int("page", opts.Page),
		zap.Int("page_size", opts.PageSize),
		zap.String("sort", string(opts.Sort)),
		zap.String("name", utils.PtrString(opts.Name)),
		zap.String("category", utils.PtrString(opts.Category)),
		zap.Any("min_price", opts.MinPrice),
		zap.Any("max_price", opts.MaxPrice),
		zap.Any("min_rating", opts.MinRating),
	)

	items, total, err := s.repo.Search(ctx, opts)
	if err != nil {
		log.Error("failed to search products",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	log.Info("product search success",
		zap.Int("count", len(items)),
		zap.Int("total", total),
		zap.Duration("duration", time.Since(start)),
	)

	return &SearchResult{
		Items:      items,
		TotalCount: total,
		Page:       opts.Page,
		TotalPages: TotalPages(total, opts.PageSize),
	}, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) ListAll(ctx context.Context) ([]Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

func validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if input.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	if input.Rating < 0 || input.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidInput)
	}
	if input.NumReviews < 0 {
		return fmt.Errorf("%w: review count cannot be negative", ErrInvalidInput)
	}
	return nil
}

func fromInput(input ProductInput) Product {
	return Product{
		Name:        input.Name,
		Slug:        utils.Slugify(input.Name),
		Category:    input.Category,
		Brand:       input.Brand,
		Image:       input.Image,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Rating:      input.Rating,
		NumReviews:  input.NumReviews,
		Featured:    input.Featured,
	}
}

func (s *service) Create(ctx context.Context, input ProductInput) (*Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, fromInput(input))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create product", zap.Error(err))
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.Int64("product_id", p.ID),
		zap.String("slug", p.Slug),
	)
	return p, nil
}

func (s *service) Update(ctx context.Context, id int64, input ProductInput) (*Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	p := fromInput(input)
	p.ID = id

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product updated",
		zap.Int64("product_id", updated.ID),
		zap.String("slug", updated.Slug),
	)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("product deleted",
		zap.Int64("product_id", id),
		zap.Int64("affected", affected),
	)
	return nil
}
