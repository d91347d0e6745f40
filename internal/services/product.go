package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bazaarlane/admin-backend/internal/clients/redis"
	productrepo "github.com/bazaarlane/admin-backend/internal/data/repos/product"
	types "github.com/bazaarlane/admin-backend/internal/domain"
	"github.com/bazaarlane/admin-backend/internal/observability"
	"github.com/bazaarlane/admin-backend/internal/platform/apierr"
	"github.com/bazaarlane/admin-backend/internal/platform/logger"
)

// productCachePatterns are the storefront cache namespaces that go stale
// when catalog data changes.
var productCachePatterns = []string{
	"products:*",
	"featured:products:*",
	"products:search:*",
}

type ProductCreateInput struct {
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Price         *float64   `json:"price"`
	StockQuantity int        `json:"stock_quantity"`
	IsFeatured    bool       `json:"is_featured"`
	CategoryID    *uuid.UUID `json:"category_id"`
	Images        []string   `json:"images"`
}

type ProductService interface {
	Create(ctx context.Context, input ProductCreateInput) (*types.Product, error)
}

type productService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    productrepo.ProductRepo
	cache   redis.Cache
	metrics *observability.Metrics
}

func NewProductService(
	db *gorm.DB,
	log *logger.Logger,
	repo productrepo.ProductRepo,
	cache redis.Cache,
	metrics *observability.Metrics,
) ProductService {
	serviceLog := log.With("service", "ProductService")
	return &productService{db: db, log: serviceLog, repo: repo, cache: cache, metrics: metrics}
}

func (ps *productService) Create(ctx context.Context, input ProductCreateInput) (*types.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price == nil {
		return nil, apierr.Validation(errors.New("name and price are required"))
	}

	slug, err := ps.uniqueSlug(ctx, name)
	if err != nil {
		return nil, apierr.ServiceError(fmt.Errorf("slug check: %w", err))
	}

	product := &types.Product{
		ID:            uuid.New(),
		Name:          name,
		Slug:          slug,
		Description:   input.Description,
		Price:         *input.Price,
		StockQuantity: input.StockQuantity,
		IsFeatured:    input.IsFeatured,
		CategoryID:    input.CategoryID,
	}
	if len(input.Images) > 0 {
		raw, mErr := json.Marshal(input.Images)
		if mErr != nil {
			return nil, apierr.Validation(fmt.Errorf("images: %w", mErr))
		}
		product.Images = datatypes.JSON(raw)
	}

	if _, err := ps.repo.Create(ctx, nil, []*types.Product{product}); err != nil {
		return nil, apierr.ServiceError(fmt.Errorf("create product: %w", err))
	}

	ps.invalidateCaches(ctx)
	return product, nil
}

func (ps *productService) uniqueSlug(ctx context.Context, name string) (string, error) {
	slug := Slugify(name)
	exists, err := ps.repo.SlugExists(ctx, nil, slug)
	if err != nil {
		return "", err
	}
	if exists {
		slug = slug + "-" + uuid.New().String()[:8]
	}
	return slug, nil
}

// invalidateCaches purges stale storefront keys in parallel. Purge failures
// are logged, never surfaced: a stale cache is preferable to a failed write.
func (ps *productService) invalidateCaches(ctx context.Context) {
	if ps.cache == nil {
		return
	}
	purgeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(purgeCtx)
	for _, pattern := range productCachePatterns {
		g.Go(func() error {
			n, err := ps.cache.DeletePattern(gctx, pattern)
			if err != nil {
				ps.metrics.IncCachePurge(pattern, "error")
				ps.log.Warn("cache purge failed", "pattern", pattern, "error", err)
				return nil
			}
			ps.metrics.IncCachePurge(pattern, "ok")
			ps.log.Debug("cache purged", "pattern", pattern, "keys", n)
			return nil
		})
	}
	_ = g.Wait()
}

// Slugify lowercases and collapses every non-alphanumeric run to a single
// dash, trimming dashes at both ends.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
