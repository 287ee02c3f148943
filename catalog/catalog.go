// Package catalog provides the static, read-only product catalog. Queries
// answer after an optional simulated network delay so the demo behaves like
// a remote API.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/electrostore/storefront/entities"
)

var _ entities.CatalogProvider = (*Provider)(nil)

type Provider struct {
	logger *zap.Logger

	// listDelay applies to Products/Featured, lookupDelay to ProductByID.
	listDelay   time.Duration
	lookupDelay time.Duration

	mu       *sync.RWMutex
	products []entities.Product
}

type Option func(*Provider)

// WithDelay sets the simulated latency for list and lookup queries.
func WithDelay(list, lookup time.Duration) Option {
	return func(p *Provider) {
		p.listDelay = list
		p.lookupDelay = lookup
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithProducts replaces the default seed data.
func WithProducts(products []entities.Product) Option {
	return func(p *Provider) {
		p.products = products
	}
}

func New(opts ...Option) *Provider {
	ans := Provider{
		logger:   zap.NewNop(),
		mu:       &sync.RWMutex{},
		products: seedProducts(),
	}

	for _, opt := range opts {
		opt(&ans)
	}

	ans.logger.Info("catalog initialized", zap.Int("products", len(ans.products)))

	return &ans
}

func (p *Provider) Products(ctx context.Context, filter entities.ProductFilter) ([]entities.Product, error) {
	if err := p.wait(ctx, p.listDelay); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	ans := make([]entities.Product, 0, len(p.products))

	for _, product := range p.products {
		if matches(product, filter) {
			ans = append(ans, product)
		}
	}

	return ans, nil
}

func (p *Provider) ProductByID(ctx context.Context, id string) (entities.Product, error) {
	if err := p.wait(ctx, p.lookupDelay); err != nil {
		return entities.Product{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, product := range p.products {
		if product.ID == id {
			return product, nil
		}
	}

	return entities.Product{}, entities.ErrProductNotFound
}

func (p *Provider) Featured(ctx context.Context) ([]entities.Product, error) {
	featured := true

	return p.Products(ctx, entities.ProductFilter{Featured: &featured})
}

func (p *Provider) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func matches(p entities.Product, f entities.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}

	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}

	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}

	if f.InStock != nil && (p.Stock > 0) != *f.InStock {
		return false
	}

	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}

	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(p.Name + " " + p.ShortDescription + " " + p.Brand)

		if !strings.Contains(haystack, needle) {
			return false
		}
	}

	return true
}
