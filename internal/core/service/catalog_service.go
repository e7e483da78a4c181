package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/uniqlo-mini/storefront/internal/core/domain"
	"github.com/uniqlo-mini/storefront/internal/port"
)

type CatalogService struct {
	catalog port.CatalogRepository
	pricing *PricingService
	opts    options
}

func NewCatalogService(catalog port.CatalogRepository, pricing *PricingService, opts ...Option) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		pricing: pricing,
		opts:    buildOptions(opts),
	}
}

// List returns every product with its variants' resolved prices.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	for i := range products {
		if err := s.pricing.fillVariantPrices(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.pricing.fillVariantPrices(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) Create(ctx context.Context, actorID int64, product domain.Product) (domain.Product, error) {
	if err := validateProduct(product); err != nil {
		return domain.Product{}, err
	}

	created, err := s.catalog.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.record(ctx, actorID, domain.AuditProductCreate, created.ID, created.Name)
	return created, nil
}

func (s *CatalogService) Update(ctx context.Context, actorID int64, product domain.Product) (domain.Product, error) {
	if product.ID <= 0 {
		return domain.Product{}, fmt.Errorf("%w: productId is required", ErrInvalidInput)
	}
	if err := validateProduct(product); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.catalog.UpdateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.record(ctx, actorID, domain.AuditProductUpdate, updated.ID, updated.Name)
	return updated, nil
}

// Delete fails with port.ErrReferenced once the product has been ordered.
func (s *CatalogService) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, domain.AuditProductDelete, id, "")
	return nil
}

func (s *CatalogService) record(ctx context.Context, actorID int64, action string, id int64, detail string) {
	s.opts.audit.Record(ctx, domain.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		Resource:   "product",
		ResourceID: strconv.FormatInt(id, 10),
		Detail:     detail,
		CreatedAt:  s.opts.now(),
	})
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	for _, v := range p.Variants {
		if v.Price.IsNegative() {
			return fmt.Errorf("%w: variant price must not be negative", ErrInvalidInput)
		}
		if v.Stock < 0 {
			return fmt.Errorf("%w: variant stock must not be negative", ErrInvalidInput)
		}
	}
	return nil
}
