package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

type CatalogService struct {
	Prods repos.Products
}

func NewCatalogService(prods repos.Products) *CatalogService {
	return &CatalogService{Prods: prods}
}

// ProductInput carries a create request. Name and Price are required.
type ProductInput struct {
	Name        *string  `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
}

func (in ProductInput) Validate() error {
	if in.Name == nil {
		return Validation("name is required")
	}
	if in.Price == nil {
		return Validation("price is required")
	}
	return nil
}

// Create stores the product as given; there is no uniqueness rule.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Name:        *in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
	}
	if err := s.Prods.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) List(ctx context.Context, q string) ([]domain.Product, error) {
	q, ok := validate.Q(q)
	if !ok {
		return nil, Validation(fmt.Sprintf("q must be at most %d bytes", validate.MaxQ))
	}
	out, err := s.Prods.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, rawID string) (*domain.Product, error) {
	id, ok := validate.ID(rawID)
	if !ok {
		return nil, Validation("Invalid product id")
	}
	p, err := s.Prods.Get(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}
