package usecase

import (
	"context"
	"fmt"

	"storefront-catalog/internal/domain"
)

type CartUsecase struct {
	catalog *CatalogUsecase
}

func NewCartUsecase(catalog *CatalogUsecase) *CartUsecase {
	return &CartUsecase{catalog: catalog}
}

// AddItem resolves the product through the catalog so the cart line carries
// the current name, image and price.
func (uc *CartUsecase) AddItem(ctx context.Context, s *Session, productID, quantity int) (domain.CartSummary, error) {
	product, err := uc.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("failed to resolve product: %w", err)
	}
	if err := s.Cart.Add(*product, quantity); err != nil {
		return domain.CartSummary{}, err
	}
	return s.Cart.Summary(), nil
}

func (uc *CartUsecase) UpdateItem(s *Session, productID, quantity int) (domain.CartSummary, error) {
	if err := s.Cart.UpdateQuantity(productID, quantity); err != nil {
		return domain.CartSummary{}, err
	}
	return s.Cart.Summary(), nil
}

func (uc *CartUsecase) RemoveItem(s *Session, productID int) (domain.CartSummary, error) {
	if err := s.Cart.Remove(productID); err != nil {
		return domain.CartSummary{}, err
	}
	return s.Cart.Summary(), nil
}

func (uc *CartUsecase) Clear(s *Session) domain.CartSummary {
	s.Cart.Clear()
	return s.Cart.Summary()
}

func (uc *CartUsecase) Summary(s *Session) domain.CartSummary {
	return s.Cart.Summary()
}
