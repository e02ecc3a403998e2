package service

import (
	"context"
	"errors"
	"fmt"

	"flowcart/internal/dto"
	"flowcart/internal/model"
	"flowcart/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartService interface {
	AddItem(ctx context.Context, userID, variantID string, quantity int) (*dto.CartResponse, error)
	UpdateQuantity(ctx context.Context, userID, variantID string, quantity int) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID, variantID string) (*dto.CartResponse, error)
	GetCart(ctx context.Context, userID string) (*dto.CartResponse, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, variantID string, quantity int) (*dto.CartResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("find variant: %w", err)
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, variantID)
	switch {
	case err == nil:
		// one line per variant: merge quantity into the existing line
		merged := item.Quantity + quantity
		if variant.Stock < merged {
			return nil, fmt.Errorf("%w: %d available", ErrOutOfStock, variant.Stock)
		}
		if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, merged); err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if variant.Stock < quantity {
			return nil, fmt.Errorf("%w: %d available", ErrOutOfStock, variant.Stock)
		}
		if err := s.cartRepo.CreateItem(ctx, &model.CartItem{
			CartID:    cart.ID,
			VariantID: variantID,
			Quantity:  quantity,
			UnitPrice: variant.Price,
		}); err != nil {
			return nil, fmt.Errorf("create cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID, variantID string, quantity int) (*dto.CartResponse, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	// quantity zero removes the line
	if quantity == 0 {
		if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("delete cart item: %w", err)
		}
		return s.GetCart(ctx, userID)
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, variantID string) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("delete cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// an absent cart reads as an empty one
			return &dto.CartResponse{Items: []dto.CartItemResponse{}}, nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	return cartToResponse(cart), nil
}

func (s *cartServiceImpl) getOrCreateCart(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	cart = &model.Cart{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

func cartToResponse(cart *model.Cart) *dto.CartResponse {
	resp := &dto.CartResponse{
		ID:    cart.ID,
		Items: make([]dto.CartItemResponse, len(cart.Items)),
	}
	for i, item := range cart.Items {
		lineTotal := item.UnitPrice.Mul(decimalFromInt(item.Quantity))
		resp.Items[i] = dto.CartItemResponse{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: lineTotal,
		}
		resp.Subtotal = resp.Subtotal.Add(lineTotal)
	}
	return resp
}
