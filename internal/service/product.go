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

type ProductService interface {
	Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	Get(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, categoryID string) ([]*model.Product, error)
	Update(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, productID string) error

	AddVariant(ctx context.Context, productID string, req *dto.VariantRequest) (*model.Variant, error)
	UpdateVariant(ctx context.Context, variantID string, req *dto.VariantRequest) (*model.Variant, error)
	DeleteVariant(ctx context.Context, variantID string) error

	CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

type productServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productServiceImpl) Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if req.CategoryID != "" {
		if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("find category: %w", err)
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}
	product := &model.Product{
		ID:          uuid.NewString(),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Currency:    currency,
		Active:      true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *productServiceImpl) Get(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *productServiceImpl) List(ctx context.Context, categoryID string) ([]*model.Product, error) {
	return s.productRepo.List(ctx, categoryID)
}

func (s *productServiceImpl) Update(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.BasePrice = req.BasePrice
	if req.CategoryID != "" {
		product.CategoryID = req.CategoryID
	}
	if req.Currency != "" {
		product.Currency = req.Currency
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *productServiceImpl) Delete(ctx context.Context, productID string) error {
	if _, err := s.Get(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *productServiceImpl) AddVariant(ctx context.Context, productID string, req *dto.VariantRequest) (*model.Variant, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}

	variant := &model.Variant{
		ID:        uuid.NewString(),
		ProductID: productID,
		SKU:       req.SKU,
		Name:      req.Name,
		Price:     req.Price,
		Stock:     req.Stock,
	}
	if err := s.productRepo.CreateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}
	return variant, nil
}

func (s *productServiceImpl) UpdateVariant(ctx context.Context, variantID string, req *dto.VariantRequest) (*model.Variant, error) {
	variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("find variant: %w", err)
	}

	variant.SKU = req.SKU
	variant.Name = req.Name
	variant.Price = req.Price
	variant.Stock = req.Stock
	if err := s.productRepo.UpdateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("update variant: %w", err)
	}
	return variant, nil
}

func (s *productServiceImpl) DeleteVariant(ctx context.Context, variantID string) error {
	if _, err := s.productRepo.FindVariantByID(ctx, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return fmt.Errorf("find variant: %w", err)
	}
	return s.productRepo.DeleteVariant(ctx, variantID)
}

func (s *productServiceImpl) CreateCategory(ctx context.Context, req *dto.CategoryRequest) (*model.Category, error) {
	category := &model.Category{
		ID:   uuid.NewString(),
		Name: req.Name,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *productServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *productServiceImpl) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("find category: %w", err)
	}
	return s.categoryRepo.Delete(ctx, categoryID)
}
