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

type AddressService interface {
	Create(ctx context.Context, userID string, req *dto.AddressRequest) (*model.Address, error)
	List(ctx context.Context, userID string) ([]*model.Address, error)
	Update(ctx context.Context, userID, addressID string, req *dto.AddressRequest) (*model.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
}

type addressServiceImpl struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressServiceImpl{addressRepo: addressRepo}
}

func (s *addressServiceImpl) Create(ctx context.Context, userID string, req *dto.AddressRequest) (*model.Address, error) {
	address := &model.Address{
		ID:         uuid.NewString(),
		UserID:     userID,
		FullName:   req.FullName,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return address, nil
}

func (s *addressServiceImpl) List(ctx context.Context, userID string) ([]*model.Address, error) {
	return s.addressRepo.ListByUser(ctx, userID)
}

func (s *addressServiceImpl) Update(ctx context.Context, userID, addressID string, req *dto.AddressRequest) (*model.Address, error) {
	address, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	address.FullName = req.FullName
	address.Line1 = req.Line1
	address.Line2 = req.Line2
	address.City = req.City
	address.PostalCode = req.PostalCode
	address.Country = req.Country
	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return address, nil
}

func (s *addressServiceImpl) Delete(ctx context.Context, userID, addressID string) error {
	if _, err := s.findOwned(ctx, userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, addressID)
}

func (s *addressServiceImpl) findOwned(ctx context.Context, userID, addressID string) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("find address: %w", err)
	}
	if address.UserID != userID {
		return nil, ErrForbidden
	}
	return address, nil
}
