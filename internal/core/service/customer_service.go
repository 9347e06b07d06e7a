package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/auth"
	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

type CustomerService struct {
	customers  port.CustomerRepository
	bcryptCost int
	log        *zap.Logger
}

func NewCustomerService(customers port.CustomerRepository, bcryptCost int, log *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, bcryptCost: bcryptCost, log: log}
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := s.customers.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.customers.ListCustomers(ctx)
}

type UpsertCustomerInput struct {
	Name        string
	Email       string
	Pin         string // empty keeps the current PIN on update
	PhoneNumber string
}

func (s *CustomerService) Create(ctx context.Context, in UpsertCustomerInput) (*domain.Customer, error) {
	existing, err := s.customers.GetCustomerByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	pinHash, err := auth.HashSecret(in.Pin, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	created, err := s.customers.CreateCustomer(ctx, &domain.Customer{
		Name:        in.Name,
		Email:       in.Email,
		PinHash:     pinHash,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.log.Info("customer created", zap.Int64("customer_id", created.ID))
	return created, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, in UpsertCustomerInput) (*domain.Customer, error) {
	current, err := s.customers.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}

	if in.Email != current.Email {
		other, err := s.customers.GetCustomerByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailTaken
		}
	}

	pinHash := current.PinHash
	if in.Pin != "" {
		pinHash, err = auth.HashSecret(in.Pin, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash pin: %w", err)
		}
	}

	updated, err := s.customers.UpdateCustomer(ctx, &domain.Customer{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		PinHash:     pinHash,
		PhoneNumber: in.PhoneNumber,
		CreatedAt:   current.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.customers.DeleteCustomer(ctx, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
