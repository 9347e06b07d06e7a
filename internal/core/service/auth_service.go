package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/auth"
	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

// AuthService is the credential verifier: it validates email+secret
// against staff or customer records and issues the signed session token.
type AuthService struct {
	staff      port.StaffRepository
	customers  port.CustomerRepository
	tokens     *auth.TokenManager
	bcryptCost int
	log        *zap.Logger
}

func NewAuthService(
	staff port.StaffRepository,
	customers port.CustomerRepository,
	tokens *auth.TokenManager,
	bcryptCost int,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		staff:      staff,
		customers:  customers,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// LoginResult pairs the issued identity with its bearer token.
type LoginResult struct {
	Identity domain.Identity `json:"user"`
	Token    string          `json:"token"`
}

func (s *AuthService) StaffLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	staff, err := s.staff.GetStaffByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	if staff == nil || !auth.CompareSecret(staff.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if staff.Status != domain.StaffActive {
		return nil, ErrInactiveAccount
	}

	role := staff.Role()
	token, err := s.tokens.Generate(staff.ID, role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("staff login", zap.Int64("staff_id", staff.ID), zap.String("role", string(role)))
	return &LoginResult{
		Identity: domain.Identity{
			ID:          staff.ID,
			Name:        staff.Name,
			Email:       staff.Email,
			Role:        role,
			Designation: staff.Designation,
			Privileges:  staff.Privileges,
		},
		Token: token,
	}, nil
}

func (s *AuthService) CustomerLogin(ctx context.Context, email, pin string) (*LoginResult, error) {
	customer, err := s.customers.GetCustomerByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer == nil || !auth.CompareSecret(customer.PinHash, pin) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(customer.ID, domain.RoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("customer login", zap.Int64("customer_id", customer.ID))
	return &LoginResult{
		Identity: domain.Identity{
			ID:    customer.ID,
			Name:  customer.Name,
			Email: customer.Email,
			Role:  domain.RoleCustomer,
		},
		Token: token,
	}, nil
}

type RegisterCustomerInput struct {
	Name        string
	Email       string
	Pin         string
	PhoneNumber string
}

func (s *AuthService) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*domain.Customer, error) {
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

	customer, err := s.customers.CreateCustomer(ctx, &domain.Customer{
		Name:        in.Name,
		Email:       in.Email,
		PinHash:     pinHash,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.log.Info("customer registered", zap.Int64("customer_id", customer.ID))
	return customer, nil
}

// EnsureAdmin seeds a default administrator when no staff exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	existing, err := s.staff.ListStaff(ctx)
	if err != nil {
		return fmt.Errorf("list staff: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := auth.HashSecret(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.staff.CreateStaff(ctx, &domain.Staff{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Designation:  string(domain.RoleAdmin),
		Status:       domain.StaffActive,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	s.log.Warn("seeded default administrator, change the password",
		zap.Int64("staff_id", admin.ID), zap.String("email", email))
	return nil
}
