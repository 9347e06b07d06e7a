package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ardenlim/stockpoint/internal/auth"
	"github.com/ardenlim/stockpoint/internal/core/domain"
	"github.com/ardenlim/stockpoint/internal/port"
)

type StaffService struct {
	staff      port.StaffRepository
	bcryptCost int
	log        *zap.Logger
}

func NewStaffService(staff port.StaffRepository, bcryptCost int, log *zap.Logger) *StaffService {
	return &StaffService{staff: staff, bcryptCost: bcryptCost, log: log}
}

type CreateStaffInput struct {
	Name        string
	Email       string
	Password    string
	Designation string
	Department  string
	PhoneNumber string
	Privileges  []string
}

func (s *StaffService) Create(ctx context.Context, in CreateStaffInput) (*domain.Staff, error) {
	existing, err := s.staff.GetStaffByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashSecret(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.staff.CreateStaff(ctx, &domain.Staff{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Designation:  in.Designation,
		Department:   in.Department,
		PhoneNumber:  in.PhoneNumber,
		Privileges:   in.Privileges,
		Status:       domain.StaffActive,
	})
	if err != nil {
		return nil, fmt.Errorf("create staff: %w", err)
	}
	s.log.Info("staff created", zap.Int64("staff_id", created.ID))
	return created, nil
}

func (s *StaffService) Get(ctx context.Context, id int64) (*domain.Staff, error) {
	staff, err := s.staff.GetStaffByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	if staff == nil {
		return nil, ErrNotFound
	}
	return staff, nil
}

func (s *StaffService) List(ctx context.Context) ([]*domain.Staff, error) {
	return s.staff.ListStaff(ctx)
}

type UpdateStaffInput struct {
	Name        string
	Email       string
	Password    string // empty keeps the current password
	Designation string
	Department  string
	PhoneNumber string
	Privileges  []string
	Status      domain.StaffStatus
}

func (s *StaffService) Update(ctx context.Context, id int64, in UpdateStaffInput) (*domain.Staff, error) {
	current, err := s.staff.GetStaffByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load staff: %w", err)
	}
	if current == nil {
		return nil, ErrNotFound
	}

	if in.Email != current.Email {
		other, err := s.staff.GetStaffByEmail(ctx, in.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailTaken
		}
	}

	hash := current.PasswordHash
	if in.Password != "" {
		hash, err = auth.HashSecret(in.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	updated, err := s.staff.UpdateStaff(ctx, &domain.Staff{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Designation:  in.Designation,
		Department:   in.Department,
		PhoneNumber:  in.PhoneNumber,
		Privileges:   in.Privileges,
		Status:       in.Status,
		CreatedAt:    current.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("update staff: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *StaffService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.staff.DeleteStaff(ctx, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
