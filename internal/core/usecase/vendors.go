package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
)

type VendorUseCase struct {
	vendors ports.VendorRepository
}

func NewVendorUseCase(vendors ports.VendorRepository) *VendorUseCase {
	return &VendorUseCase{vendors: vendors}
}

type CreateVendorInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ContactInfo string `json:"contact_info"`
	Notes       string `json:"notes"`
}

func (uc *VendorUseCase) Create(ctx context.Context, input CreateVendorInput) (*domain.Vendor, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if name == "" || email == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create vendor", fmt.Errorf("name and email are required"))
	}

	if existing, err := uc.vendors.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.WrapError(domain.ErrVendorExists, "create vendor", fmt.Errorf("email %s is taken", email))
	} else if err != nil && !domain.IsKind(err, domain.ErrVendorNotFound) {
		return nil, fmt.Errorf("check vendor email: %w", err)
	}

	now := time.Now().UTC()
	vendor := &domain.Vendor{
		Name:        name,
		Email:       email,
		ContactInfo: input.ContactInfo,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.vendors.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	return vendor, nil
}
