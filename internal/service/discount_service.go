package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamestore/internal/discount"
	"gamestore/internal/model"
	"gamestore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxCodeLength = 64

// discountAdminService implements DiscountAdminService.
type discountAdminService struct {
	repo   repository.DiscountCodeRepository
	loader discount.Loader
	now    func() time.Time
	logger zerolog.Logger
}

// NewDiscountAdminService creates a new discount admin service. loader may
// be nil, in which case Import is unavailable.
func NewDiscountAdminService(repo repository.DiscountCodeRepository, loader discount.Loader, logger zerolog.Logger) DiscountAdminService {
	return &discountAdminService{
		repo:   repo,
		loader: loader,
		now:    time.Now,
		logger: logger.With().Str("service", "discount_admin").Logger(),
	}
}

// Create validates and stores a new code. New codes start with no uses and
// are active unless the input says otherwise.
func (s *discountAdminService) Create(ctx context.Context, input *model.DiscountCodeInput) (*model.DiscountCode, error) {
	if err := validateDiscountInput(input); err != nil {
		s.logger.Warn().Err(err).Msg("invalid discount code input")
		return nil, err
	}

	now := s.now().UTC()
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	dc := &model.DiscountCode{
		ID:                   uuid.New(),
		Code:                 discount.NormalizeCode(input.Code),
		Description:          input.Description,
		DiscountType:         input.DiscountType,
		DiscountValue:        input.DiscountValue,
		MinPurchaseAmount:    input.MinPurchaseAmount,
		MaxUses:              input.MaxUses,
		MaxUsesPerCustomer:   input.MaxUsesPerCustomer,
		ValidFrom:            input.ValidFrom,
		ValidUntil:           input.ValidUntil,
		IsActive:             active,
		ApplicableProductIDs: input.ApplicableProductIDs,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repo.Create(ctx, dc); err != nil {
		if errors.Is(err, model.ErrDiscountCodeExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("code", dc.Code).Msg("failed to create discount code")
		return nil, fmt.Errorf("failed to create discount code: %w", err)
	}

	s.logger.Info().
		Str("discount_code_id", dc.ID.String()).
		Str("code", dc.Code).
		Str("discount_type", string(dc.DiscountType)).
		Msg("discount code created")

	return dc, nil
}

// List retrieves codes with pagination.
func (s *discountAdminService) List(ctx context.Context, limit, offset int) ([]model.DiscountCode, error) {
	limit, offset = clampPage(limit, offset)

	codes, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}

	return codes, nil
}

// GetByCode retrieves a code by its code string.
func (s *discountAdminService) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	normalised := discount.NormalizeCode(code)
	if normalised == "" {
		return nil, model.ErrDiscountCodeNotFound
	}

	dc, err := s.repo.GetByCode(ctx, normalised)
	if err != nil {
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}

	if dc == nil {
		return nil, model.ErrDiscountCodeNotFound
	}

	return dc, nil
}

// SetActive activates or deactivates a code.
func (s *discountAdminService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.DiscountCode, error) {
	dc, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, model.ErrDiscountCodeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update discount code: %w", err)
	}

	s.logger.Info().
		Str("discount_code_id", id.String()).
		Bool("active", active).
		Msg("discount code active flag changed")

	return dc, nil
}

// Extend moves the end of a code's validity window. The new end may not
// precede the start of the window.
func (s *discountAdminService) Extend(ctx context.Context, id uuid.UUID, validUntil time.Time) (*model.DiscountCode, error) {
	if validUntil.IsZero() {
		return nil, model.NewInvalidDiscountInputError("validUntil is required")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}
	if current == nil {
		return nil, model.ErrDiscountCodeNotFound
	}

	if current.ValidFrom != nil && validUntil.Before(*current.ValidFrom) {
		return nil, model.NewInvalidDiscountInputError("validUntil cannot be before validFrom")
	}

	dc, err := s.repo.Extend(ctx, id, validUntil)
	if err != nil {
		if errors.Is(err, model.ErrDiscountCodeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to extend discount code: %w", err)
	}

	s.logger.Info().
		Str("discount_code_id", id.String()).
		Time("valid_until", validUntil).
		Msg("discount code extended")

	return dc, nil
}

// Delete removes a code, or deactivates it when it has usages.
func (s *discountAdminService) Delete(ctx context.Context, id uuid.UUID) (*model.DeleteResult, error) {
	soft, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrDiscountCodeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete discount code: %w", err)
	}

	s.logger.Info().
		Str("discount_code_id", id.String()).
		Bool("soft_deleted", soft).
		Msg("discount code deleted")

	return &model.DeleteResult{ID: id, SoftDeleted: soft}, nil
}

// ListUsages retrieves the redemption ledger of a code.
func (s *discountAdminService) ListUsages(ctx context.Context, id uuid.UUID) ([]model.DiscountCodeUsage, error) {
	dc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}
	if dc == nil {
		return nil, model.ErrDiscountCodeNotFound
	}

	usages, err := s.repo.ListUsages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount code usages: %w", err)
	}

	return usages, nil
}

// Import loads code definition files and creates the codes that do not exist
// yet. Existing codes are left untouched and reported as skipped.
func (s *discountAdminService) Import(ctx context.Context, paths []string) (*model.ImportResult, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("discount code import is not configured")
	}
	if len(paths) == 0 {
		return nil, model.NewInvalidDiscountInputError("at least one path is required")
	}

	inputs, err := discount.LoadAll(ctx, s.loader, paths, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load discount codes: %w", err)
	}

	// Validate everything before writing anything.
	for i := range inputs {
		if err := validateDiscountInput(&inputs[i]); err != nil {
			return nil, fmt.Errorf("code %s: %w", inputs[i].Code, err)
		}
	}

	result := &model.ImportResult{Loaded: len(inputs)}
	for i := range inputs {
		_, err := s.Create(ctx, &inputs[i])
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, model.ErrDiscountCodeExists):
			result.Skipped = append(result.Skipped, discount.NormalizeCode(inputs[i].Code))
		default:
			return result, fmt.Errorf("failed to import code %s: %w", inputs[i].Code, err)
		}
	}

	s.logger.Info().
		Int("loaded", result.Loaded).
		Int("created", result.Created).
		Int("skipped", len(result.Skipped)).
		Msg("discount codes imported")

	return result, nil
}

// validateDiscountInput checks a code definition before it is stored.
func validateDiscountInput(in *model.DiscountCodeInput) error {
	if in == nil {
		return model.NewInvalidDiscountInputError("discount code input is nil")
	}

	code := discount.NormalizeCode(in.Code)
	if code == "" {
		return model.NewInvalidDiscountInputError("code is required")
	}
	if len(code) > maxCodeLength {
		return model.NewInvalidDiscountInputError(fmt.Sprintf("code cannot exceed %d characters", maxCodeLength))
	}

	switch in.DiscountType {
	case model.DiscountTypePercentage:
		if in.DiscountValue < 0 || in.DiscountValue > 100 {
			return model.NewInvalidDiscountInputError("percentage discount must be between 0 and 100")
		}
	case model.DiscountTypeFixedAmount:
		if in.DiscountValue < 0 {
			return model.NewInvalidDiscountInputError("fixed discount cannot be negative")
		}
	default:
		return model.NewInvalidDiscountInputError(fmt.Sprintf("invalid discount type %q", in.DiscountType))
	}

	if in.MinPurchaseAmount != nil && *in.MinPurchaseAmount < 0 {
		return model.NewInvalidDiscountInputError("minimum purchase amount cannot be negative")
	}
	if in.MaxUses != nil && *in.MaxUses < 0 {
		return model.NewInvalidDiscountInputError("max uses cannot be negative")
	}
	if in.MaxUsesPerCustomer != nil && *in.MaxUsesPerCustomer < 0 {
		return model.NewInvalidDiscountInputError("max uses per customer cannot be negative")
	}
	if in.ValidFrom != nil && in.ValidUntil != nil && in.ValidUntil.Before(*in.ValidFrom) {
		return model.NewInvalidDiscountInputError("validUntil cannot be before validFrom")
	}

	return nil
}
