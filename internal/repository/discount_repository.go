package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamestore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const discountCodeColumns = `
	id, code, description, discount_type, discount_value, min_purchase_amount,
	max_uses, max_uses_per_customer, valid_from, valid_until, is_active,
	uses_count, applicable_product_ids, created_at, updated_at`

// discountCodeRepository implements DiscountCodeRepository using PostgreSQL.
type discountCodeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountCodeRepository creates a new PostgreSQL-backed discount code repository.
func NewDiscountCodeRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountCodeRepository {
	return &discountCodeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount_code").Logger(),
	}
}

// storeErr tags a database failure as a store outage.
func storeErr(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, model.ErrStoreUnavailable, err)
}

func scanDiscountCode(row pgx.Row) (*model.DiscountCode, error) {
	var dc model.DiscountCode
	err := row.Scan(
		&dc.ID,
		&dc.Code,
		&dc.Description,
		&dc.DiscountType,
		&dc.DiscountValue,
		&dc.MinPurchaseAmount,
		&dc.MaxUses,
		&dc.MaxUsesPerCustomer,
		&dc.ValidFrom,
		&dc.ValidUntil,
		&dc.IsActive,
		&dc.UsesCount,
		&dc.ApplicableProductIDs,
		&dc.CreatedAt,
		&dc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

// GetByCode retrieves a discount code by its normalised code string.
func (r *discountCodeRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	query := `SELECT` + discountCodeColumns + `
		FROM discount_codes
		WHERE code = $1
	`

	dc, err := scanDiscountCode(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("discount code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount code")
		return nil, storeErr("failed to query discount code", err)
	}

	return dc, nil
}

// GetByID retrieves a code by its ID.
func (r *discountCodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DiscountCode, error) {
	query := `SELECT` + discountCodeColumns + `
		FROM discount_codes
		WHERE id = $1
	`

	dc, err := scanDiscountCode(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("discount_code_id", id.String()).Msg("discount code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to query discount code")
		return nil, storeErr("failed to query discount code", err)
	}

	return dc, nil
}

// GetCounter retrieves only the usage counter of a code.
func (r *discountCodeRepository) GetCounter(ctx context.Context, id uuid.UUID) (*model.UsageCounter, error) {
	query := `
		SELECT uses_count, max_uses
		FROM discount_codes
		WHERE id = $1
	`

	var counter model.UsageCounter
	err := r.pool.QueryRow(ctx, query, id).Scan(&counter.UsesCount, &counter.MaxUses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to query usage counter")
		return nil, storeErr("failed to query usage counter", err)
	}

	return &counter, nil
}

// IncrementUsesCount adds one use in a single conditional update. The row
// lock taken by UPDATE serialises concurrent redemptions, and the WHERE
// clause is re-evaluated against the latest row version, so uses_count
// never passes max_uses.
func (r *discountCodeRepository) IncrementUsesCount(ctx context.Context, id uuid.UUID) (*model.UsageCounter, error) {
	query := `
		UPDATE discount_codes
		SET uses_count = uses_count + 1, updated_at = NOW()
		WHERE id = $1 AND (max_uses IS NULL OR uses_count < max_uses)
		RETURNING uses_count, max_uses
	`

	counter := model.UsageCounter{Incremented: true}
	err := r.pool.QueryRow(ctx, query, id).Scan(&counter.UsesCount, &counter.MaxUses)
	if err == nil {
		r.logger.Debug().
			Str("discount_code_id", id.String()).
			Int("uses_count", counter.UsesCount).
			Msg("uses count incremented")
		return &counter, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to increment uses count")
		return nil, storeErr("failed to increment uses count", err)
	}

	// Either the code does not exist or its ceiling is reached.
	return r.GetCounter(ctx, id)
}

// InsertUsage appends a row to the usage ledger.
func (r *discountCodeRepository) InsertUsage(ctx context.Context, usage *model.DiscountCodeUsage) error {
	query := `
		INSERT INTO discount_code_usages (id, discount_code_id, order_id, customer, discount_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		usage.ID,
		usage.DiscountCodeID,
		usage.OrderID,
		usage.Customer,
		usage.DiscountAmount,
		usage.CreatedAt,
	)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			r.logger.Warn().Str("discount_code_id", usage.DiscountCodeID.String()).Msg("usage for unknown discount code")
			return model.ErrDiscountCodeNotFound
		}
		r.logger.Error().
			Err(err).
			Str("discount_code_id", usage.DiscountCodeID.String()).
			Str("order_id", usage.OrderID.String()).
			Msg("failed to insert usage record")
		return storeErr("failed to insert usage record", err)
	}

	return nil
}

// Create inserts a new code.
func (r *discountCodeRepository) Create(ctx context.Context, dc *model.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (` + discountCodeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	productIDs := dc.ApplicableProductIDs
	if productIDs == nil {
		productIDs = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		dc.ID,
		dc.Code,
		dc.Description,
		dc.DiscountType,
		dc.DiscountValue,
		dc.MinPurchaseAmount,
		dc.MaxUses,
		dc.MaxUsesPerCustomer,
		dc.ValidFrom,
		dc.ValidUntil,
		dc.IsActive,
		dc.UsesCount,
		productIDs,
		dc.CreatedAt,
		dc.UpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			r.logger.Debug().Str("code", dc.Code).Msg("discount code already exists")
			return model.ErrDiscountCodeExists
		}
		r.logger.Error().Err(err).Str("code", dc.Code).Msg("failed to create discount code")
		return storeErr("failed to create discount code", err)
	}

	r.logger.Debug().
		Str("discount_code_id", dc.ID.String()).
		Str("code", dc.Code).
		Msg("discount code created")

	return nil
}

// List retrieves codes ordered by creation time, newest first.
func (r *discountCodeRepository) List(ctx context.Context, limit, offset int) ([]model.DiscountCode, error) {
	query := `SELECT` + discountCodeColumns + `
		FROM discount_codes
		ORDER BY created_at DESC, code
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to query discount codes")
		return nil, storeErr("failed to query discount codes", err)
	}
	defer rows.Close()

	codes := []model.DiscountCode{}
	for rows.Next() {
		dc, err := scanDiscountCode(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan discount code row")
			return nil, storeErr("failed to scan discount code", err)
		}
		codes = append(codes, *dc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating discount code rows")
		return nil, storeErr("error iterating discount codes", err)
	}

	return codes, nil
}

// SetActive sets the active flag and returns the updated code.
func (r *discountCodeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*model.DiscountCode, error) {
	query := `
		UPDATE discount_codes
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING` + discountCodeColumns

	return r.updateOne(ctx, id, "failed to update active flag", query, id, active)
}

// Extend replaces the end of the validity window and returns the updated code.
func (r *discountCodeRepository) Extend(ctx context.Context, id uuid.UUID, validUntil time.Time) (*model.DiscountCode, error) {
	query := `
		UPDATE discount_codes
		SET valid_until = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING` + discountCodeColumns

	return r.updateOne(ctx, id, "failed to extend validity window", query, id, validUntil)
}

func (r *discountCodeRepository) updateOne(ctx context.Context, id uuid.UUID, msg, query string, args ...any) (*model.DiscountCode, error) {
	dc, err := scanDiscountCode(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountCodeNotFound
		}
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg(msg)
		return nil, storeErr(msg, err)
	}
	return dc, nil
}

// Delete removes a code that was never redeemed, or deactivates it when it
// has consumed uses or ledger rows. A use is counted before its ledger row is
// written, so uses_count is checked alongside the ledger.
func (r *discountCodeRepository) Delete(ctx context.Context, id uuid.UUID) (softDeleted bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return false, storeErr("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var usesCount int
	err = tx.QueryRow(ctx, `SELECT uses_count FROM discount_codes WHERE id = $1 FOR UPDATE`, id).Scan(&usesCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = model.ErrDiscountCodeNotFound
			return false, err
		}
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to lock discount code")
		err = storeErr("failed to lock discount code", err)
		return false, err
	}

	var usages int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM discount_code_usages WHERE discount_code_id = $1`, id).Scan(&usages)
	if err != nil {
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to count usages")
		err = storeErr("failed to count usages", err)
		return false, err
	}

	if usesCount > 0 || usages > 0 {
		_, err = tx.Exec(ctx, `UPDATE discount_codes SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
		softDeleted = true
	} else {
		_, err = tx.Exec(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to delete discount code")
		err = storeErr("failed to delete discount code", err)
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to commit transaction")
		err = storeErr("failed to delete discount code", err)
		return false, err
	}

	r.logger.Debug().
		Str("discount_code_id", id.String()).
		Bool("soft_deleted", softDeleted).
		Int("usages", usages).
		Msg("discount code deleted")

	return softDeleted, nil
}

// ListUsages retrieves the ledger rows of a code, oldest first.
func (r *discountCodeRepository) ListUsages(ctx context.Context, id uuid.UUID) ([]model.DiscountCodeUsage, error) {
	query := `
		SELECT id, discount_code_id, order_id, customer, discount_amount, created_at
		FROM discount_code_usages
		WHERE discount_code_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("discount_code_id", id.String()).Msg("failed to query usages")
		return nil, storeErr("failed to query usages", err)
	}
	defer rows.Close()

	usages := []model.DiscountCodeUsage{}
	for rows.Next() {
		var u model.DiscountCodeUsage
		if err := rows.Scan(&u.ID, &u.DiscountCodeID, &u.OrderID, &u.Customer, &u.DiscountAmount, &u.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan usage row")
			return nil, storeErr("failed to scan usage", err)
		}
		usages = append(usages, u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating usage rows")
		return nil, storeErr("error iterating usages", err)
	}

	return usages, nil
}
