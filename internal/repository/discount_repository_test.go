package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"gamestore/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiscountCode(code string) *model.DiscountCode {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.DiscountCode{
		ID:            uuid.New(),
		Code:          code,
		Description:   "test code",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestDiscountCodeRepository_CreateAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	minPurchase := int64(2500)
	maxUses := 10
	perCustomer := 1
	until := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Microsecond)

	dc := newTestDiscountCode("SPRING25")
	dc.DiscountType = model.DiscountTypeFixedAmount
	dc.DiscountValue = 500
	dc.MinPurchaseAmount = &minPurchase
	dc.MaxUses = &maxUses
	dc.MaxUsesPerCustomer = &perCustomer
	dc.ValidUntil = &until
	dc.ApplicableProductIDs = []string{"G001", "G002"}

	require.NoError(t, repo.Create(ctx, dc))

	byCode, err := repo.GetByCode(ctx, "SPRING25")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, dc.ID, byCode.ID)
	assert.Equal(t, model.DiscountTypeFixedAmount, byCode.DiscountType)
	assert.Equal(t, int64(500), byCode.DiscountValue)
	require.NotNil(t, byCode.MinPurchaseAmount)
	assert.Equal(t, minPurchase, *byCode.MinPurchaseAmount)
	require.NotNil(t, byCode.MaxUses)
	assert.Equal(t, maxUses, *byCode.MaxUses)
	require.NotNil(t, byCode.ValidUntil)
	assert.True(t, until.Equal(*byCode.ValidUntil))
	assert.Nil(t, byCode.ValidFrom)
	assert.Equal(t, []string{"G001", "G002"}, byCode.ApplicableProductIDs)

	byID, err := repo.GetByID(ctx, dc.ID)
	require.NoError(t, err)
	assert.Equal(t, byCode, byID)
}

func TestDiscountCodeRepository_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	dc, err := repo.GetByCode(ctx, "GHOST")
	require.NoError(t, err)
	assert.Nil(t, dc)

	dc, err = repo.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, dc)

	counter, err := repo.GetCounter(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, counter)

	counter, err = repo.IncrementUsesCount(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, counter)
}

func TestDiscountCodeRepository_CreateDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestDiscountCode("ONCE")))

	err := repo.Create(ctx, newTestDiscountCode("ONCE"))

	assert.ErrorIs(t, err, model.ErrDiscountCodeExists)
}

func TestDiscountCodeRepository_IncrementUsesCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	maxUses := 1
	dc := newTestDiscountCode("SAVE10")
	dc.MaxUses = &maxUses
	require.NoError(t, repo.Create(ctx, dc))

	counter, err := repo.IncrementUsesCount(ctx, dc.ID)
	require.NoError(t, err)
	assert.True(t, counter.Incremented)
	assert.Equal(t, 1, counter.UsesCount)

	counter, err = repo.IncrementUsesCount(ctx, dc.ID)
	require.NoError(t, err)
	assert.False(t, counter.Incremented)
	assert.Equal(t, 1, counter.UsesCount)
	require.NotNil(t, counter.MaxUses)
	assert.Equal(t, 1, *counter.MaxUses)
}

func TestDiscountCodeRepository_IncrementUsesCount_Concurrent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	const maxUses = 5
	const attempts = 40

	limit := maxUses
	dc := newTestDiscountCode("RUSH")
	dc.MaxUses = &limit
	require.NoError(t, repo.Create(ctx, dc))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		failures  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counter, err := repo.IncrementUsesCount(ctx, dc.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			if counter.Incremented {
				succeeded++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, failures)
	assert.Equal(t, maxUses, succeeded)

	counter, err := repo.GetCounter(ctx, dc.ID)
	require.NoError(t, err)
	assert.Equal(t, maxUses, counter.UsesCount)
}

func TestDiscountCodeRepository_InsertAndListUsages(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	dc := newTestDiscountCode("LEDGER")
	require.NoError(t, repo.Create(ctx, dc))

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		err := repo.InsertUsage(ctx, &model.DiscountCodeUsage{
			ID:             uuid.New(),
			DiscountCodeID: dc.ID,
			OrderID:        uuid.New(),
			Customer:       "player@example.com",
			DiscountAmount: int64(100 * (i + 1)),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	usages, err := repo.ListUsages(ctx, dc.ID)

	require.NoError(t, err)
	require.Len(t, usages, 3)
	assert.Equal(t, int64(100), usages[0].DiscountAmount)
	assert.Equal(t, int64(300), usages[2].DiscountAmount)

	empty, err := repo.ListUsages(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDiscountCodeRepository_InsertUsage_UnknownCode(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())

	err := repo.InsertUsage(context.Background(), &model.DiscountCodeUsage{
		ID:             uuid.New(),
		DiscountCodeID: uuid.New(),
		OrderID:        uuid.New(),
		CreatedAt:      time.Now(),
	})

	assert.ErrorIs(t, err, model.ErrDiscountCodeNotFound)
}

func TestDiscountCodeRepository_List(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, code := range []string{"FIRST", "SECOND", "THIRD"} {
		dc := newTestDiscountCode(code)
		dc.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, dc))
	}

	codes, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, codes, 2)
	assert.Equal(t, "THIRD", codes[0].Code)
	assert.Equal(t, "SECOND", codes[1].Code)

	codes, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "FIRST", codes[0].Code)
}

func TestDiscountCodeRepository_SetActiveAndExtend(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	dc := newTestDiscountCode("TOGGLE")
	require.NoError(t, repo.Create(ctx, dc))

	updated, err := repo.SetActive(ctx, dc.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	until := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err = repo.Extend(ctx, dc.ID, until)
	require.NoError(t, err)
	require.NotNil(t, updated.ValidUntil)
	assert.True(t, until.Equal(*updated.ValidUntil))

	_, err = repo.SetActive(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, model.ErrDiscountCodeNotFound)

	_, err = repo.Extend(ctx, uuid.New(), until)
	assert.ErrorIs(t, err, model.ErrDiscountCodeNotFound)
}

func TestDiscountCodeRepository_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Unused code is removed", func(t *testing.T) {
		dc := newTestDiscountCode("UNUSED")
		require.NoError(t, repo.Create(ctx, dc))

		soft, err := repo.Delete(ctx, dc.ID)

		require.NoError(t, err)
		assert.False(t, soft)
		got, err := repo.GetByID(ctx, dc.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Redeemed code is deactivated", func(t *testing.T) {
		dc := newTestDiscountCode("REDEEMED")
		require.NoError(t, repo.Create(ctx, dc))
		require.NoError(t, repo.InsertUsage(ctx, &model.DiscountCodeUsage{
			ID:             uuid.New(),
			DiscountCodeID: dc.ID,
			OrderID:        uuid.New(),
			DiscountAmount: 50,
			CreatedAt:      time.Now(),
		}))

		soft, err := repo.Delete(ctx, dc.ID)

		require.NoError(t, err)
		assert.True(t, soft)
		got, err := repo.GetByID(ctx, dc.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.IsActive)

		usages, err := repo.ListUsages(ctx, dc.ID)
		require.NoError(t, err)
		assert.Len(t, usages, 1)
	})

	t.Run("Code with a counted use but no ledger row is deactivated", func(t *testing.T) {
		dc := newTestDiscountCode("INFLIGHT")
		require.NoError(t, repo.Create(ctx, dc))
		counter, err := repo.IncrementUsesCount(ctx, dc.ID)
		require.NoError(t, err)
		require.True(t, counter.Incremented)

		soft, err := repo.Delete(ctx, dc.ID)

		require.NoError(t, err)
		assert.True(t, soft)
		got, err := repo.GetByID(ctx, dc.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.False(t, got.IsActive)
		assert.Equal(t, 1, got.UsesCount)

		require.NoError(t, repo.InsertUsage(ctx, &model.DiscountCodeUsage{
			ID:             uuid.New(),
			DiscountCodeID: dc.ID,
			OrderID:        uuid.New(),
			DiscountAmount: 50,
			CreatedAt:      time.Now(),
		}))
	})

	t.Run("Unknown code", func(t *testing.T) {
		_, err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrDiscountCodeNotFound)
	})
}

func TestDiscountCodeRepository_StoreUnavailable(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	repo := NewDiscountCodeRepository(pool, zerolog.Nop())
	cleanup()

	ctx := context.Background()

	_, err := repo.GetByCode(ctx, "SAVE10")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, err = repo.IncrementUsesCount(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	err = repo.InsertUsage(ctx, &model.DiscountCodeUsage{ID: uuid.New(), DiscountCodeID: uuid.New(), OrderID: uuid.New()})
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)

	_, err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}
