package repository

import (
	"context"
	"testing"
	"time"

	"gamestore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogue(now time.Time) []model.Product {
	return []model.Product{
		{ID: "G001", Name: "Astral Drift", Platform: "pc", Genre: "racing", PriceCents: 2999, CreatedAt: now},
		{ID: "G002", Name: "Bramble Keep", Platform: "switch", Genre: "rpg", PriceCents: 4999, CreatedAt: now},
		{ID: "G003", Name: "Cinder Run", Platform: "pc", Genre: "platformer", PriceCents: 1499, CreatedAt: now},
		{ID: "G004", Name: "Deep Signal", Platform: "ps5", Genre: "horror", PriceCents: 5999, CreatedAt: now},
		{ID: "G005", Name: "Ember Tactics", Platform: "pc", Genre: "strategy", PriceCents: 3999, CreatedAt: now},
	}
}

func TestProductRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	seedProducts(t, pool, testCatalogue(time.Now()))

	tests := []struct {
		name        string
		limit       int
		offset      int
		platform    string
		expected    int
		expectFirst string
	}{
		{name: "Get all products", limit: 10, offset: 0, expected: 5, expectFirst: "G001"},
		{name: "Get first page", limit: 2, offset: 0, expected: 2, expectFirst: "G001"},
		{name: "Get second page", limit: 2, offset: 2, expected: 2, expectFirst: "G003"},
		{name: "Get last page", limit: 2, offset: 4, expected: 1, expectFirst: "G005"},
		{name: "Offset beyond results", limit: 10, offset: 10, expected: 0},
		{name: "Filter by platform", limit: 10, offset: 0, platform: "pc", expected: 3, expectFirst: "G001"},
		{name: "Unknown platform", limit: 10, offset: 0, platform: "dreamcast", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.GetAll(context.Background(), tt.limit, tt.offset, tt.platform)

			require.NoError(t, err)
			assert.Len(t, products, tt.expected)
			if tt.expectFirst != "" {
				assert.Equal(t, tt.expectFirst, products[0].ID)
			}
			for _, p := range products {
				if tt.platform != "" {
					assert.Equal(t, tt.platform, p.Platform)
				}
			}
		})
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	seedProducts(t, pool, testCatalogue(time.Now()))

	t.Run("Existing product", func(t *testing.T) {
		product, err := repo.GetByID(context.Background(), "G002")

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Bramble Keep", product.Name)
		assert.Equal(t, "switch", product.Platform)
		assert.Equal(t, int64(4999), product.PriceCents)
	})

	t.Run("Missing product", func(t *testing.T) {
		product, err := repo.GetByID(context.Background(), "NOPE")

		require.NoError(t, err)
		assert.Nil(t, product)
	})
}

func TestProductRepository_GetByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	seedProducts(t, pool, testCatalogue(time.Now()))

	tests := []struct {
		name     string
		ids      []string
		expected int
	}{
		{"Several products", []string{"G001", "G004"}, 2},
		{"Some missing", []string{"G001", "NOPE"}, 1},
		{"Empty list", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.GetByIDs(context.Background(), tt.ids)

			require.NoError(t, err)
			assert.Len(t, products, tt.expected)
		})
	}
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	repo := NewProductRepository(pool, zerolog.Nop())
	cleanup()

	ctx := context.Background()

	_, err := repo.GetAll(ctx, 10, 0, "")
	assert.Error(t, err)

	_, err = repo.GetByID(ctx, "G001")
	assert.Error(t, err)

	_, err = repo.GetByIDs(ctx, []string{"G001"})
	assert.Error(t, err)
}
