package discount

import (
	"context"
	"errors"
	"testing"

	"gamestore/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLoader is a Loader backed by a function.
type mockLoader struct {
	loadFunc func(ctx context.Context, path string) ([]model.DiscountCodeInput, error)
}

func (m *mockLoader) Load(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, path)
	}
	return nil, errors.New("not implemented")
}

func TestFallbackLoader_S3Success(t *testing.T) {
	s3 := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
			assert.Equal(t, "discounts/spring.csv.gz", path, "S3 key should have prefix")
			return []model.DiscountCodeInput{{Code: "S3CODE"}}, nil
		},
	}
	local := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, errors.New("should not be called")
		},
	}

	loader := NewFallbackLoader(s3, local, "discounts/", zerolog.Nop())

	codes, err := loader.Load(context.Background(), "spring.csv.gz")

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "S3CODE", codes[0].Code)
}

func TestFallbackLoader_S3FailsFallsBackToLocal(t *testing.T) {
	s3 := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	local := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
			assert.Equal(t, "spring.csv.gz", path, "local path should not have prefix")
			return []model.DiscountCodeInput{{Code: "LOCALCODE"}}, nil
		},
	}

	loader := NewFallbackLoader(s3, local, "discounts/", zerolog.Nop())

	codes, err := loader.Load(context.Background(), "spring.csv.gz")

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "LOCALCODE", codes[0].Code)
}

func TestFallbackLoader_NoS3UsesLocal(t *testing.T) {
	called := false
	local := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
			called = true
			return []model.DiscountCodeInput{{Code: "LOCALCODE"}}, nil
		},
	}

	loader := NewFallbackLoader(nil, local, "discounts/", zerolog.Nop())

	_, err := loader.Load(context.Background(), "spring.csv.gz")

	require.NoError(t, err)
	assert.True(t, called)
}

func TestFallbackLoader_BothFail(t *testing.T) {
	s3 := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
			return nil, errors.New("S3 connection failed")
		},
	}
	local := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
			return nil, errors.New("file not found")
		},
	}

	loader := NewFallbackLoader(s3, local, "discounts/", zerolog.Nop())

	codes, err := loader.Load(context.Background(), "spring.csv.gz")

	require.Error(t, err)
	assert.Nil(t, codes)
	assert.Contains(t, err.Error(), "file not found")
}

func TestNewLoader_S3Disabled(t *testing.T) {
	loader := NewLoader(context.Background(), S3Options{Enabled: false, Prefix: "discounts/"}, zerolog.Nop())

	_, ok := loader.(*fileLoader)
	assert.True(t, ok, "disabled S3 should use the file loader directly")
}
