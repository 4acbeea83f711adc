package discount

import (
	"context"
	"fmt"

	"gamestore/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LoadAll loads every file concurrently and merges the definitions in file
// order. When a code appears more than once the first definition wins.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) ([]model.DiscountCodeInput, error) {
	logger = logger.With().Str("component", "discount-import").Logger()

	results := make([][]model.DiscountCodeInput, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			codes, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load discount code file %s: %w", path, err)
			}
			results[i] = codes
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Int("file_count", len(paths)).Msg("discount code import failed")
		return nil, err
	}

	seen := make(map[string]struct{})
	var merged []model.DiscountCodeInput
	duplicates := 0
	for _, codes := range results {
		for _, in := range codes {
			key := NormalizeCode(in.Code)
			if _, ok := seen[key]; ok {
				duplicates++
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, in)
		}
	}

	logger.Info().
		Int("file_count", len(paths)).
		Int("codes", len(merged)).
		Int("duplicates", duplicates).
		Msg("discount code files loaded")

	return merged, nil
}
