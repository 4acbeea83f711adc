package discount

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"gamestore/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped code files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based discount code loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "discount-file-loader").Logger(),
	}
}

// Load reads a gzipped CSV file of code definitions.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.DiscountCodeInput, error) {
	l.logger.Info().Str("file", filePath).Msg("loading discount code file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open discount code file")
		return nil, fmt.Errorf("failed to open discount code file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	codes, err := parseCodes(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading discount code file")
		return nil, fmt.Errorf("error reading discount code file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("codes_loaded", len(codes)).
		Msg("discount code file loaded")

	return codes, nil
}
