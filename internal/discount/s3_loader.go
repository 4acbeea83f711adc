package discount

import (
	"compress/gzip"
	"context"
	"fmt"

	"gamestore/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for gzipped code files stored in AWS S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based discount code loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "discount-s3-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return &s3Loader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load reads a gzipped CSV object. key is the full object key.
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.DiscountCodeInput, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading discount code file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	gzipReader, err := gzip.NewReader(result.Body)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for S3 object %s: %w", key, err)
	}
	defer gzipReader.Close()

	codes, err := parseCodes(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("error reading discount code file from S3")
		return nil, fmt.Errorf("error reading discount code file from S3 %s: %w", key, err)
	}

	l.logger.Info().
		Str("key", key).
		Int("codes_loaded", len(codes)).
		Msg("discount code file loaded from S3")

	return codes, nil
}

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries S3 first and falls back to
// the local file system. A nil s3Loader means local files only.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		logger:     logger.With().Str("component", "discount-fallback-loader").Logger(),
	}
}

// Load prefixes path with the S3 prefix for the S3 attempt and uses it
// unchanged for the local attempt.
func (l *fallbackLoader) Load(ctx context.Context, path string) ([]model.DiscountCodeInput, error) {
	if l.s3Loader != nil {
		key := l.s3Prefix + path

		codes, err := l.s3Loader.Load(ctx, key)
		if err == nil {
			return codes, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to load from S3, falling back to local file system")
	}

	return l.fileLoader.Load(ctx, path)
}

// S3Options selects the optional S3 source of code files.
type S3Options struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string
}

// NewLoader builds the loader used for imports. With S3 enabled it tries the
// bucket first and the local file system second. When the S3 client cannot
// be created only local files are used.
func NewLoader(ctx context.Context, opts S3Options, logger zerolog.Logger) Loader {
	fileLoader := NewFileLoader(logger)

	if !opts.Enabled {
		logger.Info().Msg("using local file system for discount code files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := NewS3Loader(ctx, opts.Bucket, opts.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		s3Loader = nil
	}

	return NewFallbackLoader(s3Loader, fileLoader, opts.Prefix, logger)
}
