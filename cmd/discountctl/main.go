// Command discountctl runs discount code maintenance tasks against the
// store database.
//
// Usage:
//
//	discountctl import <file> [file...]
//	discountctl check [-cart cents] <code>
//	discountctl ping
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gamestore/internal/config"
	"gamestore/internal/database"
	"gamestore/internal/discount"
	"gamestore/internal/model"
	"gamestore/internal/repository"
	"gamestore/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var errUsage = errors.New("usage: discountctl <import|check|ping> [arguments]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "import", "check", "ping":
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	switch args[0] {
	case "import":
		return runImport(ctx, cfg, pool, args[1:], out, logger)
	case "check":
		return runCheck(ctx, pool, args[1:], out, logger)
	default:
		return runPing(ctx, pool, out)
	}
}

// runImport creates the codes defined in the given files.
func runImport(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, args []string, out io.Writer, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = cfg.Discount.ImportFiles
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files given and DISCOUNT_IMPORT_FILES is empty: %w", errUsage)
	}

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	loader := discount.NewLoader(ctx, discount.S3Options{
		Enabled: cfg.S3.Enabled,
		Bucket:  cfg.S3.Bucket,
		Region:  cfg.S3.Region,
		Prefix:  cfg.S3.Prefix,
	}, logger)

	admin := service.NewDiscountAdminService(repository.NewDiscountCodeRepository(pool, logger), loader, logger)

	result, err := admin.Import(ctx, paths)
	if err != nil {
		return err
	}

	return printJSON(out, result)
}

// runCheck validates a single code, optionally against a cart amount.
func runCheck(ctx context.Context, pool *pgxpool.Pool, args []string, out io.Writer, logger zerolog.Logger) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	cart := fs.Int64("cart", -1, "cart amount in cents; omit to skip the minimum purchase check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("check takes exactly one code: %w", errUsage)
	}

	var cartCtx *model.CartContext
	if *cart >= 0 {
		cartCtx = &model.CartContext{CurrentCartAmount: *cart}
	}

	validator := discount.NewValidator(repository.NewDiscountCodeRepository(pool, logger), logger)

	result, err := validator.Validate(ctx, fs.Arg(0), cartCtx)
	if err != nil {
		return err
	}

	return printJSON(out, result)
}

// runPing reports the database the configuration points at.
func runPing(ctx context.Context, pool *pgxpool.Pool, out io.Writer) error {
	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}

	_, err := fmt.Fprintf(out, "Successfully connected to database: %s\n", dbName)
	return err
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
