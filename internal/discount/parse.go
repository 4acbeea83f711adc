package discount

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gamestore/internal/model"
)

// Column order of a code definition file. Only the first three are required.
const (
	colCode = iota
	colType
	colValue
	colMinPurchase
	colMaxUses
	colValidFrom
	colValidUntil
	colDescription
	numColumns
)

// parseCodes reads CSV code definitions from r. Blank lines and lines
// starting with '#' are skipped.
func parseCodes(ctx context.Context, r io.Reader) ([]model.DiscountCodeInput, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var codes []model.DiscountCodeInput
	for {
		if len(codes)%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		in, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		codes = append(codes, in)
	}

	return codes, nil
}

func parseRecord(record []string) (model.DiscountCodeInput, error) {
	var in model.DiscountCodeInput

	if len(record) < colMinPurchase {
		return in, fmt.Errorf("expected at least %d columns, got %d", colMinPurchase, len(record))
	}
	if len(record) > numColumns {
		return in, fmt.Errorf("expected at most %d columns, got %d", numColumns, len(record))
	}

	field := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	in.Code = NormalizeCode(field(colCode))
	if in.Code == "" {
		return in, fmt.Errorf("code is required")
	}

	in.DiscountType = model.DiscountType(strings.ToLower(field(colType)))
	if !in.DiscountType.IsValid() {
		return in, fmt.Errorf("invalid discount type %q", field(colType))
	}

	value, err := strconv.ParseInt(field(colValue), 10, 64)
	if err != nil {
		return in, fmt.Errorf("invalid discount value %q: %w", field(colValue), err)
	}
	in.DiscountValue = value

	if s := field(colMinPurchase); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return in, fmt.Errorf("invalid minimum purchase %q: %w", s, err)
		}
		in.MinPurchaseAmount = &v
	}

	if s := field(colMaxUses); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return in, fmt.Errorf("invalid max uses %q: %w", s, err)
		}
		in.MaxUses = &v
	}

	if s := field(colValidFrom); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return in, fmt.Errorf("invalid valid_from %q: %w", s, err)
		}
		in.ValidFrom = &t
	}

	if s := field(colValidUntil); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return in, fmt.Errorf("invalid valid_until %q: %w", s, err)
		}
		in.ValidUntil = &t
	}

	in.Description = field(colDescription)

	return in, nil
}
