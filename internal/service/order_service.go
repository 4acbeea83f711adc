package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gamestore/internal/model"
	"gamestore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	validator   DiscountValidator
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	validator DiscountValidator,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		validator:   validator,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder creates a new order.
//
// When a discount code is supplied it is validated against the priced cart
// before anything is written. The order is then stored as pending and the
// redemption is booked: one usage increment and one ledger row. An order
// whose code ran out between validation and redemption is cancelled; an
// order whose redemption failed is marked failed. A successful order ends
// up completed.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	productIDs := uniqueProductIDs(req.Items)

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	if len(products) != len(productIDs) {
		s.logger.Warn().
			Int("expected", len(productIDs)).
			Int("found", len(products)).
			Msg("product validation failed")
		return nil, model.ErrProductNotFound
	}

	prices := make(map[string]int64, len(products))
	for _, p := range products {
		prices[p.ID] = p.PriceCents
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:        uuid.New(),
		Customer:  strings.TrimSpace(req.Customer),
		Status:    model.OrderStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = model.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: prices[item.ProductID],
		}
		order.SubtotalCents += prices[item.ProductID] * int64(item.Quantity)
	}
	order.TotalCents = order.SubtotalCents

	if req.DiscountCode != nil && strings.TrimSpace(*req.DiscountCode) != "" {
		if err := s.applyDiscount(ctx, order, *req.DiscountCode, productIDs); err != nil {
			return nil, err
		}
	}

	if err := s.insertOrder(ctx, order, orderItems); err != nil {
		return nil, err
	}

	if order.DiscountCodeID != nil {
		if err := s.redeem(ctx, order); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Int64("total_cents", order.TotalCents).
		Msg("order created successfully")

	return model.NewOrderResponse(order, orderItems, products), nil
}

// applyDiscount validates the code against the priced cart and attaches it
// to the order.
func (s *orderService) applyDiscount(ctx context.Context, order *model.Order, code string, productIDs []string) error {
	cart := &model.CartContext{
		CurrentCartAmount: order.SubtotalCents,
		ProductIDs:        productIDs,
	}

	result, err := s.validator.Validate(ctx, code, cart)
	if err != nil {
		s.logger.Error().Err(err).Str("discount_code", code).Msg("failed to validate discount code")
		return fmt.Errorf("failed to validate discount code: %w", err)
	}

	if !result.IsValid {
		s.logger.Warn().
			Str("discount_code", code).
			Str("reason", string(result.Reason)).
			Msg("discount code rejected")
		return model.NewInapplicableDiscountError(result.Reason)
	}

	var amount int64
	if result.DiscountAmountCalculated != nil {
		amount = *result.DiscountAmountCalculated
	}

	id := result.ID
	stored := result.Code
	order.DiscountCodeID = &id
	order.DiscountCode = &stored
	order.DiscountCents = amount
	order.TotalCents = order.SubtotalCents - amount
	order.Status = model.OrderStatusPending

	return nil
}

// insertOrder stores the order and its items in one transaction.
func (s *orderService) insertOrder(ctx context.Context, order *model.Order, items []model.OrderItem) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// redeem books the redemption of the order's discount code. The usage
// counter is never rolled back, so a failure after the increment leaves
// the code with one use consumed and the order marked failed.
func (s *orderService) redeem(ctx context.Context, order *model.Order) error {
	codeID := *order.DiscountCodeID
	log := s.logger.With().
		Str("order_id", order.ID.String()).
		Str("discount_code_id", codeID.String()).
		Logger()

	counter, err := s.validator.IncrementUsage(ctx, codeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to increment discount code usage")
		s.setStatus(ctx, order, model.OrderStatusFailed)
		return fmt.Errorf("failed to redeem discount code: %w", err)
	}

	if !counter.Incremented {
		log.Warn().Int("uses_count", counter.UsesCount).Msg("discount code exhausted before redemption")
		s.setStatus(ctx, order, model.OrderStatusCancelled)
		return model.ErrDiscountExhausted
	}

	_, err = s.validator.RecordUsage(ctx, &model.UsageRecordInput{
		DiscountCodeID: codeID,
		OrderID:        order.ID,
		Customer:       order.Customer,
		DiscountAmount: order.DiscountCents,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to record discount code usage")
		s.setStatus(ctx, order, model.OrderStatusFailed)
		return fmt.Errorf("failed to record discount code usage: %w", err)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, model.OrderStatusCompleted); err != nil {
		log.Error().Err(err).Msg("failed to complete order")
		return fmt.Errorf("failed to complete order: %w", err)
	}
	order.Status = model.OrderStatusCompleted

	log.Info().
		Int("uses_count", counter.UsesCount).
		Int64("discount_cents", order.DiscountCents).
		Msg("discount code redeemed")

	return nil
}

// setStatus records a terminal status for an order whose redemption did not
// complete. A failure here is logged only; the caller is already returning
// the original error.
func (s *orderService) setStatus(ctx context.Context, order *model.Order, status model.OrderStatus) {
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return
	}
	order.Status = status
}

// GetByID retrieves an order by its ID with all items and product details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	products, err := s.productRepo.GetByIDs(ctx, uniqueItemProductIDs(items))
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	return model.NewOrderResponse(order, items, products), nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "order request is nil")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("item %d: product ID is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

func uniqueProductIDs(items []model.OrderItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func uniqueItemProductIDs(items []model.OrderItem) []string {
	reqs := make([]model.OrderItemRequest, len(items))
	for i, item := range items {
		reqs[i] = model.OrderItemRequest{ProductID: item.ProductID}
	}
	return uniqueProductIDs(reqs)
}
