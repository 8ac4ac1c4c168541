package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/validate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderService struct {
	Prods  repos.Products
	Orders repos.Orders
}

func NewOrderService(prods repos.Products, orders repos.Orders) *OrderService {
	return &OrderService{Prods: prods, Orders: orders}
}

type reservation struct {
	id  primitive.ObjectID
	qty int
}

// Create places an order for userID.
//
// Every line is checked against current stock before anything is written.
// Stock is then reserved product by product with a conditional decrement; if
// a reservation loses a race with another order, the ones already taken are
// released and the order is rejected. The order document is written last.
// A crash between reservation and insert leaves stock reserved with no order.
func (s *OrderService) Create(ctx context.Context, userID string, items []domain.OrderItem) (*domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		metrics.OrderRejected("invalid_request")
		return nil, Validation("user_id is required")
	}
	if len(items) == 0 {
		metrics.OrderRejected("invalid_request")
		return nil, Validation("items must not be empty")
	}

	var (
		order = make([]primitive.ObjectID, 0, len(items))
		stock = make(map[primitive.ObjectID]int, len(items))
		need  = make(map[primitive.ObjectID]int, len(items))
		lines = make([]domain.OrderItem, 0, len(items))
	)
	for _, it := range items {
		id, ok := validate.ID(it.ProductID)
		if !ok {
			metrics.OrderRejected("invalid_product_id")
			return nil, Validation(fmt.Sprintf("Invalid product id %s", it.ProductID))
		}
		if !validate.Qty(it.Quantity) {
			metrics.OrderRejected("invalid_request")
			return nil, Validation(fmt.Sprintf("Invalid quantity for %s", id.Hex()))
		}
		if _, seen := stock[id]; !seen {
			p, err := s.Prods.Get(ctx, id)
			if errors.Is(err, repos.ErrNotFound) {
				metrics.OrderRejected("product_not_found")
				return nil, Validation(fmt.Sprintf("Product %s not found", id.Hex()))
			}
			if err != nil {
				return nil, fmt.Errorf("get product %s: %w", id.Hex(), err)
			}
			stock[id] = p.Stock
			order = append(order, id)
		}
		need[id] += it.Quantity
		if need[id] > stock[id] {
			metrics.OrderRejected("insufficient_stock")
			return nil, Validation(fmt.Sprintf("Insufficient stock for %s", id.Hex()))
		}
		lines = append(lines, domain.OrderItem{ProductID: id.Hex(), Quantity: it.Quantity})
	}

	reserved := make([]reservation, 0, len(order))
	for _, id := range order {
		if err := s.Prods.Reserve(ctx, id, need[id]); err != nil {
			s.release(ctx, reserved)
			if errors.Is(err, repos.ErrInsufficientStock) {
				metrics.OrderRejected("reservation_conflict")
				return nil, Validation(fmt.Sprintf("Insufficient stock for %s", id.Hex()))
			}
			return nil, fmt.Errorf("reserve stock %s: %w", id.Hex(), err)
		}
		reserved = append(reserved, reservation{id: id, qty: need[id]})
	}

	o := &domain.Order{UserID: userID, Items: lines, Status: domain.OrderStatusPlaced}
	if err := s.Orders.Create(ctx, o); err != nil {
		s.release(ctx, reserved)
		return nil, fmt.Errorf("insert order: %w", err)
	}
	metrics.OrderPlaced()
	return o, nil
}

// release hands reserved stock back. It runs even if the request context
// was cancelled; failures are logged since nothing else can undo them.
func (s *OrderService) release(ctx context.Context, reserved []reservation) {
	ctx = context.WithoutCancel(ctx)
	for _, r := range reserved {
		if err := s.Prods.Release(ctx, r.id, r.qty); err != nil {
			applog.Logger().Error().Err(err).
				Str("product_id", r.id.Hex()).
				Int("qty", r.qty).
				Msg("stock release failed")
			continue
		}
		metrics.StockReleased(r.qty)
	}
}

func (s *OrderService) Get(ctx context.Context, rawID string) (*domain.Order, error) {
	id, ok := validate.ID(rawID)
	if !ok {
		return nil, Validation("Invalid order id")
	}
	o, err := s.Orders.Get(ctx, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}
