package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
)

// OrderService maneja creación y ciclo de vida de órdenes.
type OrderService struct {
	orders repository.OrderRepository
}

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrderState = errors.New("invalid order status")
)

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

type CreateOrderInput struct {
	Items         []domain.CartItem
	TotalAmount   float64
	PaymentMethod string
}

// Create registra una orden pending; los datos del cliente se toman de la
// identidad autenticada, nunca del cuerpo del request.
func (s *OrderService) Create(ctx context.Context, customer domain.User, input CreateOrderInput) (domain.Order, error) {
	number, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}
	items := input.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	order := domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   number,
		CustomerName:  customer.FullName,
		CustomerPhone: customer.Phone,
		CustomerID:    customer.ID,
		Items:         items,
		TotalAmount:   input.TotalAmount,
		Status:        domain.OrderStatusPending,
		PaymentMethod: paymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

// UpdateStatus aplica una transición de estado validada por admin.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidOrderState
	}
	err := s.orders.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	return err
}
