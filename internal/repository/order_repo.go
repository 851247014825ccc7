package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
)

// OrderRepository define el contrato de persistencia para órdenes.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	NextOrderNumber(ctx context.Context) (string, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SumAmountByStatus(ctx context.Context, status string) (float64, error)
}

// PgOrderRepository implementa OrderRepository usando pgxpool.
type PgOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPgOrderRepository(pool *pgxpool.Pool) *PgOrderRepository {
	return &PgOrderRepository{pool: pool}
}

func (r *PgOrderRepository) Create(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO orders (id, order_number, customer_name, customer_phone, customer_id,
			items, total_amount, status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.pool.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerID,
		items,
		order.TotalAmount,
		order.Status,
		order.PaymentMethod,
		order.CreatedAt,
		order.UpdatedAt,
	)
	return err
}

// NextOrderNumber genera el número secuencial visible tipo DH000001.
func (r *PgOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("DH%06d", count+1), nil
}

const orderColumns = `o.id, o.order_number, o.customer_name, o.customer_phone, o.customer_id,
	o.items, o.total_amount, o.status, o.payment_method, o.created_at, o.updated_at`

func scanOrder(row pgx.Row, withUser bool) (domain.Order, error) {
	var (
		o     domain.Order
		items []byte
	)
	dest := []any{
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerID,
		&items,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
	var fullName, phone, email *string
	if withUser {
		dest = append(dest, &fullName, &phone, &email)
	}
	if err := row.Scan(dest...); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return domain.Order{}, err
	}
	if o.Items == nil {
		o.Items = []domain.CartItem{}
	}
	if withUser {
		// Si el cliente ya no existe se conservan los datos capturados en la orden.
		o.UserFullName = o.CustomerName
		o.UserPhone = o.CustomerPhone
		if fullName != nil {
			o.UserFullName = *fullName
		}
		if phone != nil {
			o.UserPhone = *phone
		}
		if email != nil {
			o.UserEmail = *email
		}
	}
	return o, nil
}

func (r *PgOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.full_name, u.phone, u.email
		FROM orders o
		LEFT JOIN users u ON u.id = o.customer_id
		ORDER BY o.created_at DESC
	`, orderColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows, true)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PgOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders o
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
	`, orderColumns)
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows, false)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PgOrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgOrderRepository) SumAmountByStatus(ctx context.Context, status string) (float64, error) {
	const query = `SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = $1`
	var total float64
	err := r.pool.QueryRow(ctx, query, status).Scan(&total)
	return total, err
}
