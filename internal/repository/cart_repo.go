package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
)

// CartRepository persiste el carrito por usuario como un documento completo.
type CartRepository interface {
	Get(ctx context.Context, userID string) (domain.Cart, error)
	Put(ctx context.Context, userID string, items []domain.CartItem) error
}

// PgCartRepository implementa CartRepository usando pgxpool.
type PgCartRepository struct {
	pool *pgxpool.Pool
}

func NewPgCartRepository(pool *pgxpool.Pool) *PgCartRepository {
	return &PgCartRepository{pool: pool}
}

// Get devuelve el carrito del usuario; un carrito inexistente es uno vacío.
func (r *PgCartRepository) Get(ctx context.Context, userID string) (domain.Cart, error) {
	const query = `SELECT user_id, items, updated_at FROM carts WHERE user_id = $1`
	var (
		cart  domain.Cart
		items []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(&cart.UserID, &items, &cart.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	if err != nil {
		return domain.Cart{}, err
	}
	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func (r *PgCartRepository) Put(ctx context.Context, userID string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO carts (user_id, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query, userID, payload, time.Now().UTC())
	return err
}
