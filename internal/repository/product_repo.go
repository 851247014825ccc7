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

// ProductFilter parametriza el catálogo público.
type ProductFilter struct {
	Search   string
	Category string
	Page     int
	PerPage  int
}

// ProductRepository define el contrato de persistencia para productos.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

// PgProductRepository implementa ProductRepository usando pgxpool.
type PgProductRepository struct {
	pool *pgxpool.Pool
}

func NewPgProductRepository(pool *pgxpool.Pool) *PgProductRepository {
	return &PgProductRepository{pool: pool}
}

const productColumns = `id, name, description, price, category, images, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p      domain.Product
		images []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&images,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *PgProductRepository) Create(ctx context.Context, product domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO products (id, name, description, price, category, images, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		images,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return err
}

func (r *PgProductRepository) GetByID(ctx context.Context, id string) (domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *PgProductRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND name ILIKE $%d`, len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 100
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *PgProductRepository) Update(ctx context.Context, product domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return err
	}
	const query = `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5, images = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		images,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
