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

// BlogFilter parametriza el listado de blogs.
type BlogFilter struct {
	Search  string
	Status  string
	Page    int
	PerPage int
}

// BlogRepository define el contrato de persistencia para blogs.
type BlogRepository interface {
	Create(ctx context.Context, blog domain.Blog) error
	GetByID(ctx context.Context, id string) (domain.Blog, error)
	List(ctx context.Context, filter BlogFilter) ([]domain.Blog, int, error)
	ListFeatured(ctx context.Context, limit int) ([]domain.Blog, error)
	Update(ctx context.Context, blog domain.Blog) error
	Delete(ctx context.Context, id string) error
}

// PgBlogRepository implementa BlogRepository usando pgxpool.
type PgBlogRepository struct {
	pool *pgxpool.Pool
}

func NewPgBlogRepository(pool *pgxpool.Pool) *PgBlogRepository {
	return &PgBlogRepository{pool: pool}
}

const blogColumns = `id, title, content, excerpt, image, author, status, tags, is_featured, created_at, updated_at`

func scanBlog(row pgx.Row) (domain.Blog, error) {
	var (
		b    domain.Blog
		tags []byte
	)
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Content,
		&b.Excerpt,
		&b.Image,
		&b.Author,
		&b.Status,
		&tags,
		&b.IsFeatured,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return domain.Blog{}, err
	}
	if err := json.Unmarshal(tags, &b.Tags); err != nil {
		return domain.Blog{}, err
	}
	return b, nil
}

func (r *PgBlogRepository) Create(ctx context.Context, blog domain.Blog) error {
	tags, err := json.Marshal(blog.Tags)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO blogs (id, title, content, excerpt, image, author, status, tags, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.pool.Exec(ctx, query,
		blog.ID,
		blog.Title,
		blog.Content,
		blog.Excerpt,
		blog.Image,
		blog.Author,
		blog.Status,
		tags,
		blog.IsFeatured,
		blog.CreatedAt,
		blog.UpdatedAt,
	)
	return err
}

func (r *PgBlogRepository) GetByID(ctx context.Context, id string) (domain.Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs WHERE id = $1`, blogColumns)
	return scanBlog(r.pool.QueryRow(ctx, query, id))
}

func (r *PgBlogRepository) List(ctx context.Context, filter BlogFilter) ([]domain.Blog, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND (title ILIKE $%d OR content ILIKE $%d OR excerpt ILIKE $%d)`,
			len(args), len(args), len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`+where, args...).Scan(&total); err != nil {
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
	query := fmt.Sprintf(`SELECT %s FROM blogs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		blogColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, b)
	}
	return blogs, total, rows.Err()
}

func (r *PgBlogRepository) ListFeatured(ctx context.Context, limit int) ([]domain.Blog, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM blogs
		WHERE status = 'published' AND is_featured
		ORDER BY created_at DESC
		LIMIT $1
	`, blogColumns)
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

func (r *PgBlogRepository) Update(ctx context.Context, blog domain.Blog) error {
	tags, err := json.Marshal(blog.Tags)
	if err != nil {
		return err
	}
	const query = `
		UPDATE blogs
		SET title = $2, content = $3, excerpt = $4, image = $5, author = $6,
			status = $7, tags = $8, is_featured = $9, updated_at = $10
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		blog.ID,
		blog.Title,
		blog.Content,
		blog.Excerpt,
		blog.Image,
		blog.Author,
		blog.Status,
		tags,
		blog.IsFeatured,
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

func (r *PgBlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
