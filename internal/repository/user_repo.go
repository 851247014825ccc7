package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
)

// ErrDuplicateEmail señala violación del índice único de email.
var ErrDuplicateEmail = errors.New("email already registered")

// ProfileUpdate describe los campos mutables del perfil; nil = sin cambio.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
}

// UserFilter parametriza el listado de usuarios para admin.
type UserFilter struct {
	Search  string
	Role    string
	Status  string // "active" | "inactive" | ""
	Page    int
	PerPage int
}

// UserStats agrega contadores para el dashboard de admin.
type UserStats struct {
	Total              int
	Admins             int
	Active             int
	TodayRegistrations int
	RecentLogins       int
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error
	ChangePassword(ctx context.Context, id, passwordHash string) error
	SetLastLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, int, error)
	ListRecent(ctx context.Context, limit int) ([]domain.User, error)
	Stats(ctx context.Context, todayStart, weekAgo time.Time) (UserStats, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, full_name, email, phone, password_hash, role, is_active,
	email_verified, phone_verified, created_at, updated_at, last_login, login_count`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.EmailVerified,
		&u.PhoneVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastLogin,
		&u.LoginCount,
	)
	return u, err
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, full_name, email, phone, password_hash, role, is_active,
			email_verified, phone_verified, created_at, updated_at, last_login, login_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.EmailVerified,
		user.PhoneVerified,
		user.CreatedAt,
		user.UpdatedAt,
		user.LastLogin,
		user.LoginCount,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	const query = `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
			phone = COALESCE($3, phone),
			updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, upd.FullName, upd.Phone, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) ChangePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, passwordHash, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetLastLogin registra el login y avanza el contador monotónicamente.
func (r *PgUserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE users
		SET last_login = $2, login_count = login_count + 1, updated_at = $2
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, at)
	return err
}

func (r *PgUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(` AND (full_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)`,
			len(args), len(args), len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(` AND role = $%d`, len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status == "active")
		where += fmt.Sprintf(` AND is_active = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *PgUserRepository) ListRecent(ctx context.Context, limit int) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC LIMIT $1`, userColumns)
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) Stats(ctx context.Context, todayStart, weekAgo time.Time) (UserStats, error) {
	const query = `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE last_login >= $2)
		FROM users
	`
	var st UserStats
	err := r.pool.QueryRow(ctx, query, todayStart, weekAgo).Scan(
		&st.Total,
		&st.Admins,
		&st.Active,
		&st.TodayRegistrations,
		&st.RecentLogins,
	)
	return st, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
