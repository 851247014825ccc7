package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
)

// AdminService agrupa las operaciones del dashboard y la gestión de usuarios.
type AdminService struct {
	logger *zap.Logger
	users  repository.UserRepository
	orders repository.OrderRepository
}

var (
	ErrSelfAction  = errors.New("cannot act on own account")
	ErrAdminTarget = errors.New("cannot act on another admin")
)

func NewAdminService(logger *zap.Logger, users repository.UserRepository, orders repository.OrderRepository) *AdminService {
	return &AdminService{
		logger: logger,
		users:  users,
		orders: orders,
	}
}

type DashboardStats struct {
	TotalUsers         int     `json:"total_users"`
	AdminUsers         int     `json:"admin_users"`
	ActiveUsers        int     `json:"active_users"`
	TodayRegistrations int     `json:"today_registrations"`
	RecentLogins       int     `json:"recent_logins"`
	Revenue            float64 `json:"revenue"`
	PendingRevenue     float64 `json:"pending_revenue"`
	Growth             Growth  `json:"growth"`
}

// Growth son porcentajes estáticos que el dashboard espera.
type Growth struct {
	UsersGrowth         int `json:"users_growth"`
	ActivityGrowth      int `json:"activity_growth"`
	RegistrationsGrowth int `json:"registrations_growth"`
}

// DashboardStats agrega contadores de usuarios e ingresos por estado de orden.
func (s *AdminService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	userStats, err := s.users.Stats(ctx, todayStart, weekAgo)
	if err != nil {
		return DashboardStats{}, err
	}
	revenue, err := s.orders.SumAmountByStatus(ctx, domain.OrderStatusCompleted)
	if err != nil {
		return DashboardStats{}, err
	}
	pending, err := s.orders.SumAmountByStatus(ctx, domain.OrderStatusPending)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		TotalUsers:         userStats.Total,
		AdminUsers:         userStats.Admins,
		ActiveUsers:        userStats.Active,
		TodayRegistrations: userStats.TodayRegistrations,
		RecentLogins:       userStats.RecentLogins,
		Revenue:            revenue,
		PendingRevenue:     pending,
		Growth:             Growth{UsersGrowth: 25, ActivityGrowth: 12, RegistrationsGrowth: 100},
	}, nil
}

type Activity struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	User        string     `json:"user"`
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
	Icon        string     `json:"icon"`
	IconColor   string     `json:"iconColor"`
}

// RecentActivity arma el feed de registros y logins recientes (máximo 15).
func (s *AdminService) RecentActivity(ctx context.Context) ([]Activity, error) {
	users, err := s.users.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(users)*2)
	for _, u := range users {
		createdAt := u.CreatedAt
		activities = append(activities, Activity{
			ID:          u.ID + "_register",
			Type:        "register",
			User:        u.FullName,
			Description: "đã đăng ký tài khoản mới",
			Timestamp:   &createdAt,
			Icon:        "UserPlus",
			IconColor:   "text-blue-600",
		})
		if u.LastLogin != nil {
			activities = append(activities, Activity{
				ID:          u.ID + "_login",
				Type:        "login",
				User:        u.FullName,
				Description: "đã đăng nhập vào hệ thống",
				Timestamp:   u.LastLogin,
				Icon:        "LogIn",
				IconColor:   "text-green-600",
			})
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		ti, tj := activities[i].Timestamp, activities[j].Timestamp
		if ti == nil || tj == nil {
			return tj == nil
		}
		return ti.After(*tj)
	})
	if len(activities) > 15 {
		activities = activities[:15]
	}
	return activities, nil
}

// ListUsers devuelve usuarios paginados con filtros de búsqueda, rol y estado.
func (s *AdminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	return s.users.List(ctx, filter)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// ToggleUserStatus invierte is_active; un admin no puede tocarse a sí mismo.
func (s *AdminService) ToggleUserStatus(ctx context.Context, adminID, targetID string) (bool, error) {
	if adminID == targetID {
		return false, ErrSelfAction
	}
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	newStatus := !user.IsActive
	if err := s.users.SetActive(ctx, targetID, newStatus); err != nil {
		return false, err
	}
	return newStatus, nil
}

// DeleteUser elimina una cuenta; nunca la propia ni la de otro admin.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, targetID string) error {
	if adminID == targetID {
		return ErrSelfAction
	}
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsAdmin() {
		return ErrAdminTarget
	}
	return s.users.Delete(ctx, targetID)
}
