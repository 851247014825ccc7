package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/service"
)

// AdminHandler mantiene dependencias para el dashboard y gestión de usuarios/órdenes.
type AdminHandler struct {
	logger   *zap.Logger
	adminSvc *service.AdminService
	orderSvc *service.OrderService
}

func NewAdminHandler(logger *zap.Logger, adminSvc *service.AdminService, orderSvc *service.OrderService) *AdminHandler {
	return &AdminHandler{
		logger:   logger,
		adminSvc: adminSvc,
		orderSvc: orderSvc,
	}
}

// DashboardStats maneja GET /api/admin/dashboard-stats.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.adminSvc.DashboardStats(c.Request.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy thống kê dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// RecentActivity maneja GET /api/admin/recent-activity.
func (h *AdminHandler) RecentActivity(c *gin.Context) {
	activities, err := h.adminSvc.RecentActivity(c.Request.Context())
	if err != nil {
		h.logger.Error("recent activity failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy hoạt động gần đây"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": activities})
}

// ListUsers maneja GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	users, total, err := h.adminSvc.ListUsers(c.Request.Context(), repository.UserFilter{
		Search:  c.Query("search"),
		Role:    c.Query("role"),
		Status:  c.Query("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy danh sách users"})
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	if perPage < 1 {
		perPage = 10
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"users": users,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     perPage,
			"total":        total,
			"total_pages":  (total + perPage - 1) / perPage,
		},
	}})
}

// GetUser maneja GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.adminSvc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Không tìm thấy user"})
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy chi tiết user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// ToggleUserStatus maneja PUT /api/admin/users/:id/status.
func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	admin, _ := CurrentUser(c)
	newStatus, err := h.adminSvc.ToggleUserStatus(c.Request.Context(), admin.ID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfAction):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không thể thay đổi trạng thái của chính mình"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Không tìm thấy user"})
		default:
			h.logger.Error("toggle user status failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật trạng thái user"})
		}
		return
	}

	message := "Đã vô hiệu hóa user"
	if newStatus {
		message = "Đã kích hoạt user"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": gin.H{"is_active": newStatus}})
}

// DeleteUser maneja DELETE /api/admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	admin, _ := CurrentUser(c)
	err := h.adminSvc.DeleteUser(c.Request.Context(), admin.ID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfAction):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không thể xóa chính mình"})
		case errors.Is(err, service.ErrAdminTarget):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không thể xóa admin khác"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Không tìm thấy user"})
		default:
			h.logger.Error("delete user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi xóa user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đã xóa user thành công"})
}

// ListOrders maneja GET /api/admin/orders.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderSvc.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy đơn hàng"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"orders": orders}})
}

// CreateOrder maneja POST /api/admin/orders; disponible a cualquier usuario
// autenticado, los datos del cliente salen de la identidad.
func (h *AdminHandler) CreateOrder(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}

	var req struct {
		Items         []domain.CartItem `json:"items"`
		TotalAmount   float64           `json:"total_amount"`
		PaymentMethod string            `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	order, err := h.orderSvc.Create(c.Request.Context(), user, service.CreateOrderInput{
		Items:         req.Items,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.logger.Error("create order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi tạo đơn hàng"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đơn hàng đã được tạo", "order_id": order.ID})
}

// MyOrders maneja GET /api/admin/my-orders.
func (h *AdminHandler) MyOrders(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}

	orders, err := h.orderSvc.ListByCustomer(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list my orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi lấy đơn hàng"})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"orders": orders}})
}

// UpdateOrderStatus maneja PUT /api/admin/orders/:id/status.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	err := h.orderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderState):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Trạng thái không hợp lệ"})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Không tìm thấy đơn hàng hoặc không cập nhật được"})
		default:
			h.logger.Error("update order status failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Lỗi khi cập nhật trạng thái đơn hàng"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật trạng thái đơn hàng thành công"})
}
