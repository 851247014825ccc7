package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/service"
)

// AuthHandler mantiene dependencias para los endpoints de autenticación.
type AuthHandler struct {
	logger  *zap.Logger
	authSvc *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		authSvc: authSvc,
	}
}

// Register maneja POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	missing := missingFields(map[string]string{
		"full_name": req.FullName,
		"email":     req.Email,
		"phone":     req.Phone,
		"password":  req.Password,
	})
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Thiếu thông tin: " + missing})
		return
	}

	userID, err := h.authSvc.Register(c.Request.Context(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Message, "field": vErr.Field})
		case errors.Is(err, repository.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email đã được sử dụng"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra khi tạo tài khoản."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Tài khoản %s đã được tạo thành công!", req.FullName),
		"user_id": userID,
	})
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No data provided"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	user, pair, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("Welcome %s!", user.FullName),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          user,
	})
}

// VerifyToken maneja GET /api/auth/verify-token.
// El middleware ya validó el token y resolvió la identidad.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Token hợp lệ", "user": user})
}

// RefreshToken maneja POST /api/auth/refresh-token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Refresh token is required"})
		return
	}

	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Refresh token has expired"})
		case errors.Is(err, service.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid refresh token"})
		case errors.Is(err, service.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found or inactive"})
		default:
			h.logger.Error("refresh token failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error refreshing token"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// ChangePassword maneja POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	err := h.authSvc.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Message})
		case errors.Is(err, service.ErrWrongPassword):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Mật khẩu hiện tại không đúng"})
		default:
			h.logger.Error("change password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra khi đổi mật khẩu"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Đổi mật khẩu thành công"})
}

// GetProfile maneja GET /api/auth/profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lấy thông tin profile thành công",
		"user":    user,
	})
}

// UpdateProfile maneja PUT /api/auth/update-profile.
// Solo full_name y phone son mutables; el resto del cuerpo se ignora.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
		return
	}

	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	err := h.authSvc.UpdateProfile(c.Request.Context(), user.ID, service.UpdateProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Message})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Không tìm thấy user"})
		default:
			h.logger.Error("update profile failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra khi cập nhật thông tin"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cập nhật thông tin thành công"})
}

func missingFields(fields map[string]string) string {
	names := []string{"full_name", "email", "phone", "password"}
	missing := ""
	for _, name := range names {
		if fields[name] == "" {
			if missing != "" {
				missing += ", "
			}
			missing += name
		}
	}
	return missing
}
