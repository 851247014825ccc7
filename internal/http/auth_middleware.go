package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/service"
)

const currentUserKey = "current_user"

// RequireAuth resuelve la identidad desde el bearer token y la deja en el
// contexto. El usuario se vuelve a consultar en cada request: un token
// vigente de una cuenta borrada o desactivada no pasa.
func RequireAuth(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "auth not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		user, err := authSvc.VerifyToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token đã hết hạn"})
			case errors.Is(err, service.ErrTokenInvalid):
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không hợp lệ"})
			case errors.Is(err, service.ErrNotAuthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Tài khoản không tồn tại hoặc đã bị khóa"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
			}
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin compone sobre RequireAuth: exige rol admin sobre la identidad
// ya resuelta; nunca la reemplaza.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token không được cung cấp"})
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Cần quyền admin để truy cập"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser obtiene la identidad autenticada desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
