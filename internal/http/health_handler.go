package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/db"
)

// HealthHandler expone los endpoints de salud e información de la API.
type HealthHandler struct {
	pool        *pgxpool.Pool
	environment string
}

func NewHealthHandler(pool *pgxpool.Pool, environment string) *HealthHandler {
	return &HealthHandler{
		pool:        pool,
		environment: environment,
	}
}

// Root maneja GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Flower Corner API is running! 🌸",
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     "1.0.0",
		"environment": h.environment,
	})
}

// APIHealth maneja GET /api/health con chequeo de base de datos.
func (h *HealthHandler) APIHealth(c *gin.Context) {
	dbStatus := "Connected"
	if err := db.Ping(c.Request.Context(), h.pool); err != nil {
		dbStatus = "Disconnected"
	}
	c.JSON(http.StatusOK, gin.H{
		"api_status":      "OK",
		"database_status": dbStatus,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// APIInfo maneja GET /api/info.
func (h *HealthHandler) APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Flower Corner API",
		"version":     "1.0.0",
		"description": "Backend API for Flower Corner e-commerce website",
		"endpoints": gin.H{
			"authentication": []string{
				"POST /api/auth/register",
				"POST /api/auth/login",
				"GET /api/auth/verify-token",
				"POST /api/auth/refresh-token",
				"POST /api/auth/change-password",
				"GET /api/auth/profile",
				"PUT /api/auth/update-profile",
			},
			"health": []string{
				"GET /",
				"GET /api/health",
				"GET /api/info",
			},
		},
	})
}
