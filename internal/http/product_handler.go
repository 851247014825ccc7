package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
	"github.com/Callmeduobgne/Luong-ban-hoa/internal/repository"
)

// ProductHandler mantiene dependencias para los endpoints del catálogo.
type ProductHandler struct {
	logger   *zap.Logger
	products repository.ProductRepository
}

func NewProductHandler(logger *zap.Logger, products repository.ProductRepository) *ProductHandler {
	return &ProductHandler{
		logger:   logger,
		products: products,
	}
}

type productRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// ListProducts maneja GET /api/products.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "100"))

	products, total, err := h.products.List(c.Request.Context(), repository.ProductFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		h.logger.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	if perPage < 1 {
		perPage = 100
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"products": products,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     perPage,
			"total":        total,
			"total_pages":  (total + perPage - 1) / perPage,
		},
	}})
}

// GetProduct maneja GET /api/products/:id.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}
		h.logger.Error("get product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// CreateProduct maneja POST /api/admin/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	now := time.Now().UTC()
	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      images,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.products.Create(c.Request.Context(), product); err != nil {
		h.logger.Error("create product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
}

// UpdateProduct maneja PUT /api/admin/products/:id.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	product := domain.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      images,
	}
	if err := h.products.Update(c.Request.Context(), product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}
		h.logger.Error("update product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": "Product updated successfully"})
}

// DeleteProduct maneja DELETE /api/admin/products/:id.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}
		h.logger.Error("delete product failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": "Product deleted successfully"})
}
