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

// defaultBlogAuthor firma las entradas cuando el cliente no manda autor.
const defaultBlogAuthor = "N07.floral"

// BlogHandler mantiene dependencias para los endpoints del blog.
type BlogHandler struct {
	logger *zap.Logger
	blogs  repository.BlogRepository
}

func NewBlogHandler(logger *zap.Logger, blogs repository.BlogRepository) *BlogHandler {
	return &BlogHandler{
		logger: logger,
		blogs:  blogs,
	}
}

type blogRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	Image      string   `json:"image"`
	Author     string   `json:"author"`
	Status     string   `json:"status"`
	Tags       []string `json:"tags"`
	IsFeatured bool     `json:"is_featured"`
}

func (r blogRequest) toDomain() domain.Blog {
	author := r.Author
	if author == "" {
		author = defaultBlogAuthor
	}
	status := r.Status
	if status == "" {
		status = domain.BlogStatusPublished
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Blog{
		Title:      r.Title,
		Content:    r.Content,
		Excerpt:    r.Excerpt,
		Image:      r.Image,
		Author:     author,
		Status:     status,
		Tags:       tags,
		IsFeatured: r.IsFeatured,
	}
}

func (h *BlogHandler) list(c *gin.Context, status string) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "100"))

	blogs, total, err := h.blogs.List(c.Request.Context(), repository.BlogFilter{
		Search:  c.Query("search"),
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		h.logger.Error("list blogs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	if blogs == nil {
		blogs = []domain.Blog{}
	}
	if perPage < 1 {
		perPage = 100
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"blogs": blogs,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     perPage,
			"total":        total,
			"total_pages":  (total + perPage - 1) / perPage,
		},
	}})
}

// ListPublished maneja GET /api/blogs: solo entradas publicadas.
func (h *BlogHandler) ListPublished(c *gin.Context) {
	h.list(c, domain.BlogStatusPublished)
}

// ListAll maneja GET /api/admin/blogs: todos los estados, filtrable.
func (h *BlogHandler) ListAll(c *gin.Context) {
	h.list(c, c.Query("status"))
}

// ListFeatured maneja GET /api/blogs/featured.
func (h *BlogHandler) ListFeatured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if limit < 1 {
		limit = 3
	}
	blogs, err := h.blogs.ListFeatured(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list featured blogs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	if blogs == nil {
		blogs = []domain.Blog{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": blogs})
}

// GetBlog maneja GET /api/blogs/:id.
func (h *BlogHandler) GetBlog(c *gin.Context) {
	blog, err := h.blogs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Blog not found"})
			return
		}
		h.logger.Error("get blog failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": blog})
}

// CreateBlog maneja POST /api/admin/blogs.
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create blog request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	blog := req.toDomain()
	blog.ID = uuid.NewString()
	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	if err := h.blogs.Create(c.Request.Context(), blog); err != nil {
		h.logger.Error("create blog failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": blog})
}

// UpdateBlog maneja PUT /api/admin/blogs/:id.
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update blog request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Không có dữ liệu được gửi"})
		return
	}

	blog := req.toDomain()
	blog.ID = c.Param("id")

	if err := h.blogs.Update(c.Request.Context(), blog); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Blog not found"})
			return
		}
		h.logger.Error("update blog failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": "Blog updated successfully"})
}

// DeleteBlog maneja DELETE /api/admin/blogs/:id.
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	if err := h.blogs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Blog not found"})
			return
		}
		h.logger.Error("delete blog failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Có lỗi xảy ra"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": "Blog deleted successfully"})
}
