package course

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/delivery/http/controllers/middleware"
	"CourseCanvas/internal/models"
	"CourseCanvas/pkg/logger"
)

type CourseService interface {
	CreateCourse(ctx context.Context, name, content string, moduleID uuid.UUID, level int, public bool, authorID uuid.UUID) (*models.Course, error)
	GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, update models.CourseUpdate, authorID uuid.UUID) (*models.Course, error)
	UploadLogo(ctx context.Context, id uuid.UUID, filename string, file io.Reader, size int64, contentType string, authorID uuid.UUID) error
}

type QueryService interface {
	ListCourses(ctx context.Context, search string, limit, offset int) ([]models.CoursePreview, error)
	MyCourses(ctx context.Context, authorID uuid.UUID) ([]models.CoursePreview, error)
}

type Handler struct {
	log     logger.Log
	courses CourseService
	query   QueryService
}

func NewHandler(log logger.Log, courses CourseService, query QueryService) *Handler {
	return &Handler{log: log, courses: courses, query: query}
}

type createCourseRequest struct {
	Name     string    `json:"name" binding:"required"`
	Content  string    `json:"content"`
	ModuleID uuid.UUID `json:"module_id"`
	Level    int       `json:"level"`
	Public   bool      `json:"public"`
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	authorID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	course, err := h.courses.CreateCourse(c.Request.Context(), req.Name, req.Content, req.ModuleID, req.Level, req.Public, authorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *Handler) CourseByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	course, err := h.courses.GetCourseByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, app_errors.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	var update models.CourseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	authorID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	course, err := h.courses.UpdateCourse(c.Request.Context(), id, update, authorID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotCourseAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *Handler) ListCourses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	previews, err := h.query.ListCourses(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": previews})
}

func (h *Handler) MyCourses(c *gin.Context) {
	authorID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	previews, err := h.query.MyCourses(c.Request.Context(), authorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": previews})
}

func (h *Handler) UploadLogo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open file"})
		return
	}
	defer file.Close()

	ct := fileHeader.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(filepath.Ext(fileHeader.Filename))
	}

	authorID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err = h.courses.UploadLogo(c.Request.Context(), id, fileHeader.Filename, file, fileHeader.Size, ct, authorID)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrNotCourseAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrNotImage), errors.Is(err, app_errors.ErrFileSize):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
