package lesson

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/delivery/http/controllers/middleware"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
	"CourseCanvas/pkg/logger"
)

type AuthoringService interface {
	Palette() []models.WidgetMetadata
	Open(ctx context.Context, courseID, authorID uuid.UUID) (uuid.UUID, error)
	Snapshot(sessionID uuid.UUID) ([]models.WidgetInstance, []models.LayoutEntry, models.GridConfig, error)
	RenderAll(sessionID uuid.UUID) ([]*widget.RenderNode, error)
	AddWidget(sessionID uuid.UUID, widgetType string) (models.WidgetInstance, error)
	UpdateWidget(sessionID uuid.UUID, widgetID string, next models.WidgetInstance) error
	MoveWidget(sessionID uuid.UUID, entry models.LayoutEntry) error
	RemoveWidget(sessionID uuid.UUID, widgetID string) error
	SelectWidget(sessionID uuid.UUID, widgetID string) error
	OpenDraft(sessionID uuid.UUID, widgetID string) (models.WidgetInstance, error)
	UpdateDraft(sessionID uuid.UUID, widgetID string, next models.WidgetInstance) error
	CommitDraft(sessionID uuid.UUID, widgetID string) error
	DiscardDraft(sessionID uuid.UUID, widgetID string, force bool) error
	UploadWidgetImage(ctx context.Context, sessionID uuid.UUID, widgetID, filename string, file io.Reader, size int64, contentType string) (models.WidgetInstance, error)
	Save(ctx context.Context, sessionID uuid.UUID) ([]string, error)
	Close(sessionID uuid.UUID)
}

type AuthoringHandler struct {
	log     logger.Log
	service AuthoringService
}

func NewAuthoringHandler(log logger.Log, service AuthoringService) *AuthoringHandler {
	return &AuthoringHandler{log: log, service: service}
}

// Palette lists the registered widget types for the authoring sidebar.
func (h *AuthoringHandler) Palette(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"widgets": h.service.Palette()})
}

func (h *AuthoringHandler) OpenSession(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	authorID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	sessionID, err := h.service.Open(c.Request.Context(), courseID, authorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

func (h *AuthoringHandler) Snapshot(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	widgets, layout, grid, err := h.service.Snapshot(sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"widgets":     widgets,
		"layout":      layout,
		"grid_config": grid,
	})
}

func (h *AuthoringHandler) Render(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	nodes, err := h.service.RenderAll(sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodes})
}

type addWidgetRequest struct {
	Type string `json:"type" binding:"required"`
}

func (h *AuthoringHandler) AddWidget(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req addWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inst, err := h.service.AddWidget(sessionID, req.Type)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inst)
}

func (h *AuthoringHandler) UpdateWidget(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var next models.WidgetInstance
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateWidget(sessionID, c.Param("widget_id"), next); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) MoveWidget(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var entry models.LayoutEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry.I = c.Param("widget_id")
	if err := h.service.MoveWidget(sessionID, entry); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) RemoveWidget(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveWidget(sessionID, c.Param("widget_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) SelectWidget(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.service.SelectWidget(sessionID, c.Param("widget_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) OpenDraft(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	draft, err := h.service.OpenDraft(sessionID, c.Param("widget_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *AuthoringHandler) UpdateDraft(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var next models.WidgetInstance
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateDraft(sessionID, c.Param("widget_id"), next); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) CommitDraft(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.service.CommitDraft(sessionID, c.Param("widget_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) DiscardDraft(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	force := c.Query("force") == "true"
	err := h.service.DiscardDraft(sessionID, c.Param("widget_id"), force)
	if err != nil {
		if errors.Is(err, app_errors.ErrUnsavedChanges) {
			// 409 tells the client to show its discard confirmation.
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) UploadWidgetImage(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
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

	inst, err := h.service.UploadWidgetImage(
		c.Request.Context(), sessionID, c.Param("widget_id"),
		fileHeader.Filename, file, fileHeader.Size, ct,
	)
	if err != nil {
		if errors.Is(err, app_errors.ErrNotImage) || errors.Is(err, app_errors.ErrFileSize) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

func (h *AuthoringHandler) Save(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	warnings, err := h.service.Save(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"warnings": warnings})
}

func (h *AuthoringHandler) CloseSession(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	h.service.Close(sessionID)
	c.Status(http.StatusNoContent)
}

func (h *AuthoringHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *AuthoringHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrSessionNotFound),
		errors.Is(err, app_errors.ErrWidgetNotFound),
		errors.Is(err, app_errors.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrNotCourseAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrWidgetTypeUnknown),
		errors.Is(err, app_errors.ErrLabelRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
