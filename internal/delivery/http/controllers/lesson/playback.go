package lesson

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/delivery/http/controllers/middleware"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/service/lesson/playback"
	"CourseCanvas/pkg/logger"
)

type PlaybackService interface {
	Lesson(ctx context.Context, courseID, userID uuid.UUID) (playback.LessonView, error)
	SubmitAnswer(ctx context.Context, courseID, userID uuid.UUID, widgetID string, raw interface{}) (models.AnswerRecord, models.CompletionSummary, error)
	Progress(ctx context.Context, courseID, userID uuid.UUID) (models.CompletionSummary, models.CompletionSummary, error)
	Reset(courseID, userID uuid.UUID)
}

type PlaybackHandler struct {
	log     logger.Log
	service PlaybackService
}

func NewPlaybackHandler(log logger.Log, service PlaybackService) *PlaybackHandler {
	return &PlaybackHandler{log: log, service: service}
}

func (h *PlaybackHandler) Lesson(c *gin.Context) {
	courseID, userID, ok := h.ids(c)
	if !ok {
		return
	}
	view, err := h.service.Lesson(c.Request.Context(), courseID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type submitAnswerRequest struct {
	WidgetID string      `json:"widget_id" binding:"required"`
	Answer   interface{} `json:"answer" binding:"required"`
}

func (h *PlaybackHandler) SubmitAnswer(c *gin.Context) {
	courseID, userID, ok := h.ids(c)
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, summary, err := h.service.SubmitAnswer(c.Request.Context(), courseID, userID, req.WidgetID, req.Answer)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_correct": record.IsCorrect,
		"progress":   summary,
	})
}

func (h *PlaybackHandler) Progress(c *gin.Context) {
	courseID, userID, ok := h.ids(c)
	if !ok {
		return
	}
	answered, correct, err := h.service.Progress(c.Request.Context(), courseID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"answered": answered,
		"correct":  correct,
		"percent":  answered.Percent(),
	})
}

func (h *PlaybackHandler) Reset(c *gin.Context) {
	courseID, userID, ok := h.ids(c)
	if !ok {
		return
	}
	h.service.Reset(courseID, userID)
	c.Status(http.StatusNoContent)
}

func (h *PlaybackHandler) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	return courseID, userID, true
}

func (h *PlaybackHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrWidgetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrCourseNotPublished):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrNotInteractive),
		errors.Is(err, app_errors.ErrWidgetTypeUnknown):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
