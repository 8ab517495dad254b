// Package playback serves lessons read-only and tracks a learner's answers
// for the current viewing session. Answer state is volatile on purpose: it
// lives only until the session is reset or evicted, mirroring the client
// unmounting the lesson view.
package playback

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/service/lesson/completion"
	"CourseCanvas/internal/service/lesson/content"
	"CourseCanvas/internal/widget"
	"CourseCanvas/pkg/logger"
)

type courseStore interface {
	GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type Service struct {
	log      logger.Log
	registry *widget.Registry
	codec    *content.Codec
	engine   *completion.Engine
	courses  courseStore

	mu       sync.Mutex
	sessions map[sessionKey]*answerSession
}

type sessionKey struct {
	UserID   uuid.UUID
	CourseID uuid.UUID
}

type answerSession struct {
	answers models.AnswerMap
	seed    int64
}

// LessonView is what the player receives: rendered nodes in document order
// plus the exact layout and grid the lesson was authored with.
type LessonView struct {
	Nodes      []*widget.RenderNode     `json:"nodes"`
	Layout     []models.LayoutEntry     `json:"layout"`
	GridConfig models.GridConfig        `json:"grid_config"`
	Progress   models.CompletionSummary `json:"progress"`
}

func NewService(log logger.Log, registry *widget.Registry, codec *content.Codec, engine *completion.Engine, courses courseStore) *Service {
	return &Service{
		log:      log,
		registry: registry,
		codec:    codec,
		engine:   engine,
		courses:  courses,
		sessions: make(map[sessionKey]*answerSession),
	}
}

// Lesson renders a course's lesson in read-only mode.
func (s *Service) Lesson(ctx context.Context, courseID, userID uuid.UUID) (LessonView, error) {
	_, lesson, err := s.loadLesson(ctx, courseID, userID)
	if err != nil {
		return LessonView{}, err
	}

	sess := s.session(userID, courseID)

	view := LessonView{
		GridConfig: lesson.GridConfig,
		Layout:     make([]models.LayoutEntry, 0, len(lesson.Widgets)),
		Nodes:      make([]*widget.RenderNode, 0, len(lesson.Widgets)),
	}
	for _, record := range lesson.Widgets {
		container := widget.Container{
			Instance: record.Instance(),
			Mode:     widget.ModeView,
			Seed:     sess.seed,
		}
		view.Nodes = append(view.Nodes, container.Render(s.registry))
		view.Layout = append(view.Layout, *record.Layout)
	}

	s.mu.Lock()
	answers := cloneAnswers(sess.answers)
	s.mu.Unlock()
	view.Progress = s.engine.AggregateCorrect(lesson.Widgets, answers)
	return view, nil
}

// SubmitAnswer grades one widget's answer and records the verdict. Each call
// is an independent "check" event: re-answering overwrites the prior record.
func (s *Service) SubmitAnswer(ctx context.Context, courseID, userID uuid.UUID, widgetID string, raw interface{}) (models.AnswerRecord, models.CompletionSummary, error) {
	_, lesson, err := s.loadLesson(ctx, courseID, userID)
	if err != nil {
		return models.AnswerRecord{}, models.CompletionSummary{}, err
	}

	record, ok := findWidget(lesson, widgetID)
	if !ok {
		return models.AnswerRecord{}, models.CompletionSummary{}, app_errors.ErrWidgetNotFound
	}

	sess := s.session(userID, courseID)
	var stored models.AnswerRecord
	container := widget.Container{
		Instance: record.Instance(),
		Mode:     widget.ModeView,
		Seed:     sess.seed,
		OnAnswer: func(isCorrect bool, value interface{}) {
			stored = models.AnswerRecord{
				WidgetID:   widgetID,
				IsCorrect:  isCorrect,
				Value:      value,
				AnsweredAt: time.Now(),
			}
			s.mu.Lock()
			sess.answers[widgetID] = stored
			s.mu.Unlock()
		},
	}
	if _, err := container.SubmitAnswer(s.registry, raw); err != nil {
		return models.AnswerRecord{}, models.CompletionSummary{}, err
	}

	s.mu.Lock()
	answers := cloneAnswers(sess.answers)
	s.mu.Unlock()
	return stored, s.engine.AggregateCorrect(lesson.Widgets, answers), nil
}

// Progress reports both aggregate variants: the answered-gated count for a
// progress bar and the correctness-gated decision for the completion gate.
func (s *Service) Progress(ctx context.Context, courseID, userID uuid.UUID) (answered models.CompletionSummary, correct models.CompletionSummary, err error) {
	_, lesson, err := s.loadLesson(ctx, courseID, userID)
	if err != nil {
		return models.CompletionSummary{}, models.CompletionSummary{}, err
	}
	sess := s.session(userID, courseID)
	s.mu.Lock()
	answers := cloneAnswers(sess.answers)
	s.mu.Unlock()
	return s.engine.Aggregate(lesson.Widgets, answers), s.engine.AggregateCorrect(lesson.Widgets, answers), nil
}

// Reset discards the learner's answer session, as navigating away does.
func (s *Service) Reset(courseID, userID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionKey{UserID: userID, CourseID: courseID})
	s.mu.Unlock()
}

func (s *Service) loadLesson(ctx context.Context, courseID, userID uuid.UUID) (*models.Course, models.Lesson, error) {
	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, models.Lesson{}, err
	}
	if !course.Public && course.AuthorID != userID {
		return nil, models.Lesson{}, app_errors.ErrCourseNotPublished
	}
	return course, s.codec.Decode(course.Content), nil
}

func (s *Service) session(userID, courseID uuid.UUID) *answerSession {
	key := sessionKey{UserID: userID, CourseID: courseID}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		sess = &answerSession{
			answers: models.AnswerMap{},
			seed:    rand.Int63(),
		}
		s.sessions[key] = sess
	}
	return sess
}

// findWidget matches the submitted widget id against every identifier a
// record answers to, wrapper and content id alike.
func findWidget(lesson models.Lesson, widgetID string) (models.LessonWidget, bool) {
	for _, record := range lesson.Widgets {
		for _, id := range record.Identifiers() {
			if id == widgetID {
				return record, true
			}
		}
	}
	return models.LessonWidget{}, false
}

func cloneAnswers(in models.AnswerMap) models.AnswerMap {
	out := make(models.AnswerMap, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
