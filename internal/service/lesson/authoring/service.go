// Package authoring holds server-side editor sessions: an author opens a
// course's lesson into a session, edits widgets and layout in memory, and
// saves the whole document back through the course store.
package authoring

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/service/lesson/content"
	"CourseCanvas/internal/widget"
	"CourseCanvas/pkg/logger"
)

type courseStore interface {
	GetCourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error)
}

type mediaStore interface {
	UploadImage(ctx context.Context, courseID uuid.UUID, widgetID, filename string, reader io.Reader, size int64, contentType string) (string, error)
	GetImageURL(ctx context.Context, objectKey string) (string, error)
	DeleteImage(ctx context.Context, objectKey string) error
}

type Service struct {
	log      logger.Log
	registry *widget.Registry
	codec    *content.Codec
	courses  courseStore
	media    mediaStore
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

type session struct {
	id       uuid.UUID
	courseID uuid.UUID
	authorID uuid.UUID
	widgets  []models.WidgetInstance
	layout   []models.LayoutEntry
	grid     models.GridConfig
	selected string
	drafts   map[string]models.WidgetInstance
	touched  time.Time
}

func NewService(log logger.Log, registry *widget.Registry, codec *content.Codec, courses courseStore, media mediaStore, ttl time.Duration) *Service {
	return &Service{
		log:      log,
		registry: registry,
		codec:    codec,
		courses:  courses,
		media:    media,
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Palette lists the widget types an author can add, in registration order.
func (s *Service) Palette() []models.WidgetMetadata {
	return s.registry.ListMetadata()
}

// Open imports the course's stored lesson into a fresh editor session.
// Only the course author may edit.
func (s *Service) Open(ctx context.Context, courseID, authorID uuid.UUID) (uuid.UUID, error) {
	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return uuid.Nil, err
	}
	if course.AuthorID != authorID {
		return uuid.Nil, app_errors.ErrNotCourseAuthor
	}

	widgets, layout, grid := s.codec.Import(course.Content)
	sess := &session{
		id:       uuid.New(),
		courseID: courseID,
		authorID: authorID,
		widgets:  widgets,
		layout:   layout,
		grid:     grid,
		drafts:   make(map[string]models.WidgetInstance),
		touched:  time.Now(),
	}

	s.mu.Lock()
	s.evictExpiredLocked()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info("editor session opened", "session_id", sess.id, "course_id", courseID, "widgets", len(widgets))
	return sess.id, nil
}

// Snapshot returns the session's current lesson state.
func (s *Service) Snapshot(sessionID uuid.UUID) ([]models.WidgetInstance, []models.LayoutEntry, models.GridConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return nil, nil, models.GridConfig{}, err
	}
	widgets := make([]models.WidgetInstance, len(sess.widgets))
	for i := range sess.widgets {
		widgets[i] = sess.widgets[i].Clone()
	}
	layout := append([]models.LayoutEntry(nil), sess.layout...)
	return widgets, layout, sess.grid, nil
}

// RenderAll renders every widget in edit mode, carrying the selection flag.
func (s *Service) RenderAll(sessionID uuid.UUID) ([]*widget.RenderNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return nil, err
	}
	nodes := make([]*widget.RenderNode, 0, len(sess.widgets))
	for _, inst := range sess.widgets {
		container := widget.Container{
			Instance:    inst,
			Mode:        widget.ModeEdit,
			IsSelected:  sess.selected == inst.ID,
			IsDraggable: true,
		}
		nodes = append(nodes, container.Render(s.registry))
	}
	return nodes, nil
}

// AddWidget creates an instance of the given type with its defaults and
// places it below the current layout.
func (s *Service) AddWidget(sessionID uuid.UUID, widgetType string) (models.WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.WidgetInstance{}, err
	}
	entry, ok := s.registry.Resolve(widgetType)
	if !ok {
		return models.WidgetInstance{}, app_errors.ErrWidgetTypeUnknown
	}

	inst := entry.Impl.NewInstance(uuid.NewString())
	bottom := 0
	for _, l := range sess.layout {
		if l.Y+l.H > bottom {
			bottom = l.Y + l.H
		}
	}
	sess.widgets = append(sess.widgets, inst)
	sess.layout = append(sess.layout, models.LayoutEntry{
		I: inst.ID,
		X: 0,
		Y: bottom,
		W: content.DefaultWidgetW,
		H: content.DefaultWidgetH,
	})
	sess.selected = inst.ID
	return inst.Clone(), nil
}

// UpdateWidget replaces an instance wholesale. Partial patches are not
// accepted: the session copy is the single source of truth and replacement
// keeps it free of aliasing.
func (s *Service) UpdateWidget(sessionID uuid.UUID, widgetID string, next models.WidgetInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	return sess.replaceWidget(widgetID, next)
}

// MoveWidget replaces the layout entry for one widget.
func (s *Service) MoveWidget(sessionID uuid.UUID, entry models.LayoutEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	for i := range sess.layout {
		if sess.layout[i].I == entry.I {
			sess.layout[i] = entry
			return nil
		}
	}
	return app_errors.ErrWidgetNotFound
}

// RemoveWidget deletes the instance, its layout entry and any open draft.
// An uploaded image backing the widget is removed best-effort.
func (s *Service) RemoveWidget(sessionID uuid.UUID, widgetID string) error {
	s.mu.Lock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	var removed models.WidgetInstance
	found := false
	for i := range sess.widgets {
		if sess.widgets[i].ID == widgetID {
			removed = sess.widgets[i]
			sess.widgets = append(sess.widgets[:i], sess.widgets[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return app_errors.ErrWidgetNotFound
	}
	for i := range sess.layout {
		if sess.layout[i].I == widgetID {
			sess.layout = append(sess.layout[:i], sess.layout[i+1:]...)
			break
		}
	}
	delete(sess.drafts, widgetID)
	if sess.selected == widgetID {
		sess.selected = ""
	}
	s.mu.Unlock()

	if s.media != nil {
		if key, ok := removed.Fields["objectKey"].(string); ok && key != "" {
			if err := s.media.DeleteImage(context.Background(), key); err != nil {
				s.log.WarnErr("failed to delete widget image", err, "widget_id", widgetID)
			}
		}
	}
	return nil
}

// UploadWidgetImage stores an image for an image widget and points the
// widget's content at it. The widget ends up carrying both the durable
// object key and a presigned URL for immediate display.
func (s *Service) UploadWidgetImage(ctx context.Context, sessionID uuid.UUID, widgetID, filename string, file io.Reader, size int64, contentType string) (models.WidgetInstance, error) {
	s.mu.Lock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return models.WidgetInstance{}, err
	}
	inst, err := sess.widget(widgetID)
	courseID := sess.courseID
	s.mu.Unlock()
	if err != nil {
		return models.WidgetInstance{}, err
	}
	if inst.Type != "ImageWidget" {
		return models.WidgetInstance{}, app_errors.ErrNotImage
	}

	objectKey, err := s.media.UploadImage(ctx, courseID, widgetID, filename, file, size, contentType)
	if err != nil {
		return models.WidgetInstance{}, err
	}
	url, err := s.media.GetImageURL(ctx, objectKey)
	if err != nil {
		return models.WidgetInstance{}, err
	}

	next := inst.Clone()
	if next.Fields == nil {
		next.Fields = map[string]interface{}{}
	}
	next.Fields["objectKey"] = objectKey
	next.Fields["url"] = url

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err = s.sessionLocked(sessionID)
	if err != nil {
		return models.WidgetInstance{}, err
	}
	if err := sess.replaceWidget(widgetID, next); err != nil {
		return models.WidgetInstance{}, err
	}
	return next.Clone(), nil
}

// SelectWidget marks a widget as the editing target.
func (s *Service) SelectWidget(sessionID uuid.UUID, widgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	if widgetID != "" {
		if _, err := sess.widget(widgetID); err != nil {
			return err
		}
	}
	sess.selected = widgetID
	return nil
}

// OpenDraft starts a modal editing session for one widget and returns the
// draft copy. The stored instance stays untouched until the draft commits.
func (s *Service) OpenDraft(sessionID uuid.UUID, widgetID string) (models.WidgetInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return models.WidgetInstance{}, err
	}
	inst, err := sess.widget(widgetID)
	if err != nil {
		return models.WidgetInstance{}, err
	}
	draft := inst.Clone()
	sess.drafts[widgetID] = draft
	return draft.Clone(), nil
}

// UpdateDraft replaces the draft copy. Identity fields cannot drift: the
// draft keeps the original id and type.
func (s *Service) UpdateDraft(sessionID uuid.UUID, widgetID string, next models.WidgetInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	draft, ok := sess.drafts[widgetID]
	if !ok {
		return app_errors.ErrDraftNotFound
	}
	next = next.Clone()
	next.ID = draft.ID
	next.Type = draft.Type
	sess.drafts[widgetID] = next
	return nil
}

// CommitDraft replaces the stored instance with the draft and closes it.
func (s *Service) CommitDraft(sessionID uuid.UUID, widgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	draft, ok := sess.drafts[widgetID]
	if !ok {
		return app_errors.ErrDraftNotFound
	}
	if err := sess.replaceWidget(widgetID, draft); err != nil {
		return err
	}
	delete(sess.drafts, widgetID)
	return nil
}

// DiscardDraft throws the draft away. When the draft differs from the stored
// instance the caller must pass force, giving the client its confirmation
// gate before edits are lost.
func (s *Service) DiscardDraft(sessionID uuid.UUID, widgetID string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		return err
	}
	draft, ok := sess.drafts[widgetID]
	if !ok {
		return app_errors.ErrDraftNotFound
	}
	if !force {
		original, err := sess.widget(widgetID)
		if err == nil && !original.Equal(draft) {
			return app_errors.ErrUnsavedChanges
		}
	}
	delete(sess.drafts, widgetID)
	return nil
}

// Save validates every widget, exports the document and replaces the course
// content wholesale. Advisory warnings come back with a successful save;
// a hard validation error aborts before anything is written, and a store
// failure leaves the session intact so no work is lost.
func (s *Service) Save(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	s.mu.Lock()
	sess, err := s.sessionLocked(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	widgets := make([]models.WidgetInstance, len(sess.widgets))
	for i := range sess.widgets {
		widgets[i] = sess.widgets[i].Clone()
	}
	layout := append([]models.LayoutEntry(nil), sess.layout...)
	grid := sess.grid
	courseID := sess.courseID
	s.mu.Unlock()

	var warnings []string
	for _, inst := range widgets {
		entry, ok := s.registry.Resolve(inst.Type)
		if !ok {
			// Unknown types are preserved as-is; the author may be saving
			// a lesson that references a retired widget type.
			continue
		}
		validator, ok := entry.Impl.(widget.Validator)
		if !ok {
			continue
		}
		w, err := validator.Validate(inst)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}

	doc, err := s.codec.Export(widgets, layout, grid)
	if err != nil {
		return nil, err
	}
	if _, err := s.courses.UpdateCourse(ctx, courseID, models.CourseUpdate{Content: &doc}); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// Close drops the session. Unsaved session state is discarded.
func (s *Service) Close(sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *Service) sessionLocked(sessionID uuid.UUID) (*session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, app_errors.ErrSessionNotFound
	}
	if s.ttl > 0 && time.Since(sess.touched) > s.ttl {
		delete(s.sessions, sessionID)
		return nil, app_errors.ErrSessionNotFound
	}
	sess.touched = time.Now()
	return sess, nil
}

func (s *Service) evictExpiredLocked() {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if time.Since(sess.touched) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (sess *session) widget(widgetID string) (models.WidgetInstance, error) {
	for _, inst := range sess.widgets {
		if inst.ID == widgetID {
			return inst, nil
		}
	}
	return models.WidgetInstance{}, app_errors.ErrWidgetNotFound
}

func (sess *session) replaceWidget(widgetID string, next models.WidgetInstance) error {
	for i := range sess.widgets {
		if sess.widgets[i].ID == widgetID {
			next = next.Clone()
			next.ID = widgetID
			sess.widgets[i] = next
			return nil
		}
	}
	return app_errors.ErrWidgetNotFound
}
