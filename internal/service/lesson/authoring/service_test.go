package authoring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/service/lesson/content"
	"CourseCanvas/internal/widget"
	"CourseCanvas/internal/widget/types"
	"CourseCanvas/pkg/logger"
)

type fakeCourseStore struct {
	course    *models.Course
	updateErr error
	saved     string
}

func (f *fakeCourseStore) GetCourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, app_errors.ErrCourseNotFound
	}
	c := *f.course
	return &c, nil
}

func (f *fakeCourseStore) UpdateCourse(_ context.Context, id uuid.UUID, update models.CourseUpdate) (*models.Course, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if update.Content != nil {
		f.saved = *update.Content
		f.course.Content = *update.Content
	}
	c := *f.course
	return &c, nil
}

type fakeMediaStore struct {
	objects map[string]bool
	deleted []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: map[string]bool{}}
}

func (f *fakeMediaStore) UploadImage(_ context.Context, courseID uuid.UUID, widgetID, filename string, _ io.Reader, _ int64, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", app_errors.ErrNotImage
	}
	key := fmt.Sprintf("courses/%s/widgets/%s", courseID, widgetID)
	f.objects[key] = true
	return key, nil
}

func (f *fakeMediaStore) GetImageURL(_ context.Context, objectKey string) (string, error) {
	return "https://media.local/" + objectKey, nil
}

func (f *fakeMediaStore) DeleteImage(_ context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func newEditor(t *testing.T) (*Service, *fakeCourseStore, uuid.UUID, uuid.UUID) {
	t.Helper()
	svc, store, _, sessionID, authorID := newEditorWithMedia(t)
	return svc, store, sessionID, authorID
}

func newEditorWithMedia(t *testing.T) (*Service, *fakeCourseStore, *fakeMediaStore, uuid.UUID, uuid.UUID) {
	t.Helper()
	authorID := uuid.New()
	store := &fakeCourseStore{course: &models.Course{
		ID:       uuid.New(),
		Name:     "Go basics",
		AuthorID: authorID,
	}}
	media := newFakeMediaStore()

	reg := widget.NewRegistry(logger.Discard())
	types.RegisterAll(reg)
	svc := NewService(logger.Discard(), reg, content.NewCodec(logger.Discard()), store, media, time.Minute)

	sessionID, err := svc.Open(context.Background(), store.course.ID, authorID)
	require.NoError(t, err)
	return svc, store, media, sessionID, authorID
}

func TestOpen_RejectsNonAuthor(t *testing.T) {
	svc, store, _, _ := newEditor(t)

	_, err := svc.Open(context.Background(), store.course.ID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrNotCourseAuthor)
}

func TestOpen_UnknownSessionAfterClose(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	svc.Close(sessionID)
	_, _, _, err := svc.Snapshot(sessionID)
	assert.ErrorIs(t, err, app_errors.ErrSessionNotFound)
}

func TestAddWidget_PlacesBelowExistingLayout(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	first, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)
	second, err := svc.AddWidget(sessionID, "MultipleChoiceWidget")
	require.NoError(t, err)

	_, layout, _, err := svc.Snapshot(sessionID)
	require.NoError(t, err)
	require.Len(t, layout, 2)
	assert.Equal(t, first.ID, layout[0].I)
	assert.Equal(t, second.ID, layout[1].I)
	assert.Equal(t, layout[0].Y+layout[0].H, layout[1].Y)

	_, err = svc.AddWidget(sessionID, "NoSuchWidget")
	assert.ErrorIs(t, err, app_errors.ErrWidgetTypeUnknown)
}

func TestUpdateWidget_ReplacesInstanceKeepingID(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	next := inst.Clone()
	next.ID = "spoofed"
	next.Label = "renamed"
	require.NoError(t, svc.UpdateWidget(sessionID, inst.ID, next))

	widgets, _, _, err := svc.Snapshot(sessionID)
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, inst.ID, widgets[0].ID)
	assert.Equal(t, "renamed", widgets[0].Label)

	err = svc.UpdateWidget(sessionID, "missing", next)
	assert.ErrorIs(t, err, app_errors.ErrWidgetNotFound)
}

func TestRemoveWidget_DropsInstanceLayoutAndSelection(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)
	require.NoError(t, svc.SelectWidget(sessionID, inst.ID))

	require.NoError(t, svc.RemoveWidget(sessionID, inst.ID))

	widgets, layout, _, err := svc.Snapshot(sessionID)
	require.NoError(t, err)
	assert.Empty(t, widgets)
	assert.Empty(t, layout)

	assert.ErrorIs(t, svc.RemoveWidget(sessionID, inst.ID), app_errors.ErrWidgetNotFound)
}

func TestDraft_CommitAppliesEdits(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	draft, err := svc.OpenDraft(sessionID, inst.ID)
	require.NoError(t, err)
	draft.Label = "edited"
	require.NoError(t, svc.UpdateDraft(sessionID, inst.ID, draft))

	// The stored instance stays untouched until commit.
	widgets, _, _, err := svc.Snapshot(sessionID)
	require.NoError(t, err)
	assert.NotEqual(t, "edited", widgets[0].Label)

	require.NoError(t, svc.CommitDraft(sessionID, inst.ID))
	widgets, _, _, err = svc.Snapshot(sessionID)
	require.NoError(t, err)
	assert.Equal(t, "edited", widgets[0].Label)

	// Committing closes the draft.
	assert.ErrorIs(t, svc.CommitDraft(sessionID, inst.ID), app_errors.ErrDraftNotFound)
}

func TestDraft_DiscardWithEditsNeedsForce(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	draft, err := svc.OpenDraft(sessionID, inst.ID)
	require.NoError(t, err)
	draft.Label = "edited"
	require.NoError(t, svc.UpdateDraft(sessionID, inst.ID, draft))

	err = svc.DiscardDraft(sessionID, inst.ID, false)
	assert.ErrorIs(t, err, app_errors.ErrUnsavedChanges)

	require.NoError(t, svc.DiscardDraft(sessionID, inst.ID, true))

	widgets, _, _, err := svc.Snapshot(sessionID)
	require.NoError(t, err)
	assert.NotEqual(t, "edited", widgets[0].Label)
}

func TestDraft_DiscardCleanDraftNeedsNoForce(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	_, err = svc.OpenDraft(sessionID, inst.ID)
	require.NoError(t, err)
	assert.NoError(t, svc.DiscardDraft(sessionID, inst.ID, false))
}

func TestDraft_UpdatePinsIdentity(t *testing.T) {
	svc, _, sessionID, _ := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	draft, err := svc.OpenDraft(sessionID, inst.ID)
	require.NoError(t, err)
	draft.ID = "spoofed"
	draft.Type = "MatchingWidget"
	require.NoError(t, svc.UpdateDraft(sessionID, inst.ID, draft))
	require.NoError(t, svc.CommitDraft(sessionID, inst.ID))

	widgets, _, _, err := svc.Snapshot(sessionID)
	require.NoError(t, err)
	assert.Equal(t, inst.ID, widgets[0].ID)
	assert.Equal(t, "TextWidget", widgets[0].Type)
}

func TestSave_WritesDocumentThatReopensIdentically(t *testing.T) {
	svc, store, sessionID, authorID := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	warnings, err := svc.Save(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.NotEmpty(t, store.saved)

	// A fresh session over the saved course sees the same widget.
	reopened, err := svc.Open(context.Background(), store.course.ID, authorID)
	require.NoError(t, err)
	widgets, layout, _, err := svc.Snapshot(reopened)
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, inst.ID, widgets[0].ID)
	require.Len(t, layout, 1)
	assert.Equal(t, inst.ID, layout[0].I)
}

func TestSave_ReturnsAdvisoryWarnings(t *testing.T) {
	svc, store, sessionID, _ := newEditor(t)

	// A fresh image widget has no alt text yet.
	_, err := svc.AddWidget(sessionID, "ImageWidget")
	require.NoError(t, err)

	warnings, err := svc.Save(context.Background(), sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
	assert.NotEmpty(t, store.saved)
}

func TestSave_HardValidationErrorAbortsWrite(t *testing.T) {
	svc, store, sessionID, _ := newEditor(t)

	inst, err := svc.AddWidget(sessionID, "MultipleChoiceWidget")
	require.NoError(t, err)
	next := inst.Clone()
	next.Label = ""
	require.NoError(t, svc.UpdateWidget(sessionID, inst.ID, next))

	_, err = svc.Save(context.Background(), sessionID)
	assert.ErrorIs(t, err, app_errors.ErrLabelRequired)
	assert.Empty(t, store.saved)
}

func TestSave_StoreFailureKeepsSessionAlive(t *testing.T) {
	svc, store, sessionID, _ := newEditor(t)

	_, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	store.updateErr = errors.New("connection reset")
	_, err = svc.Save(context.Background(), sessionID)
	require.Error(t, err)

	// The session survives; a retry after the store recovers succeeds.
	store.updateErr = nil
	_, err = svc.Save(context.Background(), sessionID)
	assert.NoError(t, err)
}

func TestUploadWidgetImage_PointsWidgetAtStoredObject(t *testing.T) {
	svc, _, media, sessionID, _ := newEditorWithMedia(t)

	inst, err := svc.AddWidget(sessionID, "ImageWidget")
	require.NoError(t, err)

	updated, err := svc.UploadWidgetImage(
		context.Background(), sessionID, inst.ID,
		"diagram.png", strings.NewReader("png-bytes"), 9, "image/png",
	)
	require.NoError(t, err)

	key, _ := updated.Fields["objectKey"].(string)
	require.NotEmpty(t, key)
	assert.True(t, media.objects[key])
	assert.Contains(t, updated.Fields["url"], key)

	// The session copy carries the new content too.
	widgets, _, _, err := svc.Snapshot(sessionID)
	require.NoError(t, err)
	assert.Equal(t, key, widgets[0].Fields["objectKey"])
}

func TestUploadWidgetImage_OnlyImageWidgetsAcceptUploads(t *testing.T) {
	svc, _, _, sessionID, _ := newEditorWithMedia(t)

	inst, err := svc.AddWidget(sessionID, "TextWidget")
	require.NoError(t, err)

	_, err = svc.UploadWidgetImage(
		context.Background(), sessionID, inst.ID,
		"diagram.png", strings.NewReader("png-bytes"), 9, "image/png",
	)
	assert.ErrorIs(t, err, app_errors.ErrNotImage)
}

func TestRemoveWidget_DeletesBackingImage(t *testing.T) {
	svc, _, media, sessionID, _ := newEditorWithMedia(t)

	inst, err := svc.AddWidget(sessionID, "ImageWidget")
	require.NoError(t, err)
	updated, err := svc.UploadWidgetImage(
		context.Background(), sessionID, inst.ID,
		"diagram.png", strings.NewReader("png-bytes"), 9, "image/png",
	)
	require.NoError(t, err)
	key := updated.Fields["objectKey"].(string)

	require.NoError(t, svc.RemoveWidget(sessionID, inst.ID))
	assert.Contains(t, media.deleted, key)
	assert.False(t, media.objects[key])
}

func TestPalette_ReportsCatalogueInRegistrationOrder(t *testing.T) {
	svc, _, _, _ := newEditor(t)

	var names []string
	for _, md := range svc.Palette() {
		names = append(names, md.Type)
	}
	assert.Equal(t, []string{
		"TextWidget", "ImageWidget", "ListWidget", "CodeWidget",
		"CalendarWidget", "MultipleChoiceWidget", "MatchingWidget",
	}, names)
}
