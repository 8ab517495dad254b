package playback

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/service/lesson/completion"
	"CourseCanvas/internal/service/lesson/content"
	"CourseCanvas/internal/widget"
	"CourseCanvas/internal/widget/types"
	"CourseCanvas/pkg/logger"
)

type fakeCourseStore struct {
	course *models.Course
}

func (f *fakeCourseStore) GetCourseByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, app_errors.ErrCourseNotFound
	}
	c := *f.course
	return &c, nil
}

// quizLesson builds a lesson with a text block and one multiple choice
// question whose only correct option is o1.
func quizLesson(t *testing.T) string {
	t.Helper()

	text := models.WidgetInstance{ID: "intro", Type: "TextWidget", Label: "Intro"}
	quiz := models.WidgetInstance{ID: "quiz", Type: "MultipleChoiceWidget", Label: "Check"}
	require.NoError(t, widget.SetContent(&quiz, map[string]interface{}{
		"question": "Pick one",
		"options": []map[string]interface{}{
			{"id": "o1", "text": "right", "isCorrect": true},
			{"id": "o2", "text": "wrong", "isCorrect": false},
		},
	}))

	layout := []models.LayoutEntry{
		{I: "intro", X: 0, Y: 0, W: 6, H: 3},
		{I: "quiz", X: 0, Y: 3, W: 6, H: 4},
	}
	doc, err := content.NewCodec(logger.Discard()).Export(
		[]models.WidgetInstance{text, quiz}, layout, models.DefaultGridConfig())
	require.NoError(t, err)
	return doc
}

func newPlayer(t *testing.T, public bool) (*Service, uuid.UUID, uuid.UUID) {
	t.Helper()

	reg := widget.NewRegistry(logger.Discard())
	types.RegisterAll(reg)
	codec := content.NewCodec(logger.Discard())
	store := &fakeCourseStore{course: &models.Course{
		ID:       uuid.New(),
		AuthorID: uuid.New(),
		Public:   public,
		Content:  quizLesson(t),
	}}
	svc := NewService(logger.Discard(), reg, codec, completion.NewEngine(reg), store)
	return svc, store.course.ID, store.course.AuthorID
}

func TestLesson_RendersAllWidgetsWithLayout(t *testing.T) {
	svc, courseID, _ := newPlayer(t, true)

	view, err := svc.Lesson(context.Background(), courseID, uuid.New())
	require.NoError(t, err)
	require.Len(t, view.Nodes, 2)
	require.Len(t, view.Layout, 2)
	assert.Equal(t, "intro", view.Layout[0].I)
	assert.Equal(t, models.DefaultGridConfig(), view.GridConfig)

	// One interactive widget, nothing answered yet.
	assert.Equal(t, 1, view.Progress.TotalInteractive)
	assert.Equal(t, 0, view.Progress.CompletedCount)
	assert.False(t, view.Progress.IsComplete)
}

func TestLesson_HiddenCourseOnlyForAuthor(t *testing.T) {
	svc, courseID, authorID := newPlayer(t, false)

	_, err := svc.Lesson(context.Background(), courseID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrCourseNotPublished)

	_, err = svc.Lesson(context.Background(), courseID, authorID)
	assert.NoError(t, err)
}

func TestSubmitAnswer_CorrectAnswerCompletesLesson(t *testing.T) {
	svc, courseID, _ := newPlayer(t, true)
	userID := uuid.New()

	record, summary, err := svc.SubmitAnswer(context.Background(), courseID, userID, "quiz", []string{"o1"})
	require.NoError(t, err)
	assert.True(t, record.IsCorrect)
	assert.Equal(t, "quiz", record.WidgetID)
	assert.True(t, summary.IsComplete)
	assert.Equal(t, 100, summary.Percent())
}

func TestSubmitAnswer_WrongAnswerRecordsButDoesNotComplete(t *testing.T) {
	svc, courseID, _ := newPlayer(t, true)
	userID := uuid.New()

	record, summary, err := svc.SubmitAnswer(context.Background(), courseID, userID, "quiz", []string{"o2"})
	require.NoError(t, err)
	assert.False(t, record.IsCorrect)
	assert.False(t, summary.IsComplete)

	// The wrong attempt still counts as answered for the progress bar.
	answered, correct, err := svc.Progress(context.Background(), courseID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, answered.CompletedCount)
	assert.Equal(t, 0, correct.CompletedCount)
}

func TestSubmitAnswer_ReanswerOverwritesVerdict(t *testing.T) {
	svc, courseID, _ := newPlayer(t, true)
	userID := uuid.New()

	_, summary, err := svc.SubmitAnswer(context.Background(), courseID, userID, "quiz", []string{"o2"})
	require.NoError(t, err)
	assert.False(t, summary.IsComplete)

	_, summary, err = svc.SubmitAnswer(context.Background(), courseID, userID, "quiz", []string{"o1"})
	require.NoError(t, err)
	assert.True(t, summary.IsComplete)
}

func TestSubmitAnswer_UnknownWidgetOrNonInteractive(t *testing.T) {
	svc, courseID, _ := newPlayer(t, true)
	userID := uuid.New()

	_, _, err := svc.SubmitAnswer(context.Background(), courseID, userID, "ghost", []string{"o1"})
	assert.ErrorIs(t, err, app_errors.ErrWidgetNotFound)

	_, _, err = svc.SubmitAnswer(context.Background(), courseID, userID, "intro", []string{"o1"})
	assert.ErrorIs(t, err, app_errors.ErrNotInteractive)
}

func TestSubmitAnswer_SessionsAreIsolatedPerUser(t *testing.T) {
	svc, courseID, _ := newPlayer(t, true)
	alice, bob := uuid.New(), uuid.New()

	_, summary, err := svc.SubmitAnswer(context.Background(), courseID, alice, "quiz", []string{"o1"})
	require.NoError(t, err)
	assert.True(t, summary.IsComplete)

	_, correct, err := svc.Progress(context.Background(), courseID, bob)
	require.NoError(t, err)
	assert.False(t, correct.IsComplete)
}

func TestReset_DiscardsAnswers(t *testing.T) {
	svc, courseID, _ := newPlayer(t, true)
	userID := uuid.New()

	_, summary, err := svc.SubmitAnswer(context.Background(), courseID, userID, "quiz", []string{"o1"})
	require.NoError(t, err)
	require.True(t, summary.IsComplete)

	svc.Reset(courseID, userID)

	_, correct, err := svc.Progress(context.Background(), courseID, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, correct.CompletedCount)
	assert.False(t, correct.IsComplete)
}
