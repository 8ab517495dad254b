package completion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
	"CourseCanvas/internal/widget/types"
	"CourseCanvas/pkg/logger"
)

func catalogueEngine() *Engine {
	reg := widget.NewRegistry(logger.Discard())
	types.RegisterAll(reg)
	return NewEngine(reg)
}

func record(id, widgetType string) models.LessonWidget {
	return models.LessonWidget{
		ID:      id,
		Type:    widgetType,
		Content: &models.WidgetInstance{ID: id, Type: widgetType},
	}
}

func answered(correct bool) models.AnswerRecord {
	return models.AnswerRecord{IsCorrect: correct, AnsweredAt: time.Now()}
}

func TestEngine_NoInteractiveWidgetsIsVacuouslyComplete(t *testing.T) {
	e := catalogueEngine()
	widgets := []models.LessonWidget{
		record("w1", "TextWidget"),
		record("w2", "ImageWidget"),
	}

	summary := e.AggregateCorrect(widgets, models.AnswerMap{})
	assert.Equal(t, 0, summary.TotalInteractive)
	assert.Equal(t, 0, summary.CompletedCount)
	assert.True(t, summary.IsComplete)
	assert.Equal(t, 100, summary.Percent())
}

func TestEngine_AggregateCorrectCountsOnlyCorrectAnswers(t *testing.T) {
	e := catalogueEngine()
	widgets := []models.LessonWidget{
		record("text", "TextWidget"),
		record("q1", "MultipleChoiceWidget"),
		record("q2", "MultipleChoiceWidget"),
		record("q3", "MatchingWidget"),
	}
	answers := models.AnswerMap{
		"q1": answered(true),
		"q2": answered(false),
	}

	summary := e.AggregateCorrect(widgets, answers)
	assert.Equal(t, 3, summary.TotalInteractive)
	assert.Equal(t, 1, summary.CompletedCount)
	assert.False(t, summary.IsComplete)

	// The progress variant counts any answer, right or wrong.
	progress := e.Aggregate(widgets, answers)
	assert.Equal(t, 2, progress.CompletedCount)
	assert.False(t, progress.IsComplete)
}

func TestEngine_CompleteWhenEveryInteractiveWidgetCorrect(t *testing.T) {
	e := catalogueEngine()
	widgets := []models.LessonWidget{
		record("text", "TextWidget"),
		record("q1", "MultipleChoiceWidget"),
	}

	summary := e.AggregateCorrect(widgets, models.AnswerMap{"q1": answered(true)})
	assert.Equal(t, 1, summary.TotalInteractive)
	assert.True(t, summary.IsComplete)
	assert.Equal(t, 100, summary.Percent())
}

func TestEngine_AnswerKeyedByContentIDStillCounts(t *testing.T) {
	e := catalogueEngine()

	// A wrapped legacy record whose inner instance kept its pre-migration id.
	wrapped := models.LessonWidget{
		ID:      "wrapper-1",
		Type:    "MultipleChoiceWidget",
		Content: &models.WidgetInstance{ID: "legacy-9", Type: "MultipleChoiceWidget"},
	}
	require.ElementsMatch(t, []string{"wrapper-1", "legacy-9"}, wrapped.Identifiers())

	byContentID := models.AnswerMap{"legacy-9": answered(true)}
	assert.True(t, e.IsAnsweredCorrectly(wrapped, byContentID))

	byWrapperID := models.AnswerMap{"wrapper-1": answered(true)}
	assert.True(t, e.IsAnsweredCorrectly(wrapped, byWrapperID))

	summary := e.AggregateCorrect([]models.LessonWidget{wrapped}, byContentID)
	assert.True(t, summary.IsComplete)
}

func TestEngine_UnknownTypeNeverBlocksCompletion(t *testing.T) {
	e := catalogueEngine()
	widgets := []models.LessonWidget{
		record("q1", "MultipleChoiceWidget"),
		record("x1", "RetiredQuizWidget"),
	}

	// The unregistered type is excluded from the interactive total, so the
	// lesson completes once the known widgets are done.
	summary := e.AggregateCorrect(widgets, models.AnswerMap{"q1": answered(true)})
	assert.Equal(t, 1, summary.TotalInteractive)
	assert.True(t, summary.IsComplete)
}

func TestEngine_TypeFallsBackToContentWhenWrapperBlank(t *testing.T) {
	e := catalogueEngine()
	rec := models.LessonWidget{
		ID:      "q1",
		Content: &models.WidgetInstance{ID: "q1", Type: "MultipleChoiceWidget"},
	}
	assert.True(t, e.IsInteractive(rec))
}

func TestCompletionSummary_Percent(t *testing.T) {
	assert.Equal(t, 100, models.CompletionSummary{TotalInteractive: 0, IsComplete: true}.Percent())
	assert.Equal(t, 50, models.CompletionSummary{CompletedCount: 1, TotalInteractive: 2}.Percent())
	assert.Equal(t, 33, models.CompletionSummary{CompletedCount: 1, TotalInteractive: 3}.Percent())
}
