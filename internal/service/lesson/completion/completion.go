// Package completion decides whether a lesson's interactive widgets have
// been answered, and answered correctly, and folds that into the lesson
// completion gate.
package completion

import (
	"github.com/samber/lo"

	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

// Engine aggregates heterogeneous answer records against a lesson's widget
// list. All methods are pure functions over their inputs.
type Engine struct {
	registry *widget.Registry
}

func NewEngine(registry *widget.Registry) *Engine {
	return &Engine{registry: registry}
}

// IsInteractive reports whether the record's widget gates completion. A type
// with no registry entry is non-interactive: completion cannot hinge on a
// widget whose grading logic is unavailable.
func (e *Engine) IsInteractive(record models.LessonWidget) bool {
	widgetType := record.Type
	if widgetType == "" && record.Content != nil {
		widgetType = record.Content.Type
	}
	return e.registry.IsInteractive(widgetType)
}

// IsAnswered is true when any of the record's identifiers appears in the
// answer map, regardless of correctness. Both the wrapper id and the inner
// content id count: lessons saved under the older schema key answers by
// whichever id the player saw at the time.
func (e *Engine) IsAnswered(record models.LessonWidget, answers models.AnswerMap) bool {
	return lo.SomeBy(record.Identifiers(), func(id string) bool {
		_, ok := answers[id]
		return ok
	})
}

// IsAnsweredCorrectly is true when any of the record's identifiers maps to a
// correct answer.
func (e *Engine) IsAnsweredCorrectly(record models.LessonWidget, answers models.AnswerMap) bool {
	return lo.SomeBy(record.Identifiers(), func(id string) bool {
		rec, ok := answers[id]
		return ok && rec.IsCorrect
	})
}

// Aggregate gates on "answered at all". Suits a progress bar, not the
// completion decision.
func (e *Engine) Aggregate(widgets []models.LessonWidget, answers models.AnswerMap) models.CompletionSummary {
	return e.aggregate(widgets, answers, e.IsAnswered)
}

// AggregateCorrect gates on "answered correctly". Lesson completion uses
// this variant exclusively.
func (e *Engine) AggregateCorrect(widgets []models.LessonWidget, answers models.AnswerMap) models.CompletionSummary {
	return e.aggregate(widgets, answers, e.IsAnsweredCorrectly)
}

func (e *Engine) aggregate(widgets []models.LessonWidget, answers models.AnswerMap, done func(models.LessonWidget, models.AnswerMap) bool) models.CompletionSummary {
	interactive := lo.Filter(widgets, func(w models.LessonWidget, _ int) bool {
		return e.IsInteractive(w)
	})
	completed := lo.CountBy(interactive, func(w models.LessonWidget) bool {
		return done(w, answers)
	})
	return models.CompletionSummary{
		CompletedCount:   completed,
		TotalInteractive: len(interactive),
		// A lesson with no interactive widgets is vacuously complete.
		IsComplete: completed == len(interactive),
	}
}
