package models

import "time"

// AnswerRecord is one graded answer for one widget, held only in the volatile
// playback session. Re-answering overwrites the record.
type AnswerRecord struct {
	WidgetID   string      `json:"widget_id"`
	IsCorrect  bool        `json:"is_correct"`
	Value      interface{} `json:"value"`
	AnsweredAt time.Time   `json:"answered_at"`
}

// AnswerMap keys records by widget id.
type AnswerMap map[string]AnswerRecord

// CompletionSummary aggregates per-widget answer state into the lesson gate.
type CompletionSummary struct {
	CompletedCount   int  `json:"completed_count"`
	TotalInteractive int  `json:"total_interactive"`
	IsComplete       bool `json:"is_complete"`
}

// Percent reports progress in whole percent; an empty interactive set is 100.
func (s CompletionSummary) Percent() int {
	if s.TotalInteractive == 0 {
		return 100
	}
	return s.CompletedCount * 100 / s.TotalInteractive
}
