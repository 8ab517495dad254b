// Package content converts between the in-memory lesson (widget instances,
// grid layout, grid config) and the persisted lesson document. The document
// is denormalized on purpose: legacy readers trust position/size, current
// readers trust layout, and content carries the full instance so wrapper and
// instance can never disagree about identity.
package content

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"CourseCanvas/internal/models"
	"CourseCanvas/pkg/logger"
)

const (
	DefaultWidgetW = 6
	DefaultWidgetH = 3
)

// Schema generations a stored document can belong to.
const (
	GenerationCurrent = "current" // layout sub-objects present
	GenerationLegacy  = "legacy"  // only position/size placement
	GenerationEmpty   = "empty"   // no widgets
	GenerationInvalid = "invalid" // unparseable
)

type Codec struct {
	log logger.Log
}

func NewCodec(log logger.Log) *Codec {
	return &Codec{log: log}
}

// Export builds the persisted document. Each record duplicates the layout
// entry into the legacy size/position pair and embeds the full instance
// under content. Widgets without a layout entry get the default placement.
func (c *Codec) Export(widgets []models.WidgetInstance, layout []models.LayoutEntry, grid models.GridConfig) (string, error) {
	byID := make(map[string]models.LayoutEntry, len(layout))
	for _, entry := range layout {
		byID[entry.I] = entry
	}

	doc := models.LessonDocument{
		Lesson: models.Lesson{
			Widgets:    make([]models.LessonWidget, 0, len(widgets)),
			GridConfig: grid,
		},
	}

	for _, inst := range widgets {
		entry, ok := byID[inst.ID]
		if !ok {
			entry = models.LayoutEntry{I: inst.ID, X: 0, Y: 0, W: DefaultWidgetW, H: DefaultWidgetH}
		}
		entry.I = inst.ID

		instCopy := inst.Clone()
		e := entry
		doc.Lesson.Widgets = append(doc.Lesson.Widgets, models.LessonWidget{
			ID:       inst.ID,
			Type:     inst.Type,
			Label:    inst.Label,
			Size:     &models.WidgetSize{W: entry.W, H: entry.H},
			Position: &models.WidgetPosition{X: entry.X, Y: entry.Y},
			Layout:   &e,
			Content:  &instCopy,
		})
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal lesson document: %w", err)
	}
	return string(raw), nil
}

// Decode parses a stored document into normalized records. Malformed input
// is not an error: an unparseable document decodes to a lesson with zero
// widgets, and records missing a layout fall back to position/size, then to
// the default span. Decode is what every reader goes through, so the
// fallback chain lives in exactly one place.
func (c *Codec) Decode(doc string) models.Lesson {
	lesson := models.Lesson{GridConfig: models.DefaultGridConfig()}
	if doc == "" {
		return lesson
	}

	var parsed models.LessonDocument
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		c.log.WarnErr("lesson document is unparseable, treating as empty", err)
		return lesson
	}

	if parsed.Lesson.GridConfig.Cols > 0 {
		lesson.GridConfig = parsed.Lesson.GridConfig
	}

	for _, record := range parsed.Lesson.Widgets {
		lesson.Widgets = append(lesson.Widgets, normalizeRecord(record))
	}
	return lesson
}

// Import splits a document into the in-memory triple the editor works on.
func (c *Codec) Import(doc string) ([]models.WidgetInstance, []models.LayoutEntry, models.GridConfig) {
	lesson := c.Decode(doc)

	widgets := make([]models.WidgetInstance, 0, len(lesson.Widgets))
	layout := make([]models.LayoutEntry, 0, len(lesson.Widgets))
	for _, record := range lesson.Widgets {
		inst := record.Instance()
		entry := *record.Layout
		// Keep the instance and its layout entry agreeing on identity even
		// for wrapped legacy records whose wrapper id drifted.
		entry.I = inst.ID
		widgets = append(widgets, inst)
		layout = append(layout, entry)
	}
	return widgets, layout, lesson.GridConfig
}

// normalizeRecord applies the placement fallback chain: layout wins when
// present; otherwise position/size; the default span only when size is also
// absent.
func normalizeRecord(record models.LessonWidget) models.LessonWidget {
	if record.Layout != nil {
		entry := *record.Layout
		if entry.I == "" {
			entry.I = record.ID
		}
		record.Layout = &entry
	} else {
		entry := models.LayoutEntry{I: record.ID, W: DefaultWidgetW, H: DefaultWidgetH}
		if record.Position != nil {
			entry.X = record.Position.X
			entry.Y = record.Position.Y
		}
		if record.Size != nil {
			entry.W = record.Size.W
			entry.H = record.Size.H
		}
		record.Layout = &entry
	}

	record.Size = &models.WidgetSize{W: record.Layout.W, H: record.Layout.H}
	record.Position = &models.WidgetPosition{X: record.Layout.X, Y: record.Layout.Y}

	if record.Content == nil {
		inst := models.WidgetInstance{ID: record.ID, Type: record.Type, Label: record.Label}
		record.Content = &inst
	}
	return record
}

// DetectGeneration classifies a stored document without fully decoding it.
// Used by the migration tooling to report what a document needs.
func DetectGeneration(doc string) string {
	if !gjson.Valid(doc) {
		return GenerationInvalid
	}
	widgets := gjson.Get(doc, "lesson.widgets")
	if !widgets.Exists() || len(widgets.Array()) == 0 {
		return GenerationEmpty
	}
	current := true
	widgets.ForEach(func(_, w gjson.Result) bool {
		if !w.Get("layout").Exists() {
			current = false
			return false
		}
		return true
	})
	if current {
		return GenerationCurrent
	}
	return GenerationLegacy
}

// Migrate rewrites a document to the current schema. Current documents come
// back unchanged in meaning: decode then re-export is idempotent for them.
func (c *Codec) Migrate(doc string) (string, error) {
	widgets, layout, grid := c.Import(doc)
	return c.Export(widgets, layout, grid)
}
