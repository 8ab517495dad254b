package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
	"CourseCanvas/pkg/logger"
)

type quizPayload struct {
	Question string `json:"question"`
}

func sampleTriple(t *testing.T) ([]models.WidgetInstance, []models.LayoutEntry, models.GridConfig) {
	t.Helper()

	text := models.WidgetInstance{ID: "w-text", Type: "TextWidget", Label: "Intro"}
	require.NoError(t, widget.SetContent(&text, map[string]interface{}{
		"text":   "hello",
		"format": "plain",
	}))

	quiz := models.WidgetInstance{ID: "w-quiz", Type: "MultipleChoiceWidget", Label: "Check"}
	require.NoError(t, widget.SetContent(&quiz, quizPayload{Question: "why?"}))

	maxW := 12
	layout := []models.LayoutEntry{
		{I: "w-text", X: 0, Y: 0, W: 6, H: 3, MinW: 2, MinH: 1, MaxW: &maxW},
		{I: "w-quiz", X: 6, Y: 0, W: 6, H: 4},
	}
	return []models.WidgetInstance{text, quiz}, layout, models.DefaultGridConfig()
}

func TestCodec_ExportImportRoundTrip(t *testing.T) {
	codec := NewCodec(logger.Discard())
	widgets, layout, grid := sampleTriple(t)

	doc, err := codec.Export(widgets, layout, grid)
	require.NoError(t, err)

	gotWidgets, gotLayout, gotGrid := codec.Import(doc)
	assert.Equal(t, widgets, gotWidgets)
	assert.Equal(t, layout, gotLayout)
	assert.Equal(t, grid, gotGrid)
}

func TestCodec_ExportThenImportThenExportIsIdempotent(t *testing.T) {
	codec := NewCodec(logger.Discard())
	widgets, layout, grid := sampleTriple(t)

	doc, err := codec.Export(widgets, layout, grid)
	require.NoError(t, err)

	again, err := codec.Migrate(doc)
	require.NoError(t, err)
	assert.JSONEq(t, doc, again)
}

func TestCodec_ImportPrefersLayoutOverLegacyFields(t *testing.T) {
	codec := NewCodec(logger.Discard())
	doc := `{"lesson":{"widgets":[{
		"id":"w1","type":"TextWidget","label":"T",
		"size":{"w":2,"h":2},
		"position":{"x":9,"y":9},
		"layout":{"i":"w1","x":1,"y":2,"w":4,"h":5,"maxW":null,"maxH":null},
		"content":{"id":"w1","type":"TextWidget","label":"T"}
	}],"gridConfig":{"cols":12,"rowHeight":40,"width":872,"margin":[12,12],"containerPadding":[0,0],"compactType":"vertical"}}}`

	_, layout, _ := codec.Import(doc)
	require.Len(t, layout, 1)
	assert.Equal(t, 1, layout[0].X)
	assert.Equal(t, 2, layout[0].Y)
	assert.Equal(t, 4, layout[0].W)
	assert.Equal(t, 5, layout[0].H)
}

func TestCodec_LegacyPositionSizeFallback(t *testing.T) {
	codec := NewCodec(logger.Discard())
	doc := `{"lesson":{"widgets":[{
		"id":"w1","type":"TextWidget","label":"T",
		"size":{"w":3,"h":7},
		"position":{"x":2,"y":4}
	}]}}`

	_, layout, grid := codec.Import(doc)
	require.Len(t, layout, 1)
	assert.Equal(t, models.LayoutEntry{I: "w1", X: 2, Y: 4, W: 3, H: 7}, layout[0])
	// Absent gridConfig falls back to the defaults.
	assert.Equal(t, models.DefaultGridConfig(), grid)
}

func TestCodec_DefaultSpanOnlyWhenSizeAbsent(t *testing.T) {
	codec := NewCodec(logger.Discard())
	doc := `{"lesson":{"widgets":[{
		"id":"w1","type":"TextWidget","label":"T",
		"position":{"x":1,"y":1}
	}]}}`

	_, layout, _ := codec.Import(doc)
	require.Len(t, layout, 1)
	assert.Equal(t, DefaultWidgetW, layout[0].W)
	assert.Equal(t, DefaultWidgetH, layout[0].H)
	assert.Equal(t, 1, layout[0].X)
	assert.Equal(t, 1, layout[0].Y)
}

func TestCodec_UnparseableDocumentDecodesToZeroWidgets(t *testing.T) {
	codec := NewCodec(logger.Discard())

	for _, doc := range []string{"", "not json at all", `{"lesson":`} {
		lesson := codec.Decode(doc)
		assert.Empty(t, lesson.Widgets)
		assert.Equal(t, models.DefaultGridConfig(), lesson.GridConfig)
	}
}

func TestCodec_DecodeSynthesizesContentForBareRecords(t *testing.T) {
	codec := NewCodec(logger.Discard())
	doc := `{"lesson":{"widgets":[{"id":"w1","type":"TextWidget","label":"T","position":{"x":0,"y":0}}]}}`

	lesson := codec.Decode(doc)
	require.Len(t, lesson.Widgets, 1)
	require.NotNil(t, lesson.Widgets[0].Content)
	assert.Equal(t, "w1", lesson.Widgets[0].Content.ID)
	assert.Equal(t, "TextWidget", lesson.Widgets[0].Content.Type)
}

func TestCodec_ExportSynthesizesDefaultPlacementForMissingLayout(t *testing.T) {
	codec := NewCodec(logger.Discard())
	inst := models.WidgetInstance{ID: "orphan", Type: "TextWidget", Label: "T"}

	doc, err := codec.Export([]models.WidgetInstance{inst}, nil, models.DefaultGridConfig())
	require.NoError(t, err)

	_, layout, _ := codec.Import(doc)
	require.Len(t, layout, 1)
	assert.Equal(t, DefaultWidgetW, layout[0].W)
	assert.Equal(t, DefaultWidgetH, layout[0].H)
}

func TestDetectGeneration(t *testing.T) {
	assert.Equal(t, GenerationInvalid, DetectGeneration("nope"))
	assert.Equal(t, GenerationEmpty, DetectGeneration(`{"lesson":{"widgets":[]}}`))
	assert.Equal(t, GenerationLegacy, DetectGeneration(`{"lesson":{"widgets":[{"id":"w1","position":{"x":0,"y":0}}]}}`))
	assert.Equal(t, GenerationCurrent, DetectGeneration(`{"lesson":{"widgets":[{"id":"w1","layout":{"i":"w1","x":0,"y":0,"w":6,"h":3}}]}}`))
}

func TestCodec_MigrateUpgradesLegacyDocument(t *testing.T) {
	codec := NewCodec(logger.Discard())
	legacy := `{"lesson":{"widgets":[{
		"id":"w1","type":"TextWidget","label":"T",
		"size":{"w":3,"h":2},
		"position":{"x":1,"y":0}
	}]}}`

	migrated, err := codec.Migrate(legacy)
	require.NoError(t, err)
	assert.Equal(t, GenerationCurrent, DetectGeneration(migrated))

	// Same coordinates survive the upgrade.
	_, layout, _ := codec.Import(migrated)
	require.Len(t, layout, 1)
	assert.Equal(t, models.LayoutEntry{I: "w1", X: 1, Y: 0, W: 3, H: 2}, layout[0])
}
