package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CourseCanvas/internal/models"
)

type samplePayload struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func TestContent_RoundTripThroughInstance(t *testing.T) {
	inst := models.WidgetInstance{ID: "w1", Type: "Quiz", Label: "Q"}
	err := SetContent(&inst, samplePayload{
		Question: "What is 2+2?",
		Options:  []string{"3", "4"},
	})
	require.NoError(t, err)

	got, err := Content[samplePayload](inst)
	require.NoError(t, err)
	assert.Equal(t, "What is 2+2?", got.Question)
	assert.Equal(t, []string{"3", "4"}, got.Options)
}

func TestContent_UnknownFieldsAreIgnored(t *testing.T) {
	inst := models.WidgetInstance{
		ID:   "w1",
		Type: "Quiz",
		Fields: map[string]interface{}{
			"question":    "q",
			"legacyField": 42,
		},
	}
	got, err := Content[samplePayload](inst)
	require.NoError(t, err)
	assert.Equal(t, "q", got.Question)
}

func TestContent_EmptyFieldsGiveZeroValue(t *testing.T) {
	got, err := Content[samplePayload](models.WidgetInstance{ID: "w1"})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestSetContent_StripsIdentityKeys(t *testing.T) {
	inst := models.WidgetInstance{ID: "w1", Type: "Quiz", Label: "Q"}
	err := SetContent(&inst, map[string]interface{}{
		"id":       "spoofed",
		"type":     "Spoofed",
		"question": "q",
	})
	require.NoError(t, err)

	assert.Equal(t, "w1", inst.ID)
	assert.Equal(t, "Quiz", inst.Type)
	assert.NotContains(t, inst.Fields, "id")
	assert.NotContains(t, inst.Fields, "type")
	assert.Equal(t, "q", inst.Fields["question"])
}
