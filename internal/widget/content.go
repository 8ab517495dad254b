package widget

import (
	"encoding/json"
	"fmt"

	"CourseCanvas/internal/models"
)

// Content recovers the typed payload of an instance. The registry stores
// implementations type-erased; each implementation knows its own payload
// struct and narrows with the tag it registered under:
//
//	content, err := widget.Content[textContent](inst)
//
// Unknown keys in the instance are ignored, absent keys keep their zero
// values, so payload structs evolve without breaking stored lessons.
func Content[T any](inst models.WidgetInstance) (T, error) {
	var out T
	if len(inst.Fields) == 0 {
		return out, nil
	}
	raw, err := json.Marshal(inst.Fields)
	if err != nil {
		return out, fmt.Errorf("encode widget %q fields: %w", inst.ID, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode widget %q as %T: %w", inst.ID, out, err)
	}
	return out, nil
}

// SetContent writes a typed payload back onto an instance, replacing the
// whole Fields map. Updates are full replacements, never partial patches.
func SetContent(inst *models.WidgetInstance, content interface{}) error {
	raw, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode widget %q content: %w", inst.ID, err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("widget content must be an object: %w", err)
	}
	delete(fields, "id")
	delete(fields, "type")
	delete(fields, "label")
	inst.Fields = fields
	return nil
}
