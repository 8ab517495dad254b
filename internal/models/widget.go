package models

import (
	"encoding/json"
)

// WidgetMetadata describes a registered widget type. It is static data
// supplied once at registration and served verbatim to the authoring palette.
type WidgetMetadata struct {
	Type        string   `json:"type"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Version     string   `json:"version"`
	Tags        []string `json:"tags,omitempty"`
	Interactive bool     `json:"interactive"`
}

// WidgetInstance is one placed content block. ID, Type and Label are fixed
// identity fields; everything else lives in Fields and is interpreted by the
// type's renderer. On the wire the payload is flattened next to the identity
// fields, matching the document shape in the stored lesson content.
type WidgetInstance struct {
	ID     string
	Type   string
	Label  string
	Fields map[string]interface{}
}

func (w WidgetInstance) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(w.Fields)+3)
	for k, v := range w.Fields {
		out[k] = v
	}
	out["id"] = w.ID
	out["type"] = w.Type
	out["label"] = w.Label
	return json.Marshal(out)
}

func (w *WidgetInstance) UnmarshalJSON(data []byte) error {
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["id"].(string); ok {
		w.ID = v
	}
	if v, ok := raw["type"].(string); ok {
		w.Type = v
	}
	if v, ok := raw["label"].(string); ok {
		w.Label = v
	}
	delete(raw, "id")
	delete(raw, "type")
	delete(raw, "label")
	if len(raw) == 0 {
		w.Fields = nil
		return nil
	}
	w.Fields = raw
	return nil
}

// Clone returns a deep copy. Edits must never alias the stored instance, so
// every draft and every dispatched render works on a clone.
func (w WidgetInstance) Clone() WidgetInstance {
	out := w
	if w.Fields != nil {
		out.Fields = deepCopyMap(w.Fields)
	}
	return out
}

// Equal compares two instances by their serialized form. Used by the draft
// dirty check, where structural equality is what matters.
func (w WidgetInstance) Equal(other WidgetInstance) bool {
	a, err1 := json.Marshal(w)
	b, err2 := json.Marshal(other)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(a) == string(b)
}

func deepCopyMap(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(t)
	case []interface{}:
		cp := make([]interface{}, len(t))
		for i := range t {
			cp[i] = deepCopyValue(t[i])
		}
		return cp
	default:
		return v
	}
}
