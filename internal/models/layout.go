package models

const (
	CompactVertical   = "vertical"
	CompactHorizontal = "horizontal"
	CompactNone       = "none"
)

// LayoutEntry is one grid placement. I carries the widget id, matching the
// key name used by the grid component the documents were authored with.
type LayoutEntry struct {
	I    string `json:"i"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	MinW int    `json:"minW,omitempty"`
	MinH int    `json:"minH,omitempty"`
	MaxW *int   `json:"maxW"`
	MaxH *int   `json:"maxH"`
}

// GridConfig is persisted with the layout: authoring and playback must run
// the same grid constants or positions will not reproduce.
type GridConfig struct {
	Cols             int    `json:"cols"`
	RowHeight        int    `json:"rowHeight"`
	Width            int    `json:"width"`
	Margin           [2]int `json:"margin"`
	ContainerPadding [2]int `json:"containerPadding"`
	CompactType      string `json:"compactType"`
}

func DefaultGridConfig() GridConfig {
	return GridConfig{
		Cols:             12,
		RowHeight:        40,
		Width:            872,
		Margin:           [2]int{12, 12},
		ContainerPadding: [2]int{0, 0},
		CompactType:      CompactVertical,
	}
}

// WidgetSize and WidgetPosition are the legacy placement fields kept in the
// document next to the canonical layout entry for older readers.
type WidgetSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type WidgetPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LessonWidget is the denormalized record stored per widget in the lesson
// document: wrapper identity, legacy size/position, canonical layout and the
// full instance under content.
type LessonWidget struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Label    string          `json:"label"`
	Size     *WidgetSize     `json:"size,omitempty"`
	Position *WidgetPosition `json:"position,omitempty"`
	Layout   *LayoutEntry    `json:"layout,omitempty"`
	Content  *WidgetInstance `json:"content,omitempty"`
}

// Instance reconstructs the widget instance for a record, tolerating legacy
// documents that stored the instance fields directly on the wrapper.
func (lw LessonWidget) Instance() WidgetInstance {
	if lw.Content != nil {
		inst := lw.Content.Clone()
		if inst.ID == "" {
			inst.ID = lw.ID
		}
		if inst.Type == "" {
			inst.Type = lw.Type
		}
		if inst.Label == "" {
			inst.Label = lw.Label
		}
		return inst
	}
	return WidgetInstance{ID: lw.ID, Type: lw.Type, Label: lw.Label}
}

// Identifiers returns every plausible id for the record: the wrapper id and,
// when it differs, the inner content id. Answer lookups accept any of them so
// lessons saved under the pre-layout schema still complete.
func (lw LessonWidget) Identifiers() []string {
	ids := make([]string, 0, 2)
	if lw.ID != "" {
		ids = append(ids, lw.ID)
	}
	if lw.Content != nil && lw.Content.ID != "" && lw.Content.ID != lw.ID {
		ids = append(ids, lw.Content.ID)
	}
	return ids
}

// Lesson is the in-memory form of a lesson's content document.
type Lesson struct {
	Widgets    []LessonWidget `json:"widgets"`
	GridConfig GridConfig     `json:"gridConfig"`
}

// LessonDocument is the top-level persisted shape.
type LessonDocument struct {
	Lesson Lesson `json:"lesson"`
}
