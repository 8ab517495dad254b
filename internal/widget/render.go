package widget

import (
	"CourseCanvas/internal/models"
)

// Mode selects which renderer of a widget implementation runs.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// RenderNode is a serializable view-model tree. The client turns it into
// markup; the server never emits HTML directly.
type RenderNode struct {
	Element  string                 `json:"element"`
	Text     string                 `json:"text,omitempty"`
	Attrs    map[string]interface{} `json:"attrs,omitempty"`
	Children []*RenderNode          `json:"children,omitempty"`
}

func NewNode(element string) *RenderNode {
	return &RenderNode{Element: element}
}

func (n *RenderNode) WithText(text string) *RenderNode {
	n.Text = text
	return n
}

func (n *RenderNode) WithAttr(key string, value interface{}) *RenderNode {
	if n.Attrs == nil {
		n.Attrs = map[string]interface{}{}
	}
	n.Attrs[key] = value
	return n
}

func (n *RenderNode) Append(children ...*RenderNode) *RenderNode {
	n.Children = append(n.Children, children...)
	return n
}

// RenderContext carries per-request rendering inputs shared by all widget
// types.
type RenderContext struct {
	Mode        Mode
	IsSelected  bool
	IsDraggable bool
	// Seed keys any presentation-only randomness (option shuffling) so a
	// re-render within one session is stable.
	Seed int64
}

// Implementation is the two-renderer contract every catalogue type fulfils.
// View renders the playback shape, Edit the authoring form. Errors are
// widget-local: the dispatcher absorbs them into a placeholder and they
// never propagate past it.
type Implementation interface {
	View(inst models.WidgetInstance, rc RenderContext) (*RenderNode, error)
	Edit(inst models.WidgetInstance, rc RenderContext) (*RenderNode, error)
	// NewInstance builds a fresh instance with the type's defaults, used
	// when an author picks the type from the palette.
	NewInstance(id string) models.WidgetInstance
}

// Grader is implemented by interactive types. Grade evaluates one submitted
// raw answer against the authored instance.
type Grader interface {
	Grade(inst models.WidgetInstance, raw interface{}) (bool, error)
}

// Validator is optionally implemented by types with save-time checks.
// Warnings are advisory and never block; a non-nil error blocks the save.
type Validator interface {
	Validate(inst models.WidgetInstance) (warnings []string, err error)
}
