package widget

import (
	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
)

// Container dispatches a single widget instance to its registered
// implementation. It mirrors the in-process props surface: the instance, a
// mode, selection/drag flags and the four callbacks. The container never
// mutates its instance; every change flows through OnUpdate as a complete
// replacement so the caller's copy stays the single source of truth.
type Container struct {
	Instance    models.WidgetInstance
	Mode        Mode
	IsSelected  bool
	IsDraggable bool
	Seed        int64

	OnSelect func(id string)
	OnUpdate func(id string, next models.WidgetInstance)
	OnDelete func(id string)
	OnAnswer func(isCorrect bool, value interface{})
}

// Render resolves the registry entry and runs the mode's renderer. An
// unregistered type or a renderer failure yields a visible placeholder,
// never an error: widget-local failures are absorbed here.
func (c *Container) Render(reg *Registry) *RenderNode {
	entry, ok := reg.Resolve(c.Instance.Type)
	if !ok {
		return UnknownWidgetNode(c.Instance)
	}

	rc := RenderContext{
		Mode:        c.Mode,
		IsSelected:  c.IsSelected,
		IsDraggable: c.IsDraggable,
		Seed:        c.Seed,
	}

	var node *RenderNode
	var err error
	if c.Mode == ModeEdit {
		node, err = entry.Impl.Edit(c.Instance.Clone(), rc)
	} else {
		node, err = entry.Impl.View(c.Instance.Clone(), rc)
	}
	if err != nil || node == nil {
		return brokenWidgetNode(c.Instance, err)
	}

	node.WithAttr("widget_id", c.Instance.ID).
		WithAttr("widget_type", c.Instance.Type)
	if c.IsSelected {
		node.WithAttr("selected", true)
	}
	if c.IsDraggable {
		node.WithAttr("draggable", true)
	}
	return node
}

// SubmitAnswer grades a raw answer through the type's Grader and forwards
// the verdict to OnAnswer. Non-interactive and unknown types reject the
// submission; grading itself runs on a clone so the authored instance can
// never be touched by a grader.
func (c *Container) SubmitAnswer(reg *Registry, raw interface{}) (bool, error) {
	entry, ok := reg.Resolve(c.Instance.Type)
	if !ok {
		return false, app_errors.ErrWidgetTypeUnknown
	}
	grader, ok := entry.Impl.(Grader)
	if !ok || !entry.Metadata.Interactive {
		return false, app_errors.ErrNotInteractive
	}

	correct, err := grader.Grade(c.Instance.Clone(), raw)
	if err != nil {
		return false, err
	}
	if c.OnAnswer != nil {
		c.OnAnswer(correct, raw)
	}
	return correct, nil
}

// Select, Update and Delete forward through the callbacks so handler code
// reads the same regardless of which affordance fired.
func (c *Container) Select() {
	if c.OnSelect != nil {
		c.OnSelect(c.Instance.ID)
	}
}

func (c *Container) Update(next models.WidgetInstance) {
	if c.OnUpdate != nil {
		c.OnUpdate(c.Instance.ID, next.Clone())
	}
}

func (c *Container) Delete() {
	if c.OnDelete != nil {
		c.OnDelete(c.Instance.ID)
	}
}

// UnknownWidgetNode is the visible fallback for an unregistered type. It is
// deliberately distinct from every real renderer's output so a missing
// registration cannot masquerade as content.
func UnknownWidgetNode(inst models.WidgetInstance) *RenderNode {
	return NewNode("unknown-widget").
		WithText("Unknown widget type: "+inst.Type).
		WithAttr("widget_id", inst.ID).
		WithAttr("widget_type", inst.Type)
}

func brokenWidgetNode(inst models.WidgetInstance, err error) *RenderNode {
	node := NewNode("broken-widget").
		WithText("This block could not be displayed").
		WithAttr("widget_id", inst.ID).
		WithAttr("widget_type", inst.Type)
	if err != nil {
		node.WithAttr("reason", err.Error())
	}
	return node
}
