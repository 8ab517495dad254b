package types

import (
	"sort"

	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

type calendarEvent struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

type calendarContent struct {
	Events []calendarEvent `json:"events"`
}

type calendarWidget struct{}

func calendarMetadata() models.WidgetMetadata {
	return models.WidgetMetadata{
		Type:        "CalendarWidget",
		DisplayName: "Calendar",
		Description: "A list of dated events",
		Category:    "content",
		Icon:        "calendar",
		Version:     "1.0",
		Tags:        []string{"calendar", "events"},
		Interactive: false,
	}
}

func (calendarWidget) NewInstance(id string) models.WidgetInstance {
	inst := models.WidgetInstance{ID: id, Type: "CalendarWidget", Label: "Calendar"}
	_ = widget.SetContent(&inst, calendarContent{Events: []calendarEvent{}})
	return inst
}

func (calendarWidget) View(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[calendarContent](inst)
	if err != nil {
		return nil, err
	}
	// Dates are opaque ISO strings: lexicographic order is display order.
	// No recurrence, no timezone handling.
	events := append([]calendarEvent(nil), content.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })

	node := widget.NewNode("calendar")
	for _, ev := range events {
		node.Append(widget.NewNode("event").
			WithText(ev.Title).
			WithAttr("date", ev.Date))
	}
	return node, nil
}

func (calendarWidget) Edit(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[calendarContent](inst)
	if err != nil {
		return nil, err
	}
	form := widget.NewNode("form").WithAttr("widget", "calendar")
	form.Append(textField("label", inst.Label))
	editor := widget.NewNode("event-editor").WithAttr("name", "events")
	for _, ev := range content.Events {
		editor.Append(widget.NewNode("event").
			WithText(ev.Title).
			WithAttr("date", ev.Date))
	}
	return form.Append(editor), nil
}
