package types

import (
	"strconv"

	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

type listContent struct {
	Items   []string `json:"items"`
	Ordered bool     `json:"ordered"`
	Start   int      `json:"start,omitempty"`
}

type listWidget struct{}

func listMetadata() models.WidgetMetadata {
	return models.WidgetMetadata{
		Type:        "ListWidget",
		DisplayName: "List",
		Description: "An ordered or unordered list of items",
		Category:    "content",
		Icon:        "list",
		Version:     "1.0",
		Tags:        []string{"list", "content"},
		Interactive: false,
	}
}

func (listWidget) NewInstance(id string) models.WidgetInstance {
	inst := models.WidgetInstance{ID: id, Type: "ListWidget", Label: "List"}
	_ = widget.SetContent(&inst, listContent{Items: []string{}, Ordered: false})
	return inst
}

func (listWidget) View(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[listContent](inst)
	if err != nil {
		return nil, err
	}
	element := "unordered-list"
	if content.Ordered {
		element = "ordered-list"
	}
	node := widget.NewNode(element)
	if content.Ordered && content.Start > 0 {
		node.WithAttr("start", content.Start)
	}
	for _, item := range content.Items {
		node.Append(widget.NewNode("item").WithText(item))
	}
	return node, nil
}

func (listWidget) Edit(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[listContent](inst)
	if err != nil {
		return nil, err
	}
	form := widget.NewNode("form").WithAttr("widget", "list")
	form.Append(
		textField("label", inst.Label),
		widget.NewNode("checkbox").WithAttr("name", "ordered").WithAttr("checked", content.Ordered),
		textField("start", strconv.Itoa(content.Start)),
	)
	items := widget.NewNode("item-editor").WithAttr("name", "items")
	for _, item := range content.Items {
		items.Append(widget.NewNode("item").WithText(item))
	}
	return form.Append(items), nil
}
