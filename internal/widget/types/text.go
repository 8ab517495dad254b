package types

import (
	"strconv"

	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

const (
	TextFormatPlain    = "plain"
	TextFormatMarkdown = "markdown"
)

type textContent struct {
	Text     string `json:"text"`
	Format   string `json:"format"`
	FontSize int    `json:"fontSize"`
	Align    string `json:"align"`
}

type textWidget struct{}

func textMetadata() models.WidgetMetadata {
	return models.WidgetMetadata{
		Type:        "TextWidget",
		DisplayName: "Text",
		Description: "A block of plain or markdown text",
		Category:    "content",
		Icon:        "text",
		Version:     "1.0",
		Tags:        []string{"text", "content"},
		Interactive: false,
	}
}

func (textWidget) NewInstance(id string) models.WidgetInstance {
	inst := models.WidgetInstance{ID: id, Type: "TextWidget", Label: "Text"}
	_ = widget.SetContent(&inst, textContent{
		Text:     "",
		Format:   TextFormatPlain,
		FontSize: 14,
		Align:    "left",
	})
	return inst
}

func (textWidget) View(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[textContent](inst)
	if err != nil {
		return nil, err
	}
	node := widget.NewNode("text").
		WithText(content.Text).
		WithAttr("format", formatOrDefault(content.Format)).
		WithAttr("align", content.Align)
	if content.FontSize > 0 {
		node.WithAttr("font_size", content.FontSize)
	}
	return node, nil
}

func (w textWidget) Edit(inst models.WidgetInstance, rc widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[textContent](inst)
	if err != nil {
		return nil, err
	}
	form := widget.NewNode("form").WithAttr("widget", "text")
	form.Append(
		textField("label", inst.Label),
		widget.NewNode("textarea").WithAttr("name", "text").WithText(content.Text),
		selectField("format", formatOrDefault(content.Format), TextFormatPlain, TextFormatMarkdown),
		textField("fontSize", strconv.Itoa(content.FontSize)),
		selectField("align", content.Align, "left", "center", "right"),
	)
	return form, nil
}

func formatOrDefault(format string) string {
	if format == TextFormatMarkdown {
		return TextFormatMarkdown
	}
	return TextFormatPlain
}

func textField(name, value string) *widget.RenderNode {
	return widget.NewNode("input").WithAttr("name", name).WithAttr("value", value)
}

func selectField(name, value string, options ...string) *widget.RenderNode {
	node := widget.NewNode("select").WithAttr("name", name).WithAttr("value", value)
	for _, opt := range options {
		node.Append(widget.NewNode("option").WithAttr("value", opt))
	}
	return node
}
