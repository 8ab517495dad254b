package types

import (
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

type codeContent struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type codeWidget struct{}

func codeMetadata() models.WidgetMetadata {
	return models.WidgetMetadata{
		Type:        "CodeWidget",
		DisplayName: "Code",
		Description: "A code snippet with a language label",
		Category:    "content",
		Icon:        "code",
		Version:     "1.0",
		Tags:        []string{"code", "content"},
		Interactive: false,
	}
}

func (codeWidget) NewInstance(id string) models.WidgetInstance {
	inst := models.WidgetInstance{ID: id, Type: "CodeWidget", Label: "Code"}
	_ = widget.SetContent(&inst, codeContent{Language: "plaintext"})
	return inst
}

func (codeWidget) View(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[codeContent](inst)
	if err != nil {
		return nil, err
	}
	// The language tag only drives the display label; nothing executes.
	return widget.NewNode("code").
		WithText(content.Code).
		WithAttr("language", content.Language), nil
}

func (codeWidget) Edit(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[codeContent](inst)
	if err != nil {
		return nil, err
	}
	form := widget.NewNode("form").WithAttr("widget", "code")
	form.Append(
		textField("label", inst.Label),
		widget.NewNode("textarea").WithAttr("name", "code").WithText(content.Code),
		textField("language", content.Language),
	)
	return form, nil
}
