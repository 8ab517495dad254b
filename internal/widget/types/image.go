package types

import (
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

type imageContent struct {
	URL       string `json:"url"`
	ObjectKey string `json:"objectKey,omitempty"`
	Alt       string `json:"alt"`
	Caption   string `json:"caption,omitempty"`
}

type imageWidget struct{}

func imageMetadata() models.WidgetMetadata {
	return models.WidgetMetadata{
		Type:        "ImageWidget",
		DisplayName: "Image",
		Description: "An uploaded or linked image with alt text",
		Category:    "content",
		Icon:        "image",
		Version:     "1.0",
		Tags:        []string{"image", "media"},
		Interactive: false,
	}
}

func (imageWidget) NewInstance(id string) models.WidgetInstance {
	inst := models.WidgetInstance{ID: id, Type: "ImageWidget", Label: "Image"}
	_ = widget.SetContent(&inst, imageContent{})
	return inst
}

func (imageWidget) View(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[imageContent](inst)
	if err != nil {
		return nil, err
	}
	node := widget.NewNode("image").
		WithAttr("src", content.URL).
		WithAttr("alt", content.Alt)
	if content.Caption != "" {
		node.Append(widget.NewNode("caption").WithText(content.Caption))
	}
	return node, nil
}

func (imageWidget) Edit(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[imageContent](inst)
	if err != nil {
		return nil, err
	}
	form := widget.NewNode("form").WithAttr("widget", "image")
	form.Append(
		textField("label", inst.Label),
		widget.NewNode("upload").WithAttr("name", "file").WithAttr("accept", "image/*"),
		textField("url", content.URL),
		textField("alt", content.Alt),
		textField("caption", content.Caption),
	)
	if content.Alt == "" {
		form.Append(widget.NewNode("advisory").WithText("Add alt text so the image is accessible"))
	}
	return form, nil
}

// Validate flags a missing alt text as an advisory only: the save still goes
// through.
func (imageWidget) Validate(inst models.WidgetInstance) ([]string, error) {
	content, err := widget.Content[imageContent](inst)
	if err != nil {
		return nil, err
	}
	var warnings []string
	if content.Alt == "" {
		warnings = append(warnings, "image has no alt text")
	}
	return warnings, nil
}
