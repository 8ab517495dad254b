package types

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/samber/lo"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

type choiceOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type multipleChoiceContent struct {
	Question    string         `json:"question"`
	Options     []choiceOption `json:"options"`
	MultiSelect bool           `json:"multiSelect"`
	Shuffle     bool           `json:"shuffle"`
}

type multipleChoiceWidget struct{}

func multipleChoiceMetadata() models.WidgetMetadata {
	return models.WidgetMetadata{
		Type:        "MultipleChoiceWidget",
		DisplayName: "Multiple Choice",
		Description: "A question with single or multi select options",
		Category:    "interactive",
		Icon:        "quiz",
		Version:     "1.0",
		Tags:        []string{"quiz", "question", "interactive"},
		Interactive: true,
	}
}

func (multipleChoiceWidget) NewInstance(id string) models.WidgetInstance {
	inst := models.WidgetInstance{ID: id, Type: "MultipleChoiceWidget", Label: "Question"}
	_ = widget.SetContent(&inst, multipleChoiceContent{
		Question: "",
		Options: []choiceOption{
			{ID: "option_0", Text: "", IsCorrect: true},
			{ID: "option_1", Text: "", IsCorrect: false},
		},
	})
	return inst
}

func (multipleChoiceWidget) View(inst models.WidgetInstance, rc widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[multipleChoiceContent](inst)
	if err != nil {
		return nil, err
	}

	options := append([]choiceOption(nil), content.Options...)
	if content.Shuffle {
		// Display order only. Option ids are untouched, so grading is
		// indifferent to the shuffle.
		rng := rand.New(rand.NewSource(shuffleSeed(rc.Seed, inst.ID)))
		rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	}

	node := widget.NewNode("multiple-choice").
		WithAttr("multi_select", content.MultiSelect)
	node.Append(widget.NewNode("question").WithText(content.Question))
	for _, opt := range options {
		// Correctness is never exposed in playback output.
		node.Append(widget.NewNode("option").
			WithText(opt.Text).
			WithAttr("option_id", opt.ID))
	}
	node.Append(widget.NewNode("check-button").WithText("Check answer"))
	return node, nil
}

func (multipleChoiceWidget) Edit(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[multipleChoiceContent](inst)
	if err != nil {
		return nil, err
	}
	form := widget.NewNode("form").WithAttr("widget", "multiple-choice")
	form.Append(
		textField("label", inst.Label),
		widget.NewNode("textarea").WithAttr("name", "question").WithText(content.Question),
		widget.NewNode("checkbox").WithAttr("name", "multiSelect").WithAttr("checked", content.MultiSelect),
		widget.NewNode("checkbox").WithAttr("name", "shuffle").WithAttr("checked", content.Shuffle),
	)
	editor := widget.NewNode("option-editor").WithAttr("name", "options")
	for _, opt := range content.Options {
		editor.Append(widget.NewNode("option").
			WithText(opt.Text).
			WithAttr("option_id", opt.ID).
			WithAttr("is_correct", opt.IsCorrect))
	}
	return form.Append(editor), nil
}

// Grade checks exact set equality between the selected option ids and the
// ids flagged correct. Supersets and subsets both fail.
func (multipleChoiceWidget) Grade(inst models.WidgetInstance, raw interface{}) (bool, error) {
	content, err := widget.Content[multipleChoiceContent](inst)
	if err != nil {
		return false, err
	}
	selected, err := selectedOptionIDs(raw)
	if err != nil {
		return false, err
	}
	correct := lo.FilterMap(content.Options, func(opt choiceOption, _ int) (string, bool) {
		return opt.ID, opt.IsCorrect
	})

	selected = lo.Uniq(selected)
	if len(selected) != len(correct) {
		return false, nil
	}
	missing, extra := lo.Difference(correct, selected)
	return len(missing) == 0 && len(extra) == 0, nil
}

// Interactive types block saving without a label; the playback progress view
// refers to widgets by label.
func (multipleChoiceWidget) Validate(inst models.WidgetInstance) ([]string, error) {
	if inst.Label == "" {
		return nil, fmt.Errorf("multiple choice widget %q: %w", inst.ID, app_errors.ErrLabelRequired)
	}
	content, err := widget.Content[multipleChoiceContent](inst)
	if err != nil {
		return nil, err
	}
	var warnings []string
	if !lo.SomeBy(content.Options, func(opt choiceOption) bool { return opt.IsCorrect }) {
		warnings = append(warnings, "no option is marked correct; the question can never be answered correctly")
	}
	return warnings, nil
}

// selectedOptionIDs normalizes the raw submission. Clients send either a
// bare array of option ids or an object carrying it under option_ids.
func selectedOptionIDs(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("option id must be a string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case map[string]interface{}:
		if ids, ok := v["option_ids"]; ok {
			return selectedOptionIDs(ids)
		}
		return nil, fmt.Errorf("answer object has no option_ids")
	default:
		return nil, fmt.Errorf("unsupported answer shape %T", raw)
	}
}

func shuffleSeed(seed int64, widgetID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(widgetID))
	return seed ^ int64(h.Sum64())
}
