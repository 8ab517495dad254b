package types

import (
	"fmt"

	"github.com/samber/lo"

	"CourseCanvas/internal/app_errors"
	"CourseCanvas/internal/models"
	"CourseCanvas/internal/widget"
)

type matchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchPair is one left→right assignment, in both the authored key and the
// learner's submission.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type matchingContent struct {
	Prompt         string      `json:"prompt"`
	LeftItems      []matchItem `json:"leftItems"`
	RightItems     []matchItem `json:"rightItems"`
	CorrectMatches []MatchPair `json:"correctMatches"`
}

type matchingWidget struct{}

func matchingMetadata() models.WidgetMetadata {
	return models.WidgetMetadata{
		Type:        "MatchingWidget",
		DisplayName: "Matching",
		Description: "Pair items from two columns",
		Category:    "interactive",
		Icon:        "matching",
		Version:     "1.0",
		Tags:        []string{"matching", "question", "interactive"},
		Interactive: true,
	}
}

func (matchingWidget) NewInstance(id string) models.WidgetInstance {
	inst := models.WidgetInstance{ID: id, Type: "MatchingWidget", Label: "Matching"}
	_ = widget.SetContent(&inst, matchingContent{
		LeftItems:      []matchItem{},
		RightItems:     []matchItem{},
		CorrectMatches: []MatchPair{},
	})
	return inst
}

func (matchingWidget) View(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[matchingContent](inst)
	if err != nil {
		return nil, err
	}
	node := widget.NewNode("matching")
	if content.Prompt != "" {
		node.Append(widget.NewNode("prompt").WithText(content.Prompt))
	}
	left := widget.NewNode("column").WithAttr("side", "left")
	for _, item := range content.LeftItems {
		left.Append(widget.NewNode("item").WithText(item.Text).WithAttr("item_id", item.ID))
	}
	right := widget.NewNode("column").WithAttr("side", "right")
	for _, item := range content.RightItems {
		right.Append(widget.NewNode("item").WithText(item.Text).WithAttr("item_id", item.ID))
	}
	node.Append(left, right, widget.NewNode("check-button").WithText("Check answer"))
	return node, nil
}

func (matchingWidget) Edit(inst models.WidgetInstance, _ widget.RenderContext) (*widget.RenderNode, error) {
	content, err := widget.Content[matchingContent](inst)
	if err != nil {
		return nil, err
	}
	form := widget.NewNode("form").WithAttr("widget", "matching")
	form.Append(
		textField("label", inst.Label),
		textField("prompt", content.Prompt),
	)
	pairs := widget.NewNode("pair-editor").WithAttr("name", "correctMatches")
	for _, pair := range content.CorrectMatches {
		pairs.Append(widget.NewNode("pair").
			WithAttr("left", pair.Left).
			WithAttr("right", pair.Right))
	}
	return form.Append(pairs), nil
}

// Grade checks that the submitted pair set equals the authored correctMatches
// as an unordered set. Extra, missing or swapped pairs all fail; there is no
// partial credit.
func (matchingWidget) Grade(inst models.WidgetInstance, raw interface{}) (bool, error) {
	content, err := widget.Content[matchingContent](inst)
	if err != nil {
		return false, err
	}
	submitted, err := submittedPairs(raw)
	if err != nil {
		return false, err
	}

	want := lo.Map(content.CorrectMatches, func(p MatchPair, _ int) string { return p.Left + "\x00" + p.Right })
	got := lo.Map(submitted, func(p MatchPair, _ int) string { return p.Left + "\x00" + p.Right })
	want, got = lo.Uniq(want), lo.Uniq(got)
	if len(want) != len(got) {
		return false, nil
	}
	missing, extra := lo.Difference(want, got)
	return len(missing) == 0 && len(extra) == 0, nil
}

func (matchingWidget) Validate(inst models.WidgetInstance) ([]string, error) {
	if inst.Label == "" {
		return nil, fmt.Errorf("matching widget %q: %w", inst.ID, app_errors.ErrLabelRequired)
	}
	content, err := widget.Content[matchingContent](inst)
	if err != nil {
		return nil, err
	}
	var warnings []string
	if len(content.CorrectMatches) == 0 {
		warnings = append(warnings, "no correct matches authored; the widget can never be answered correctly")
	}
	return warnings, nil
}

func submittedPairs(raw interface{}) ([]MatchPair, error) {
	switch v := raw.(type) {
	case []MatchPair:
		return v, nil
	case []interface{}:
		out := make([]MatchPair, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("match pair must be an object, got %T", item)
			}
			left, _ := obj["left"].(string)
			right, _ := obj["right"].(string)
			if left == "" || right == "" {
				return nil, fmt.Errorf("match pair needs left and right ids")
			}
			out = append(out, MatchPair{Left: left, Right: right})
		}
		return out, nil
	case map[string]interface{}:
		if pairs, ok := v["pairs"]; ok {
			return submittedPairs(pairs)
		}
		return nil, fmt.Errorf("answer object has no pairs")
	default:
		return nil, fmt.Errorf("unsupported answer shape %T", raw)
	}
}

// MatchBoard models the in-progress pairing state on the playback side.
// Re-assigning a left item replaces its previous pairing; a right item that
// is already taken rejects a second left item until unmatched.
type MatchBoard struct {
	byLeft  map[string]string
	byRight map[string]string
}

func NewMatchBoard() *MatchBoard {
	return &MatchBoard{
		byLeft:  map[string]string{},
		byRight: map[string]string{},
	}
}

func (b *MatchBoard) Assign(left, right string) error {
	if owner, taken := b.byRight[right]; taken && owner != left {
		return app_errors.ErrRightItemTaken
	}
	if prev, ok := b.byLeft[left]; ok {
		delete(b.byRight, prev)
	}
	b.byLeft[left] = right
	b.byRight[right] = left
	return nil
}

func (b *MatchBoard) Unassign(left string) {
	if right, ok := b.byLeft[left]; ok {
		delete(b.byRight, right)
		delete(b.byLeft, left)
	}
}

func (b *MatchBoard) Pairs() []MatchPair {
	out := make([]MatchPair, 0, len(b.byLeft))
	for left, right := range b.byLeft {
		out = append(out, MatchPair{Left: left, Right: right})
	}
	return out
}
