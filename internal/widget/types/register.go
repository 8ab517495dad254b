// Package types holds the widget catalogue. Every type implements the same
// view/edit contract; interactive ones additionally grade answers.
package types

import (
	"CourseCanvas/internal/widget"
)

// RegisterAll populates a registry with the full catalogue. Called once at
// application start; the palette order below is the registration order the
// registry reports.
func RegisterAll(reg *widget.Registry) {
	reg.Register(textMetadata(), textWidget{})
	reg.Register(imageMetadata(), imageWidget{})
	reg.Register(listMetadata(), listWidget{})
	reg.Register(codeMetadata(), codeWidget{})
	reg.Register(calendarMetadata(), calendarWidget{})
	reg.Register(multipleChoiceMetadata(), multipleChoiceWidget{})
	reg.Register(matchingMetadata(), matchingWidget{})
}
