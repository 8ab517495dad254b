package widget

import (
	"CourseCanvas/internal/models"
	"CourseCanvas/pkg/logger"
)

// Entry is one registered widget type: its palette metadata plus the
// implementation resolved by the dispatcher.
type Entry struct {
	Metadata models.WidgetMetadata
	Impl     Implementation
}

// Registry is the process-wide catalogue of widget types. It is constructed
// once at start-up and injected wherever types are resolved; tests build
// their own instance so registrations never leak between cases.
type Registry struct {
	log     logger.Log
	entries map[string]Entry
	order   []string
}

func NewRegistry(log logger.Log) *Registry {
	return &Registry{
		log:     log,
		entries: make(map[string]Entry),
	}
}

// Register associates a type tag with its metadata and implementation.
// Re-registering an existing tag replaces the entry and logs a warning;
// the original palette position is kept so a re-registration cannot
// reorder the palette.
func (r *Registry) Register(meta models.WidgetMetadata, impl Implementation) {
	if _, exists := r.entries[meta.Type]; exists {
		r.log.Warn("widget type re-registered, replacing previous entry", "type", meta.Type)
	} else {
		r.order = append(r.order, meta.Type)
	}
	r.entries[meta.Type] = Entry{Metadata: meta, Impl: impl}
}

// Resolve looks up a type tag. A miss is an expected outcome (content can
// reference a retired type) and callers must render it as an unknown widget,
// never fail.
func (r *Registry) Resolve(widgetType string) (Entry, bool) {
	e, ok := r.entries[widgetType]
	return e, ok
}

// ListMetadata returns palette metadata in registration order. The consuming
// palette regroups by category itself.
func (r *Registry) ListMetadata() []models.WidgetMetadata {
	out := make([]models.WidgetMetadata, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.entries[t].Metadata)
	}
	return out
}

// IsInteractive reports whether the type's metadata declares it interactive.
// Unknown types are not interactive: a widget whose grading logic is
// unavailable cannot gate completion.
func (r *Registry) IsInteractive(widgetType string) bool {
	e, ok := r.entries[widgetType]
	return ok && e.Metadata.Interactive
}
