package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CourseStatusHidden = "hidden"
	CourseStatusPublic = "public"
)

// Course is the record owned by the external course store. Content carries
// the serialized lesson document verbatim and is replaced wholesale on save.
type Course struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Content       string    `json:"content"`
	ModuleID      uuid.UUID `json:"module_id"`
	Level         int       `json:"level"`
	Public        bool      `json:"public"`
	AuthorID      uuid.UUID `json:"author_id"`
	LogoObjectKey string    `json:"logo_object_key"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CourseUpdate is a partial update; nil fields are left untouched.
type CourseUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
	Level       *int    `json:"level,omitempty"`
	Public      *bool   `json:"public,omitempty"`
}

type CoursePreview struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Level       int       `json:"level"`
	Public      bool      `json:"public"`
	LogoURL     string    `json:"logo_url,omitempty"`
}
