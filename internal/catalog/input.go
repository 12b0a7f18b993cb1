// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"catalogtree/internal/models"
	"catalogtree/internal/slug"
	"catalogtree/internal/taxonomy"
)

// Input holds the editable fields of a category as submitted by a client.
//
// On update, a nil ParentID only moves the category to the root when
// ParentSet is true. Decoding JSON sets ParentSet whenever parent_id is
// present, including an explicit null.
type Input struct {
	Name           string            `json:"name" validate:"required,max=200"`
	Slug           string            `json:"slug" validate:"omitempty,max=200,slug"`
	Description    string            `json:"description" validate:"max=5000"`
	SEOTitle       string            `json:"seo_title" validate:"max=200"`
	SEODescription string            `json:"seo_description" validate:"max=500"`
	Visibility     models.Visibility `json:"visibility" validate:"omitempty,oneof=public private"`
	ParentID       *uuid.UUID        `json:"parent_id"`
	ParentSet      bool              `json:"-"`
	SortOrder      *int              `json:"sort_order" validate:"omitempty,min=0"`
}

// UnmarshalJSON decodes the input and records whether parent_id was sent.
func (in *Input) UnmarshalJSON(data []byte) error {
	type plain Input
	var aux struct {
		plain
		Parent json.RawMessage `json:"parent_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*in = Input(aux.plain)
	if aux.Parent == nil {
		return nil
	}
	in.ParentSet = true
	if string(aux.Parent) == "null" {
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(aux.Parent, &id); err != nil {
		return fmt.Errorf("parent_id: %w", err)
	}
	in.ParentID = &id
	return nil
}

// parentChange reports the parent requested by an update, and whether one
// was requested at all.
func (in Input) parentChange() (*uuid.UUID, bool) {
	return in.ParentID, in.ParentSet || in.ParentID != nil
}

// ValidationError lists the fields that failed validation, keyed by their
// JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slug.Valid(fl.Field().String())
	})
	return v
}

// normalize trims the free-text fields and defaults visibility.
func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	in.SEOTitle = strings.TrimSpace(in.SEOTitle)
	in.SEODescription = strings.TrimSpace(in.SEODescription)
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
}

// Validate checks the struct tags and returns a *ValidationError.
func (in Input) Validate() error {
	return structError(validate.Struct(in))
}

func (in Input) category() *models.Category {
	return &models.Category{
		Name:           in.Name,
		Slug:           in.Slug,
		Description:    in.Description,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		Visibility:     in.Visibility,
		ParentID:       in.ParentID,
	}
}

// reorderRequest wraps a move batch for struct validation.
type reorderRequest struct {
	Moves []taxonomy.Move `json:"moves" validate:"required,min=1,max=1000,dive"`
}

func validateMoves(moves []taxonomy.Move) error {
	return structError(validate.Struct(reorderRequest{Moves: moves}))
}

// structError converts validator errors into a *ValidationError.
func structError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate input: %w", err)
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fieldPath(fe)] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the root struct name from the namespace:
// "Input.name" → "name", "reorderRequest.moves[0].id" → "moves[0].id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must have at most " + fe.Param() + " entries"
		}
		return "must be at most " + fe.Param() + " characters"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must have at least " + fe.Param() + " entries"
		}
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "slug":
		return "must contain only lowercase letters, digits and single hyphens"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
