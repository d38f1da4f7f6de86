package core

// validation.go normalizes raw rows into knowledge items.
//
// Every rule looks at one row only, so rows can be validated in any order
// and the result depends on nothing but the row and the default category.

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Column name
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return e.Message
}

// RowValidator validates raw rows against the import template.
type RowValidator struct {
	defaultCategory string
}

// NewRowValidator creates a validator. A blank defaultCategory falls back
// to DefaultCategory.
func NewRowValidator(defaultCategory string) *RowValidator {
	defaultCategory = strings.TrimSpace(defaultCategory)
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &RowValidator{defaultCategory: defaultCategory}
}

// Validate checks one raw row and returns its normalized form. Invalid rows
// carry one error per missing required field.
func (v *RowValidator) Validate(raw RawRow) ParsedRow {
	cell := func(col string) string {
		return strings.TrimSpace(raw.Values[col])
	}

	row := ParsedRow{
		RowIndex: raw.Index,
		Item: KnowledgeItem{
			Question:    cell(ColQuestion),
			Answer:      cell(ColAnswer),
			Category:    cell(ColCategory),
			Subcategory: cell(ColSubcategory),
			Keywords:    cell(ColKeywords),
			ImageURL:    cell(ColImage),
			VideoURL:    cell(ColVideo),
		},
	}

	if row.Item.Category == "" {
		row.Item.Category = v.defaultCategory
	}

	for _, spec := range Columns {
		if spec.Required && cell(spec.Name) == "" {
			row.Errors = append(row.Errors, ValidationError{
				Field:   spec.Name,
				Message: "is required",
			}.Error())
		}
	}

	row.IsValid = len(row.Errors) == 0
	return row
}

// ValidateRows validates every raw row, preserving order.
func (v *RowValidator) ValidateRows(raws []RawRow) []ParsedRow {
	rows := make([]ParsedRow, len(raws))
	for i, raw := range raws {
		rows[i] = v.Validate(raw)
	}
	return rows
}
