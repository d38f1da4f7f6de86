package core

import (
	"context"
	"strings"
)

// Template column names. The header of every import file is matched
// against these, case-insensitively.
const (
	ColQuestion    = "question"
	ColAnswer      = "answer"
	ColCategory    = "category"
	ColSubcategory = "subcategory"
	ColKeywords    = "keywords"
	ColImage       = "image"
	ColVideo       = "video"
)

// DefaultCategory is assigned to rows whose category cell is blank.
const DefaultCategory = "General"

// FieldSpec describes one column of the import template.
type FieldSpec struct {
	Name     string // Column header name
	Required bool   // Value must be non-empty after trimming
}

// Columns is the fixed import schema, in template order.
var Columns = []FieldSpec{
	{Name: ColQuestion, Required: true},
	{Name: ColAnswer, Required: true},
	{Name: ColCategory},
	{Name: ColSubcategory},
	{Name: ColKeywords},
	{Name: ColImage},
	{Name: ColVideo},
}

// ColumnNames returns the template header row.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// KnowledgeItem is a single FAQ entry owned by a tenant.
// ID and Views are assigned by the store.
type KnowledgeItem struct {
	ID          string `json:"id,omitempty"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Keywords    string `json:"keywords"`
	ImageURL    string `json:"image,omitempty"`
	VideoURL    string `json:"video,omitempty"`
	Views       int    `json:"views"`
}

// RawRow is one data record from an import file, keyed by template column.
// Columns absent from the file's header are absent from Values.
type RawRow struct {
	Index  int
	Values map[string]string
}

// ParsedRow is the validated, normalized form of a RawRow.
type ParsedRow struct {
	RowIndex    int           `json:"rowIndex"`
	Item        KnowledgeItem `json:"item"`
	IsValid     bool          `json:"isValid"`
	Errors      []string      `json:"errors,omitempty"`
	IsDuplicate bool          `json:"isDuplicate"`
}

// Importable reports whether the row will be sent to the store.
func (r ParsedRow) Importable() bool {
	return r.IsValid && !r.IsDuplicate
}

// RowError pairs a source row with a failure message. Row 0 marks an
// error that belongs to the batch rather than to a single row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult is the outcome of one import run.
type ImportResult struct {
	Success int        `json:"success"`
	Skipped int        `json:"skipped"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

// Total returns the number of rows accounted for by the result.
func (r ImportResult) Total() int {
	return r.Success + r.Skipped + r.Failed
}

// DuplicateChecker looks up which questions already exist for a tenant.
// The returned set holds normalized questions (see NormalizeQuestion).
type DuplicateChecker interface {
	CheckDuplicateQuestions(ctx context.Context, tenantID string, questions []string) (map[string]struct{}, error)
}

// BulkWriter persists a batch of knowledge items for a tenant in one call
// and returns the number of items stored.
type BulkWriter interface {
	BulkAddItems(ctx context.Context, tenantID string, items []KnowledgeItem) (int, error)
}

// Store is everything the import pipeline needs from the backing store.
type Store interface {
	DuplicateChecker
	BulkWriter
}

// NormalizeQuestion is the duplicate-matching key for a question.
func NormalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
