// Package views renders the HTML partials the import wizard swaps in with
// HTMX. Components live in the .templ files; regenerate the *_templ.go
// files with `templ generate` after editing them.
package views

//go:generate templ generate

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/kbimport/internal/core"
)

// Translator resolves a catalog key for the current request's language.
type Translator func(key string) string

// WizardID is the element id HTMX targets when swapping wizard partials.
const WizardID = "import-wizard"

// maxPreviewRows caps the problem rows listed in the preview table.
const maxPreviewRows = 50

var steps = []core.WizardState{core.StateUpload, core.StatePreview, core.StateImporting, core.StateComplete}

// problemRows returns the first maxPreviewRows rows that will not be imported.
func problemRows(rows []core.ParsedRow) []core.ParsedRow {
	var out []core.ParsedRow
	for _, row := range rows {
		if row.Importable() {
			continue
		}
		if len(out) == maxPreviewRows {
			break
		}
		out = append(out, row)
	}
	return out
}

func rowProblem(t Translator, row core.ParsedRow) string {
	if row.IsDuplicate {
		return t("wizard.preview.duplicates")
	}
	return strings.Join(row.Errors, "; ")
}

func joinInts(ns []int) string {
	var b []byte
	for i, n := range ns {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = strconv.AppendInt(b, int64(n), 10)
	}
	return string(b)
}
