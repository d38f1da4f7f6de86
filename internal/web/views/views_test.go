package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/kbimport/internal/core"
)

func identity(key string) string { return key }

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestWizard_UploadState(t *testing.T) {
	info := core.SessionInfo{ID: "s1", Wizard: core.WizardSnapshot{State: core.StateUpload}}
	out := render(t, Wizard(identity, "/api/tenants/t1/imports/s1", info))

	assert.Contains(t, out, `id="import-wizard"`)
	assert.Contains(t, out, `data-state="upload"`)
	assert.Contains(t, out, `hx-post="/api/tenants/t1/imports/s1/file"`)
	assert.Contains(t, out, `name="file"`)
	assert.Contains(t, out, `<li aria-current="step">wizard.step.upload</li>`)
}

func TestWizard_PreviewEscapesContent(t *testing.T) {
	info := core.SessionInfo{Wizard: core.WizardSnapshot{
		State:    core.StatePreview,
		FileName: `<script>alert(1)</script>.csv`,
		Summary:  core.PreviewSummary{TotalRows: 2, ValidRows: 1, InvalidRows: 1},
		Rows: []core.ParsedRow{
			{RowIndex: 1, IsValid: true},
			{RowIndex: 2, Errors: []string{"question is required", "answer is required"}},
		},
	}}
	out := render(t, Wizard(identity, "/base", info))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "<td>2</td><td>question is required; answer is required</td>")
	assert.Contains(t, out, `hx-post="/base/commit"`)
	assert.Contains(t, out, `hx-post="/base/back"`)
}

func TestWizard_PreviewWithoutValidRowsHidesConfirm(t *testing.T) {
	info := core.SessionInfo{Wizard: core.WizardSnapshot{
		State:   core.StatePreview,
		Summary: core.PreviewSummary{TotalRows: 1, InvalidRows: 1},
	}}
	out := render(t, Wizard(identity, "/base", info))
	assert.NotContains(t, out, "/base/commit")
}

func TestWizard_CompleteState(t *testing.T) {
	result := core.ImportResult{Success: 2, Skipped: 1, Failed: 1, Errors: []core.RowError{{Row: 4, Message: "answer is required"}}}
	info := core.SessionInfo{Wizard: core.WizardSnapshot{State: core.StateComplete, Result: &result}}
	out := render(t, Wizard(identity, "/base", info))

	assert.Contains(t, out, "<dt>wizard.result.success</dt><dd>2</dd>")
	assert.Contains(t, out, `href="/base/errors.csv"`)
	assert.Contains(t, out, `hx-post="/base/reset"`)
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert(core.UserMessage{Message: "File & size", Action: "Split it", Code: "FILE001"}))

	assert.True(t, strings.HasPrefix(out, `<div class="alert alert-error"`))
	assert.Contains(t, out, `data-code="FILE001"`)
	assert.Contains(t, out, "File &amp; size")
	assert.Contains(t, out, "Code: FILE001")
}

func TestWizard_PreviewListsDuplicatesAndCapsRows(t *testing.T) {
	rows := []core.ParsedRow{{RowIndex: 1, IsValid: true, IsDuplicate: true}}
	for i := 2; i <= maxPreviewRows+10; i++ {
		rows = append(rows, core.ParsedRow{RowIndex: i, Errors: []string{"answer is required"}})
	}
	info := core.SessionInfo{Wizard: core.WizardSnapshot{State: core.StatePreview, Rows: rows}}
	out := render(t, Wizard(identity, "/base", info))

	assert.Contains(t, out, "<td>1</td><td>wizard.preview.duplicates</td>")
	assert.Equal(t, maxPreviewRows, strings.Count(out, "<tr><td>"))
	assert.NotContains(t, out, "<td>60</td>")
}
