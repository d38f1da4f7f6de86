package core

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTemplateCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplateCSV(&buf))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"question", "answer", "category", "subcategory", "keywords", "image", "video"}, records[0])
	assert.Equal(t, SampleRow.Question, records[1][0])
}

func TestWriteTemplateXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplateXLSX(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{templateSheet}, f.GetSheetList())
	rows, err := f.GetRows(templateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ColumnNames()[:5], rows[0][:5])
}

// A downloaded template must import cleanly without edits.
func TestTemplates_ImportCleanly(t *testing.T) {
	writers := map[string]func(*bytes.Buffer) error{
		"template.csv":  func(b *bytes.Buffer) error { return WriteTemplateCSV(b) },
		"template.xlsx": func(b *bytes.Buffer) error { return WriteTemplateXLSX(b) },
	}

	for name, write := range writers {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, write(&buf))

			raws, err := ParseFile(name, int64(buf.Len()), &buf, ParseOptions{})
			require.NoError(t, err)
			require.Len(t, raws, 1)

			row := NewRowValidator("").Validate(raws[0])
			assert.True(t, row.IsValid, "errors: %v", row.Errors)
			assert.Equal(t, SampleRow, row.Item)
		})
	}
}
