package core

import (
	"context"
	"fmt"
	"strings"
)

// BatchErrorRow is the row number used for errors that belong to the whole
// batch rather than to a single source row.
const BatchErrorRow = 0

// ExecuteImport writes every importable row with one BulkAddItems call and
// folds the outcome into an ImportResult.
//
// Accounting: importable rows count toward Success or, if the batch call
// fails, Failed; duplicate rows count toward Skipped; invalid rows count
// toward Failed with their validation messages. Every row lands in exactly
// one bucket. There are no retries.
func ExecuteImport(ctx context.Context, writer BulkWriter, tenantID string, rows []ParsedRow) ImportResult {
	var (
		result ImportResult
		items  []KnowledgeItem
	)

	for _, row := range rows {
		switch {
		case !row.IsValid:
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				Row:     row.RowIndex,
				Message: strings.Join(row.Errors, "; "),
			})
		case row.IsDuplicate:
			continue
		default:
			items = append(items, row.Item)
		}
	}

	if len(items) > 0 {
		stored, err := writer.BulkAddItems(ctx, tenantID, items)
		switch {
		case err != nil:
			result.Failed += len(items)
			result.Errors = append(result.Errors, RowError{
				Row:     BatchErrorRow,
				Message: fmt.Errorf("%w: %w", ErrBatchImport, err).Error(),
			})
		case stored < len(items):
			result.Success += stored
			result.Failed += len(items) - stored
			result.Errors = append(result.Errors, RowError{
				Row:     BatchErrorRow,
				Message: fmt.Sprintf("%s: store accepted %d of %d items", ErrBatchImport, stored, len(items)),
			})
		default:
			result.Success += len(items)
		}
	}

	// Skipped is tallied after the write, from the rows excluded up front.
	for _, row := range rows {
		if row.IsValid && row.IsDuplicate {
			result.Skipped++
		}
	}

	return result
}
