package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteImport(t *testing.T) {
	tests := []struct {
		name        string
		rows        func() []ParsedRow
		writeErr    error
		accept      int
		wantSuccess int
		wantSkipped int
		wantFailed  int
		wantErrRows []int
		wantWrites  int
	}{
		{
			name: "valid, duplicate and invalid rows",
			rows: func() []ParsedRow {
				dup := validRow(3, "Existing")
				dup.IsDuplicate = true
				return []ParsedRow{
					validRow(1, "New one"),
					validRow(2, "New two"),
					dup,
					invalidRow(4, "question is required", "answer is required"),
				}
			},
			wantSuccess: 2,
			wantSkipped: 1,
			wantFailed:  1,
			wantErrRows: []int{4},
			wantWrites:  1,
		},
		{
			name: "batch failure fails every importable row",
			rows: func() []ParsedRow {
				return []ParsedRow{validRow(1, "A"), validRow(2, "B"), invalidRow(3, "answer is required")}
			},
			writeErr:    errors.New("connection reset by peer"),
			wantFailed:  3,
			wantErrRows: []int{3, BatchErrorRow},
			wantWrites:  1,
		},
		{
			name: "partial store acceptance",
			rows: func() []ParsedRow {
				return []ParsedRow{validRow(1, "A"), validRow(2, "B"), validRow(3, "C")}
			},
			accept:      2,
			wantSuccess: 2,
			wantFailed:  1,
			wantErrRows: []int{BatchErrorRow},
			wantWrites:  1,
		},
		{
			name: "all duplicates makes no write",
			rows: func() []ParsedRow {
				a, b := validRow(1, "A"), validRow(2, "B")
				a.IsDuplicate, b.IsDuplicate = true, true
				return []ParsedRow{a, b}
			},
			wantSkipped: 2,
			wantWrites:  0,
		},
		{
			name:       "no rows",
			rows:       func() []ParsedRow { return nil },
			wantWrites: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.writeErr = tt.writeErr
			store.accept = tt.accept
			rows := tt.rows()

			result := ExecuteImport(context.Background(), store, "tenant-1", rows)

			assert.Equal(t, tt.wantSuccess, result.Success, "Success")
			assert.Equal(t, tt.wantSkipped, result.Skipped, "Skipped")
			assert.Equal(t, tt.wantFailed, result.Failed, "Failed")
			assert.Equal(t, len(rows), result.Total(), "every row counted exactly once")
			assert.Len(t, store.writes(), tt.wantWrites, "BulkAddItems calls")

			var gotRows []int
			for _, e := range result.Errors {
				gotRows = append(gotRows, e.Row)
			}
			assert.Equal(t, tt.wantErrRows, gotRows, "error rows")
		})
	}
}

func TestExecuteImport_SendsImportableRowsInOrder(t *testing.T) {
	store := newFakeStore()
	dup := validRow(2, "Dup")
	dup.IsDuplicate = true
	rows := []ParsedRow{validRow(1, "First"), dup, invalidRow(3, "answer is required"), validRow(4, "Last")}

	ExecuteImport(context.Background(), store, "tenant-1", rows)

	writes := store.writes()
	require.Len(t, writes, 1)
	require.Len(t, writes[0], 2)
	assert.Equal(t, "First", writes[0][0].Question)
	assert.Equal(t, "Last", writes[0][1].Question)
}

func TestExecuteImport_ErrorMessages(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errors.New("deadlock detected")
	rows := []ParsedRow{validRow(1, "A"), invalidRow(2, "question is required", "answer is required")}

	result := ExecuteImport(context.Background(), store, "t", rows)
	require.Len(t, result.Errors, 2)

	assert.Equal(t, RowError{Row: 2, Message: "question is required; answer is required"}, result.Errors[0])
	assert.Equal(t, BatchErrorRow, result.Errors[1].Row)
	assert.True(t, strings.HasPrefix(result.Errors[1].Message, ErrBatchImport.Error()))
	assert.Contains(t, result.Errors[1].Message, "deadlock detected")
}
