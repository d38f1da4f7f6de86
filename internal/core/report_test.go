package core

import (
	"bytes"
	"testing"
)

func TestWriteErrorReport(t *testing.T) {
	result := ImportResult{
		Failed: 3,
		Errors: []RowError{
			{Row: 2, Message: "question is required; answer is required"},
			{Row: BatchErrorRow, Message: "batch import failed: deadlock, \"retry\""},
		},
	}

	var buf bytes.Buffer
	if err := WriteErrorReport(&buf, result); err != nil {
		t.Fatalf("WriteErrorReport: %v", err)
	}

	want := "row,error\n" +
		"2,question is required; answer is required\n" +
		"0,\"batch import failed: deadlock, \"\"retry\"\"\"\n"
	if got := buf.String(); got != want {
		t.Errorf("report =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteErrorReport_NoErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteErrorReport(&buf, ImportResult{Success: 4}); err != nil {
		t.Fatalf("WriteErrorReport: %v", err)
	}
	if got := buf.String(); got != "row,error\n" {
		t.Errorf("report = %q, want header only", got)
	}
}
