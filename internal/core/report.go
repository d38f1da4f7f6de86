package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteErrorReport writes result.Errors as CSV with a "row,error" header.
// Batch-level errors appear with row 0.
func WriteErrorReport(w io.Writer, result ImportResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row", "error"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range result.Errors {
		if err := cw.Write([]string{strconv.Itoa(e.Row), e.Message}); err != nil {
			return fmt.Errorf("write row %d: %w", e.Row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
