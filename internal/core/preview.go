package core

// PreviewSummary contains the counts shown before an import is confirmed.
type PreviewSummary struct {
	TotalRows      int                `json:"totalRows"`
	ValidRows      int                `json:"validRows"`      // valid and not a duplicate
	InvalidRows    int                `json:"invalidRows"`
	DuplicateRows  int                `json:"duplicateRows"`
	RepeatedInFile []RepeatedQuestion `json:"repeatedInFile,omitempty"`
}

// Sample limits for preview responses.
const (
	maxRepeatedSamples = 10
)

// Summarize counts rows by classification.
func Summarize(rows []ParsedRow) PreviewSummary {
	s := PreviewSummary{TotalRows: len(rows)}
	for _, row := range rows {
		switch {
		case !row.IsValid:
			s.InvalidRows++
		case row.IsDuplicate:
			s.DuplicateRows++
		default:
			s.ValidRows++
		}
	}

	repeated := FindRepeatedInFile(rows)
	if len(repeated) > maxRepeatedSamples {
		repeated = repeated[:maxRepeatedSamples]
	}
	s.RepeatedInFile = repeated
	return s
}
