package core

import (
	"context"
	"fmt"
)

// MarkDuplicates asks the checker which valid questions already exist for
// the tenant and flags the matching rows. Invalid rows are never sent and
// never flagged.
//
// A lookup failure is returned wrapped in ErrDuplicateCheck and leaves rows
// untouched; callers must not treat it as "no duplicates".
func MarkDuplicates(ctx context.Context, checker DuplicateChecker, tenantID string, rows []ParsedRow) (int, error) {
	var questions []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if !row.IsValid {
			continue
		}
		key := NormalizeQuestion(row.Item.Question)
		if seen[key] {
			continue
		}
		seen[key] = true
		questions = append(questions, key)
	}

	if len(questions) == 0 {
		return 0, nil
	}

	existing, err := checker.CheckDuplicateQuestions(ctx, tenantID, questions)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDuplicateCheck, err)
	}

	marked := 0
	for i := range rows {
		if !rows[i].IsValid {
			continue
		}
		if _, ok := existing[NormalizeQuestion(rows[i].Item.Question)]; ok {
			rows[i].IsDuplicate = true
			marked++
		}
	}
	return marked, nil
}

// RepeatedQuestion is a question that appears on more than one valid row of
// the same file.
type RepeatedQuestion struct {
	Question string `json:"question"`
	Rows     []int  `json:"rows"`
}

// FindRepeatedInFile reports valid questions repeated within one file. It
// is advisory only: repeated rows are not marked as duplicates.
func FindRepeatedInFile(rows []ParsedRow) []RepeatedQuestion {
	byKey := make(map[string][]int)
	var order []string
	for _, row := range rows {
		if !row.IsValid {
			continue
		}
		key := NormalizeQuestion(row.Item.Question)
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], row.RowIndex)
	}

	var repeated []RepeatedQuestion
	for _, key := range order {
		if lines := byKey[key]; len(lines) > 1 {
			repeated = append(repeated, RepeatedQuestion{Question: key, Rows: lines})
		}
	}
	return repeated
}
