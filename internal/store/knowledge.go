package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/kbimport/internal/core"
)

// question_key (migration 000002) trims the same characters as
// core.NormalizeQuestion and backs the tenant/question index.
const checkDuplicatesSQL = `
SELECT DISTINCT question_key(question)
FROM knowledge_items
WHERE tenant_id = $1
  AND question_key(question) = ANY($2::text[])`

var knowledgeItemColumns = []string{
	"id", "tenant_id", "category", "subcategory", "question",
	"answer", "keywords", "image_url", "video_url", "views",
}

// KnowledgeStore implements core.Store on PostgreSQL.
type KnowledgeStore struct {
	db DB
}

var _ core.Store = (*KnowledgeStore)(nil)

// NewKnowledgeStore creates a store over db.
func NewKnowledgeStore(db DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

// Ping checks that the database is reachable.
func (s *KnowledgeStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// CheckDuplicateQuestions returns which of the normalized questions already
// exist for the tenant.
func (s *KnowledgeStore) CheckDuplicateQuestions(ctx context.Context, tenantID string, questions []string) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	if len(questions) == 0 {
		return found, nil
	}

	rows, err := s.db.Query(ctx, checkDuplicatesSQL, tenantID, questions)
	if err != nil {
		return nil, fmt.Errorf("query existing questions: %w", err)
	}

	matched, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan existing questions: %w", err)
	}
	for _, q := range matched {
		found[q] = struct{}{}
	}
	return found, nil
}

// BulkAddItems copies items into knowledge_items inside one transaction.
// Either every item is stored or none is.
func (s *KnowledgeStore) BulkAddItems(ctx context.Context, tenantID string, items []core.KnowledgeItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"knowledge_items"}, knowledgeItemColumns, pgx.CopyFromRows(itemRows(tenantID, items)))
	if err != nil {
		return 0, fmt.Errorf("copy knowledge items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit knowledge items: %w", err)
	}
	return int(n), nil
}

// itemRows converts items to COPY rows in knowledgeItemColumns order. New
// items get a fresh id and zero views.
func itemRows(tenantID string, items []core.KnowledgeItem) [][]any {
	rows := make([][]any, len(items))
	for i, item := range items {
		category := item.Category
		if category == "" {
			category = core.DefaultCategory
		}
		rows[i] = []any{
			uuid.New(),
			tenantID,
			category,
			item.Subcategory,
			item.Question,
			item.Answer,
			item.Keywords,
			toPgText(item.ImageURL),
			toPgText(item.VideoURL),
			int32(0),
		}
	}
	return rows
}

// toPgText maps an empty string to NULL.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
