package core

import (
	"context"
	"sync"
)

// fakeStore is an in-memory Store that records every call.
type fakeStore struct {
	mu sync.Mutex

	existing map[string]struct{} // normalized questions already stored
	checkErr error
	writeErr error
	accept   int // when > 0, BulkAddItems stores at most this many items

	checkCalls [][]string
	writeCalls [][]KnowledgeItem
	block      chan struct{} // when set, BulkAddItems waits on it
}

func newFakeStore(existing ...string) *fakeStore {
	s := &fakeStore{existing: make(map[string]struct{})}
	for _, q := range existing {
		s.existing[NormalizeQuestion(q)] = struct{}{}
	}
	return s
}

func (s *fakeStore) CheckDuplicateQuestions(ctx context.Context, tenantID string, questions []string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkCalls = append(s.checkCalls, append([]string(nil), questions...))
	if s.checkErr != nil {
		return nil, s.checkErr
	}

	found := make(map[string]struct{})
	for _, q := range questions {
		if _, ok := s.existing[q]; ok {
			found[q] = struct{}{}
		}
	}
	return found, nil
}

func (s *fakeStore) BulkAddItems(ctx context.Context, tenantID string, items []KnowledgeItem) (int, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeCalls = append(s.writeCalls, append([]KnowledgeItem(nil), items...))
	if s.writeErr != nil {
		return 0, s.writeErr
	}

	stored := len(items)
	if s.accept > 0 && s.accept < stored {
		stored = s.accept
	}
	for _, item := range items[:stored] {
		s.existing[NormalizeQuestion(item.Question)] = struct{}{}
	}
	return stored, nil
}

func (s *fakeStore) checks() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkCalls
}

func (s *fakeStore) writes() [][]KnowledgeItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeCalls
}

func validRow(idx int, question string) ParsedRow {
	return ParsedRow{
		RowIndex: idx,
		Item: KnowledgeItem{
			Question: question,
			Answer:   "answer for " + question,
			Category: DefaultCategory,
		},
		IsValid: true,
	}
}

func invalidRow(idx int, errs ...string) ParsedRow {
	return ParsedRow{RowIndex: idx, Errors: errs}
}
