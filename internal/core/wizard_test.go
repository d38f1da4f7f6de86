package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wizardCSV = "question,answer,category\n" +
	"How do I reset my password?,Use the reset link,Account\n" +
	"How do I change my email?,Open profile settings,\n" +
	",Orphan answer,\n" +
	"Where are invoices?,Billing page,Billing\n"

func newTestWizard(store *fakeStore) *Wizard {
	return NewWizard("tenant-1", store, WizardConfig{})
}

func loadCSV(t *testing.T, w *Wizard, content string) (PreviewSummary, error) {
	t.Helper()
	return w.Load(context.Background(), "faq.csv", int64(len(content)), strings.NewReader(content))
}

func TestWizard_HappyPath(t *testing.T) {
	store := newFakeStore("where are invoices?")
	w := newTestWizard(store)
	require.Equal(t, StateUpload, w.State())

	summary, err := loadCSV(t, w, wizardCSV)
	require.NoError(t, err)
	assert.Equal(t, StatePreview, w.State())
	assert.Equal(t, PreviewSummary{TotalRows: 4, ValidRows: 2, InvalidRows: 1, DuplicateRows: 1}, summary)

	snap := w.Snapshot()
	assert.Equal(t, "faq.csv", snap.FileName)
	require.Len(t, snap.Rows, 4)
	assert.Equal(t, DefaultCategory, snap.Rows[1].Item.Category)

	result, err := w.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateComplete, w.State())
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []RowError{{Row: 3, Message: "question is required"}}, result.Errors)

	got, ok := w.Result()
	require.True(t, ok)
	assert.Equal(t, result, got)

	require.NoError(t, w.Reset())
	assert.Equal(t, StateUpload, w.State())
	snap = w.Snapshot()
	assert.Empty(t, snap.Rows)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.FileName)
}

func TestWizard_Back(t *testing.T) {
	w := newTestWizard(newFakeStore())

	_, err := loadCSV(t, w, wizardCSV)
	require.NoError(t, err)
	require.NoError(t, w.Back())

	assert.Equal(t, StateUpload, w.State())
	assert.Empty(t, w.Snapshot().Rows)

	_, err = loadCSV(t, w, wizardCSV)
	assert.NoError(t, err, "wizard should accept a new file after Back")
}

func TestWizard_LoadFailureStaysInUpload(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		checkErr error
		want     error
	}{
		{"invalid format", "faq.pdf", wizardCSV, nil, ErrInvalidFormat},
		{"empty file", "faq.csv", "question,answer\n", nil, ErrEmptyFile},
		{"duplicate lookup failure", "faq.csv", wizardCSV, errors.New("timeout"), ErrDuplicateCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.checkErr = tt.checkErr
			w := newTestWizard(store)

			_, err := w.Load(context.Background(), tt.fileName, int64(len(tt.content)), strings.NewReader(tt.content))
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, StateUpload, w.State())
			assert.Empty(t, w.Snapshot().Rows, "no rows retained after failure")
		})
	}
}

func TestWizard_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	w := newTestWizard(newFakeStore())
	assertTransition(t, w.Back(), StateUpload)
	assertTransition(t, w.Reset(), StateUpload)
	_, err := w.Import(ctx)
	assertTransition(t, err, StateUpload)

	_, err = loadCSV(t, w, wizardCSV)
	require.NoError(t, err)
	_, err = loadCSV(t, w, wizardCSV)
	assertTransition(t, err, StatePreview)
	assertTransition(t, w.Reset(), StatePreview)

	_, err = w.Import(ctx)
	require.NoError(t, err)
	_, err = w.Import(ctx)
	assertTransition(t, err, StateComplete)
	assertTransition(t, w.Back(), StateComplete)
	_, err = loadCSV(t, w, wizardCSV)
	assertTransition(t, err, StateComplete)
}

func TestWizard_BatchFailureStillCompletes(t *testing.T) {
	store := newFakeStore()
	store.writeErr = errors.New("connection reset")
	w := newTestWizard(store)

	_, err := loadCSV(t, w, wizardCSV)
	require.NoError(t, err)

	result, err := w.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateComplete, w.State())
	assert.Equal(t, 4, result.Failed)
	assert.Zero(t, result.Success)
}

func TestWizard_ConcurrentImportRejected(t *testing.T) {
	store := newFakeStore()
	store.block = make(chan struct{})
	w := newTestWizard(store)

	_, err := loadCSV(t, w, wizardCSV)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := w.Import(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return w.State() == StateImporting }, time.Second, time.Millisecond)

	_, err = w.Import(context.Background())
	assertTransition(t, err, StateImporting)

	close(store.block)
	require.NoError(t, <-done)
	assert.Equal(t, StateComplete, w.State())
}

func assertTransition(t *testing.T, err error, state WizardState) {
	t.Helper()
	require.ErrorIs(t, err, ErrInvalidTransition)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, state, te.State)
}

func TestWizard_ReimportFlagsEverythingAsDuplicate(t *testing.T) {
	store := newFakeStore()
	w := newTestWizard(store)

	first, err := loadCSV(t, w, wizardCSV)
	require.NoError(t, err)
	require.Zero(t, first.DuplicateRows)

	result, err := w.Import(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, result.Success)
	require.NoError(t, w.Reset())

	again, err := loadCSV(t, w, wizardCSV)
	require.NoError(t, err)
	assert.Equal(t, result.Success, again.DuplicateRows)
	assert.Zero(t, again.ValidRows)
	assert.Equal(t, first.InvalidRows, again.InvalidRows)

	second, err := w.Import(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Success)
	assert.Equal(t, result.Success, second.Skipped)
	assert.Len(t, store.writes(), 1, "nothing is left to write on the second pass")
}
