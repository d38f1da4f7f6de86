package core

// wizard.go implements the import wizard state machine:
//
//	upload --Load--> preview --Import--> importing --> complete
//	   ^               |                                  |
//	   +-----Back------+                                  |
//	   +---------------------Reset------------------------+
//
// Load chains parse, validate and duplicate check; any failure leaves the
// wizard in upload with nothing retained. Import always ends in complete,
// since the ImportResult carries success or failure detail. Operations on
// one wizard never overlap: a second call made while one is in flight gets
// ErrInvalidTransition.

import (
	"context"
	"io"
	"sync"
)

// WizardState is a step of the import wizard.
type WizardState string

const (
	StateUpload    WizardState = "upload"
	StatePreview   WizardState = "preview"
	StateImporting WizardState = "importing"
	StateComplete  WizardState = "complete"
)

// WizardConfig holds per-wizard pipeline settings.
type WizardConfig struct {
	Parse           ParseOptions
	DefaultCategory string
}

// Wizard drives one tenant's import through its states.
type Wizard struct {
	tenantID  string
	store     Store
	parseOpts ParseOptions
	validator *RowValidator

	mu       sync.Mutex
	state    WizardState
	loading  bool
	fileName string
	rows     []ParsedRow
	result   *ImportResult
}

// WizardSnapshot is a consistent copy of a wizard's state.
type WizardSnapshot struct {
	State    WizardState    `json:"state"`
	FileName string         `json:"fileName,omitempty"`
	Summary  PreviewSummary `json:"summary"`
	Rows     []ParsedRow    `json:"rows,omitempty"`
	Result   *ImportResult  `json:"result,omitempty"`
}

// NewWizard creates a wizard in the upload state.
func NewWizard(tenantID string, store Store, cfg WizardConfig) *Wizard {
	return &Wizard{
		tenantID:  tenantID,
		store:     store,
		parseOpts: cfg.Parse,
		validator: NewRowValidator(cfg.DefaultCategory),
		state:     StateUpload,
	}
}

// TenantID returns the tenant the wizard imports into.
func (w *Wizard) TenantID() string { return w.tenantID }

// State returns the current state.
func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Load parses, validates and duplicate-checks a file, moving upload → preview.
func (w *Wizard) Load(ctx context.Context, fileName string, size int64, r io.Reader) (PreviewSummary, error) {
	w.mu.Lock()
	if w.state != StateUpload || w.loading {
		state := w.state
		w.mu.Unlock()
		return PreviewSummary{}, &TransitionError{Op: "load file", State: state}
	}
	w.loading = true
	w.mu.Unlock()

	rows, err := w.prepare(ctx, fileName, size, r)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	if err != nil {
		return PreviewSummary{}, err
	}

	w.fileName = fileName
	w.rows = rows
	w.state = StatePreview
	return Summarize(rows), nil
}

func (w *Wizard) prepare(ctx context.Context, fileName string, size int64, r io.Reader) ([]ParsedRow, error) {
	raws, err := ParseFile(fileName, size, r, w.parseOpts)
	if err != nil {
		return nil, err
	}

	rows := w.validator.ValidateRows(raws)

	if _, err := MarkDuplicates(ctx, w.store, w.tenantID, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Back discards the parsed rows, moving preview → upload.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePreview {
		return &TransitionError{Op: "go back", State: w.state}
	}
	w.clear()
	return nil
}

// Import writes the previewed rows, moving preview → importing → complete.
// The wizard reaches complete whatever the outcome of the write.
func (w *Wizard) Import(ctx context.Context) (ImportResult, error) {
	w.mu.Lock()
	if w.state != StatePreview {
		state := w.state
		w.mu.Unlock()
		return ImportResult{}, &TransitionError{Op: "import", State: state}
	}
	w.state = StateImporting
	rows := w.rows
	w.mu.Unlock()

	result := ExecuteImport(ctx, w.store, w.tenantID, rows)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.result = &result
	w.state = StateComplete
	return result, nil
}

// Reset clears all transient state, moving complete → upload.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateComplete {
		return &TransitionError{Op: "reset", State: w.state}
	}
	w.clear()
	return nil
}

// Result returns the import result once the wizard is complete.
func (w *Wizard) Result() (ImportResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		return ImportResult{}, false
	}
	return *w.result, true
}

// Snapshot returns a copy of the wizard's current state.
func (w *Wizard) Snapshot() WizardSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := WizardSnapshot{
		State:    w.state,
		FileName: w.fileName,
		Summary:  Summarize(w.rows),
	}
	if len(w.rows) > 0 {
		snap.Rows = make([]ParsedRow, len(w.rows))
		copy(snap.Rows, w.rows)
	}
	if w.result != nil {
		r := *w.result
		snap.Result = &r
	}
	return snap
}

// clear must be called with mu held.
func (w *Wizard) clear() {
	w.state = StateUpload
	w.fileName = ""
	w.rows = nil
	w.result = nil
}
