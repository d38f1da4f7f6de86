package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/kbimport/internal/config"
	"github.com/JonMunkholm/kbimport/internal/core"
	"github.com/JonMunkholm/kbimport/internal/store"
)

var (
	checkTenant string
	checkJSON   bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate an import file without importing it",
	Long: `Parse and validate an import file and print the preview summary. The
IMPORT_MAX_FILE_SIZE and IMPORT_DEFAULT_CATEGORY settings apply as they do
on the server.

With --tenant the questions are also checked against the tenant's existing
items, which needs DATABASE_URL.

Examples:
  kbimport check faq.csv
  kbimport check faq.xlsx --tenant acme --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := checkFile(cmd, args[0])
		if err != nil {
			return err
		}

		report := checkReport{Summary: core.Summarize(rows)}
		for _, row := range rows {
			if !row.IsValid {
				report.Errors = append(report.Errors, core.RowError{
					Row:     row.RowIndex,
					Message: strings.Join(row.Errors, "; "),
				})
			}
		}

		if checkJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(cmd.OutOrStdout(), filepath.Base(args[0]), report)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkTenant, "tenant", "", "also check for questions the tenant already has")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(checkCmd)
}

type checkReport struct {
	Summary core.PreviewSummary `json:"summary"`
	Errors  []core.RowError     `json:"errors,omitempty"`
}

func checkFile(cmd *cobra.Command, path string) ([]core.ParsedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	importCfg, err := config.LoadImport()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	raws, err := core.ParseFile(filepath.Base(path), info.Size(), f, core.ParseOptions{MaxFileSize: importCfg.MaxFileSize})
	if err != nil {
		return nil, errors.New(core.FormatUserError(err))
	}
	rows := core.NewRowValidator(importCfg.DefaultCategory).ValidateRows(raws)

	if checkTenant == "" {
		return rows, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := core.ValidateTenantID(checkTenant); err != nil {
		return nil, err
	}

	pool, err := store.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	if _, err := core.MarkDuplicates(cmd.Context(), store.NewKnowledgeStore(pool), checkTenant, rows); err != nil {
		return nil, errors.New(core.FormatUserError(err))
	}
	return rows, nil
}

func printReport(w io.Writer, name string, r checkReport) {
	s := r.Summary
	fmt.Fprintf(w, "%s: %d rows\n", name, s.TotalRows)
	fmt.Fprintf(w, "  ready to import: %d\n", s.ValidRows)
	fmt.Fprintf(w, "  invalid:         %d\n", s.InvalidRows)
	fmt.Fprintf(w, "  already exist:   %d\n", s.DuplicateRows)

	for _, rep := range s.RepeatedInFile {
		fmt.Fprintf(w, "  warning: %q appears on rows %v\n", rep.Question, rep.Rows)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  row %d: %s\n", e.Row, e.Message)
	}
}
