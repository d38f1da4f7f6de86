// Package core provides the business logic for bulk knowledge-base imports.
//
// The package holds the import pipeline independent of any transport. It is
// used by the HTTP layer, by the CLI and by tests without modification. The
// backing store is reached only through the [DuplicateChecker] and
// [BulkWriter] interfaces.
//
// # Pipeline
//
// An import runs in four stages:
//
//  1. [ParseFile] turns a .csv, .xlsx or .xlsm upload into [RawRow] values
//     keyed by template column. Extension and size are checked before the
//     file is read.
//  2. [RowValidator] trims every cell, defaults the category and records
//     one message per missing required field.
//  3. [MarkDuplicates] asks the store which questions already exist for the
//     tenant and flags those rows. Questions are compared with
//     [NormalizeQuestion].
//  4. [ExecuteImport] writes every valid, non-duplicate row in one
//     [BulkWriter.BulkAddItems] call and returns an [ImportResult] in which
//     every parsed row is counted exactly once.
//
// # Wizard
//
// [Wizard] sequences the stages for one tenant:
//
//	upload -> preview -> importing -> complete
//
// with Back (preview -> upload) and Reset (complete -> upload). Calls made
// in the wrong state fail with [ErrInvalidTransition]. [Service] keeps one
// wizard per import session, bounds concurrent work with an [ImportLimiter]
// and drops idle sessions.
//
// # Error Handling
//
// File problems are returned as [*FileError] values whose kind is one of
// [ErrInvalidFormat], [ErrFileTooLarge], [ErrEmptyFile] or [ErrParse].
// [MapError] turns any error into a coded [UserMessage]:
//
//   - FILE001-FILE005: file errors (size, format, parse, missing, empty)
//   - DUP001: duplicate lookup failed
//   - IMP001-IMP007: import and session errors
//   - DB001-DB004: database errors
package core
