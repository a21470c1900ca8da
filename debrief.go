// Package debrief turns a batch of filled-in shift reports (.docx forms)
// into summary documents, grouped by category and ordered by date and
// shift.
//
// Basic usage:
//
//	v, _ := variant.Lookup("weekly")
//	report, warnings, err := debrief.New(v).Run(ctx, inputs...)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", debrief.FormatWarnings(warnings))
//	}
//	paths, err := debrief.Save("out", report.Outputs)
//
// With options:
//
//	report, _, err := debrief.New(v).
//	    Week(27, 2025).
//	    Workers(4).
//	    Logger(logger).
//	    Run(ctx, inputs...)
//
// The lower-level packages (docx, extract, aggregate, render) can be used
// on their own.
package debrief

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsawler/debrief/format"
	"github.com/tsawler/debrief/model"
	"github.com/tsawler/debrief/period"
)

// Input is one uploaded shift report.
type Input struct {
	Name string
	Data []byte
}

// Output is one generated summary document.
type Output struct {
	// Name is the file name, with week and year substituted.
	Name string
	// Tag identifies the layout that produced the output.
	Tag    string
	Blocks []model.Block
	// Data holds the .docx bytes.
	Data []byte
}

// Report is the result of a pipeline run.
type Report struct {
	RunID        string
	Variant      string
	Period       period.Period
	Documents    int // documents that were parsed
	Observations []model.Observation
	Outputs      []Output
}

// WriteError reports a failure to produce or store an output document.
// It is distinct from extraction problems, which are warnings.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ReadFiles loads the named files as inputs.
func ReadFiles(paths ...string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		inputs = append(inputs, Input{Name: filepath.Base(p), Data: data})
	}
	return inputs, nil
}

// ReadDir loads every .docx file directly inside dir, sorted by name. Word
// lock files are skipped.
func ReadDir(dir string) ([]Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || format.IsLockFile(name) || format.Detect(name) != format.DOCX {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return ReadFiles(paths...)
}

// WeekDir returns the conventional input folder of a week, "<root>/Week<N>".
func WeekDir(root string, week int) string {
	return filepath.Join(root, fmt.Sprintf("Week%d", week))
}

// Save writes outputs into dir, creating it if needed, and returns the
// written paths. Any failure is a *WriteError.
func Save(dir string, outputs []Output) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Name: dir, Err: err}
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		name := filepath.Base(out.Name)
		if name == "" || name == "." || strings.ContainsAny(name, `/\`) {
			return paths, &WriteError{Name: out.Name, Err: errors.New("invalid file name")}
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, out.Data, 0o644); err != nil {
			return paths, &WriteError{Name: path, Err: err}
		}
		paths = append(paths, path)
	}
	return paths, nil
}
