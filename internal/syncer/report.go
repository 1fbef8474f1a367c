package syncer

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/statichost/cspsync/internal/config"
)

// Outcome is the terminal state of one file's pipeline.
type Outcome string

const (
	// OutcomeNoScripts means the document had no hashable inline
	// scripts; nothing to reconcile.
	OutcomeNoScripts Outcome = "no-scripts"
	// OutcomeClean means the policy already matched the scripts.
	OutcomeClean Outcome = "clean"
	// OutcomeUpdated means the policy was rewritten (or would be, in
	// dry-run and check modes).
	OutcomeUpdated Outcome = "updated"
	// OutcomeNoCSP means inline scripts exist but no CSP meta does.
	OutcomeNoCSP Outcome = "no-csp"
	// OutcomeNoDirective means a CSP exists but declares neither
	// script-src nor script-src-elem.
	OutcomeNoDirective Outcome = "no-directive"
	// OutcomeError means the file could not be read or written.
	OutcomeError Outcome = "error"
)

// FileResult records one file's outcome.
type FileResult struct {
	Path    string  `json:"path" yaml:"path"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Hashes  int     `json:"hashes,omitempty" yaml:"hashes,omitempty"`
	Err     error   `json:"-" yaml:"-"`
}

// Report aggregates a run. Counters are plain values, never package
// globals, so the pipeline stays testable per file.
type Report struct {
	Scanned     int          `json:"scanned" yaml:"scanned"`
	Updated     int          `json:"updated" yaml:"updated"`
	Clean       int          `json:"clean" yaml:"clean"`
	NoCSP       int          `json:"no_csp" yaml:"no_csp"`
	NoDirective int          `json:"no_directive" yaml:"no_directive"`
	Errors      int          `json:"errors" yaml:"errors"`
	WriteMode   bool         `json:"write_mode" yaml:"write_mode"`
	Files       []FileResult `json:"files,omitempty" yaml:"files,omitempty"`
}

// Add folds one file's result into the report. Results that need
// operator attention are also retained individually.
func (r *Report) Add(result FileResult) {
	r.Scanned++

	switch result.Outcome {
	case OutcomeUpdated:
		r.Updated++
		r.Files = append(r.Files, result)
	case OutcomeClean, OutcomeNoScripts:
		r.Clean++
	case OutcomeNoCSP:
		r.NoCSP++
		r.Files = append(r.Files, result)
	case OutcomeNoDirective:
		r.NoDirective++
		r.Files = append(r.Files, result)
	case OutcomeError:
		r.Errors++
		r.Files = append(r.Files, result)
	}
}

// Dirty reports whether at least one file's policy differs from what it
// should be; --check fails the run on it.
func (r *Report) Dirty() bool {
	return r.Updated > 0
}

// printResult emits the per-file line for notable outcomes in text mode.
// Wording is human-facing only and is not a compatibility surface.
func (s *Syncer) printResult(result FileResult) {
	switch result.Outcome {
	case OutcomeUpdated:
		fmt.Fprintf(s.out, "[ok] %s: updated script hashes (%d inline block(s))\n", result.Path, result.Hashes)
	case OutcomeNoCSP:
		fmt.Fprintf(s.out, "[warn] %s: has inline <script> but no CSP meta (http-equiv). Skipping.\n", result.Path)
	case OutcomeNoDirective:
		fmt.Fprintf(s.out, "[warn] %s: CSP meta has no script-src or script-src-elem. Skipping.\n", result.Path)
	case OutcomeError:
		fmt.Fprintf(s.out, "[warn] %s: %v. Skipping.\n", result.Path, result.Err)
	}
}

// Render writes the run summary in the configured format.
func (s *Syncer) Render(report *Report) error {
	switch s.cfg.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case config.FormatYAML:
		enc := yaml.NewEncoder(s.out)
		defer enc.Close()
		return enc.Encode(report)
	default:
		return s.renderText(report)
	}
}

func (s *Syncer) renderText(report *Report) error {
	switch {
	case report.Updated == 0:
		fmt.Fprintln(s.out, "[done] no changes needed.")
	case report.WriteMode:
		fmt.Fprintf(s.out, "[done] wrote changes to %d file(s).\n", report.Updated)
	case s.cfg.Check:
		fmt.Fprintf(s.out, "[done] check: %d file(s) would change.\n", report.Updated)
	default:
		fmt.Fprintf(s.out, "[done] dry-run: %d file(s) would change. Re-run with --write.\n", report.Updated)
	}

	if report.NoCSP > 0 {
		fmt.Fprintf(s.out, "[note] %d file(s) had inline <script> but no CSP meta. Add CSP or handle separately.\n", report.NoCSP)
	}
	if report.NoDirective > 0 {
		fmt.Fprintf(s.out, "[note] %d file(s) had a CSP without script-src/script-src-elem.\n", report.NoDirective)
	}
	if report.Errors > 0 {
		fmt.Fprintf(s.out, "[note] %d file(s) could not be processed.\n", report.Errors)
	}

	return nil
}
