// Package syncer orchestrates the per-file pipeline: extract inline
// scripts, hash them, update the document's CSP meta policy, splice the
// result back, and optionally persist it. Files are processed strictly
// sequentially with no shared mutable state; all aggregate counters live
// in the Report value threaded through the run.
package syncer

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"

	"github.com/statichost/cspsync/internal/config"
	"github.com/statichost/cspsync/internal/csp"
	"github.com/statichost/cspsync/internal/errors"
	"github.com/statichost/cspsync/internal/htmldoc"
	"github.com/statichost/cspsync/internal/logging"
	"github.com/statichost/cspsync/internal/scanner"
)

// targetDirectives are the CSP directives whose hash tokens this tool
// maintains. The updater never invents either; an author must already
// have declared them.
var targetDirectives = map[string]bool{
	"script-src":      true,
	"script-src-elem": true,
}

// Syncer runs the sync pipeline over a root directory.
type Syncer struct {
	cfg    *config.Config
	logger logging.Logger
	out    io.Writer
}

// New creates a Syncer. out receives the human-readable per-file lines
// and the run summary.
func New(cfg *config.Config, logger logging.Logger, out io.Writer) *Syncer {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}

	return &Syncer{cfg: cfg, logger: logger.WithComponent("syncer"), out: out}
}

// Run discovers HTML files under the configured root and syncs each one.
// Per-file failures degrade to a reported skip; only an unusable root
// aborts the run.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	files, err := scanner.CollectHTMLFiles(s.cfg.Root, scanner.Options{
		Excludes:     s.cfg.Excludes,
		IncludeTools: s.cfg.IncludeTools,
	})
	if err != nil {
		return nil, errors.NewConfigError("SCAN_FAILED", "cannot scan root: "+err.Error())
	}

	report := &Report{WriteMode: s.cfg.Write && !s.cfg.Check}

	if len(files) == 0 {
		s.logger.Warn(ctx, nil, "no .html files found", "root", s.cfg.Root)
		return report, nil
	}

	for _, path := range files {
		result := s.SyncFile(ctx, path)
		report.Add(result)

		if s.cfg.Format == config.FormatText {
			s.printResult(result)
		}
	}

	return report, nil
}

// SyncFile runs the pipeline for a single document.
func (s *Syncer) SyncFile(ctx context.Context, path string) FileResult {
	original, err := readFileTolerant(path)
	if err != nil {
		s.logger.Warn(ctx, err, "cannot read file", "path", path)
		return FileResult{Path: path, Outcome: OutcomeError, Err: errors.NewIOError("READ_FAILED", "cannot read file", err).WithFile(path)}
	}

	rewritten, result := s.processDocument(path, original)
	if result.Outcome != OutcomeUpdated {
		return result
	}

	if s.cfg.Write && !s.cfg.Check {
		// Whole-file write; a document is either rewritten in full or
		// not touched at all.
		if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
			s.logger.Error(ctx, err, "cannot write file", "path", path)
			return FileResult{Path: path, Outcome: OutcomeError, Err: errors.NewIOError("WRITE_FAILED", "cannot write file", err).WithFile(path)}
		}
	}

	s.logger.Debug(ctx, "updated script hashes", "path", path, "hashes", result.Hashes)

	return result
}

// processDocument is the pure text transformation: original document in,
// rewritten document plus outcome out. It performs no I/O, which keeps
// the pipeline testable in isolation per file.
func (s *Syncer) processDocument(path, original string) (string, FileResult) {
	scripts := s.selectScripts(htmldoc.ExtractInlineScripts(original))
	if len(scripts) == 0 {
		return original, FileResult{Path: path, Outcome: OutcomeNoScripts}
	}

	digests := hashScripts(scripts)

	meta, ok := htmldoc.FindCSPMeta(original)
	if !ok {
		return original, FileResult{Path: path, Outcome: OutcomeNoCSP}
	}

	directives := csp.ParsePolicy(meta.Content)

	found := false
	for _, d := range directives {
		if targetDirectives[d.Name] {
			found = true
			break
		}
	}
	if !found {
		return original, FileResult{Path: path, Outcome: OutcomeNoDirective}
	}

	updated, changed := csp.UpdateHashes(directives, digests, s.cfg.Prune, targetDirectives)

	if !changed {
		return original, FileResult{Path: path, Outcome: OutcomeClean, Hashes: len(digests)}
	}

	newTag := htmldoc.ReplaceContent(meta.Tag, csp.RenderPolicy(updated))

	return htmldoc.Splice(original, meta, newTag), FileResult{Path: path, Outcome: OutcomeUpdated, Hashes: len(digests)}
}

// selectScripts applies the configured selection: JSON-LD only, and
// whether whitespace-only bodies participate in hashing.
func (s *Syncer) selectScripts(scripts []htmldoc.InlineScript) []htmldoc.InlineScript {
	var selected []htmldoc.InlineScript
	for _, sc := range scripts {
		if s.cfg.JSONLDOnly && !sc.IsJSONLD {
			continue
		}
		if !s.cfg.IncludeEmpty && isBlank(sc.Body) {
			continue
		}
		selected = append(selected, sc)
	}

	return selected
}

// hashScripts hashes each body and deduplicates the digests while
// preserving first-seen order, so identical script blocks yield exactly
// one policy token.
func hashScripts(scripts []htmldoc.InlineScript) []string {
	seen := make(map[string]bool, len(scripts))
	digests := make([]string, 0, len(scripts))

	for _, sc := range scripts {
		d := csp.HashBody(sc.Body)
		if seen[d] {
			continue
		}
		seen[d] = true
		digests = append(digests, d)
	}

	return digests
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' && r != '\f' && r != '\v' {
			return false
		}
	}

	return true
}

// readFileTolerant reads a file as UTF-8, substituting invalid byte
// sequences instead of failing, so one badly-encoded file never blocks
// the batch.
func readFileTolerant(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		// The UTF-8 decoder substitutes rather than errors; treat any
		// residual failure as unreadable content.
		return "", fmt.Errorf("decode %s: %w", path, err)
	}

	return string(decoded), nil
}
