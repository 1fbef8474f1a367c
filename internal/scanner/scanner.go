// Package scanner discovers the HTML documents a sync run operates on.
//
// The scanner walks a root directory recursively for *.html files,
// excluding conventional non-content directories (version-control
// metadata, dependency and build output trees) by name match anywhere in
// the path. Results come back sorted so runs are deterministic across
// filesystems.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExcludes are directory names skipped anywhere in a scanned
// path. They hold generated or third-party content whose CSP, if any, is
// not this tool's to maintain.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	"dist",
	"build",
	".next",
	".venv",
	"venv",
	"__pycache__",
	"vendor",
}

// ToolsDir is the conventional tooling subdirectory under the root. It
// is excluded by default since tool fixtures are not published pages;
// --include-tools lifts the exclusion.
const ToolsDir = "tools"

// Options controls a discovery pass.
type Options struct {
	// Excludes are directory names to skip; nil means DefaultExcludes.
	Excludes []string
	// IncludeTools scans the tools/ subdirectory too.
	IncludeTools bool
}

// CollectHTMLFiles walks root for *.html files, honoring opts, and
// returns the matches sorted lexically.
func CollectHTMLFiles(root string, opts Options) ([]string, error) {
	excludes := opts.Excludes
	if excludes == nil {
		excludes = DefaultExcludes
	}

	excluded := make(map[string]bool, len(excludes)+1)
	for _, name := range excludes {
		excluded[name] = true
	}
	if !opts.IncludeTools {
		excluded[ToolsDir] = true
	}

	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && excluded[d.Name()] {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.EqualFold(filepath.Ext(path), ".html") {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return files, nil
}
