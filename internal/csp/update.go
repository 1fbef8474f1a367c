package csp

import "strings"

// hashPrefixes covers every hash-source algorithm CSP defines. Stale
// tokens of any algorithm are pruned even though only sha256 tokens are
// ever generated.
var hashPrefixes = []string{"sha256-", "sha384-", "sha512-"}

// IsHashToken reports whether a directive value is a hash-source token,
// after stripping one layer of surrounding single quotes.
func IsHashToken(token string) bool {
	t := strings.TrimSpace(token)
	if len(t) >= 2 && t[0] == '\'' && t[len(t)-1] == '\'' {
		t = t[1 : len(t)-1]
	}

	for _, p := range hashPrefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}

	return false
}

// UpdateHashes reconciles the hash tokens of every directive named in
// targets against digests, the base64 hashes of the scripts currently in
// the document, in first-seen order. When prune is true, stale hash
// tokens are removed; otherwise existing tokens are kept and missing
// wanted tokens are appended. Directives outside targets pass through
// untouched, as does everything when no targeted directive exists at
// all: the updater never invents a directive the author did not declare.
//
// changed compares each directive's final value list against its
// original one, so pruning and re-appending the same tokens reports no
// change and a second run over already-synced input is a no-op.
func UpdateHashes(directives []Directive, digests []string, prune bool, targets map[string]bool) ([]Directive, bool) {
	wanted := make([]string, 0, len(digests))
	for _, d := range digests {
		wanted = append(wanted, HashToken(d))
	}

	found := false
	for _, d := range directives {
		if targets[d.Name] {
			found = true
			break
		}
	}
	if !found {
		return directives, false
	}

	changed := false
	out := make([]Directive, 0, len(directives))

	for _, d := range directives {
		if !targets[d.Name] {
			out = append(out, d)
			continue
		}

		kept := make([]string, 0, len(d.Values)+len(wanted))
		for _, v := range d.Values {
			if prune && IsHashToken(v) {
				continue
			}
			kept = append(kept, v)
		}

		present := make(map[string]bool, len(kept))
		for _, v := range kept {
			present[v] = true
		}

		for _, token := range wanted {
			if present[token] {
				continue
			}
			kept = append(kept, token)
			present[token] = true
		}

		if !equalValues(d.Values, kept) {
			changed = true
		}

		out = append(out, Directive{Name: d.Name, Values: kept})
	}

	return out, changed
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
