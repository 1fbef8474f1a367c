package csp

import "strings"

// Directive is one semicolon-separated clause of a policy: a lowercased
// name and its value tokens in original left-to-right order. Directives
// with no values (upgrade-insecure-requests) carry an empty slice.
//
// A policy may contain the same directive name more than once when the
// author already wrote it that way; the model keeps every occurrence and
// processes each independently in source order rather than collapsing
// them into a name-keyed lookup.
type Directive struct {
	Name   string
	Values []string
}

// ParsePolicy splits policy text into ordered directives. All whitespace
// runs (including newlines from multi-line meta content) collapse to
// single spaces before splitting on ';'. Empty segments, such as those
// produced by a trailing semicolon, are dropped.
func ParsePolicy(text string) []Directive {
	normalized := strings.Join(strings.Fields(text), " ")

	var directives []Directive
	for _, segment := range strings.Split(normalized, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		tokens := strings.Fields(segment)
		directives = append(directives, Directive{
			Name:   strings.ToLower(tokens[0]),
			Values: tokens[1:],
		})
	}

	return directives
}

// RenderPolicy joins directives back into single-line policy text. The
// output is byte-identical to the input whenever the input was already
// whitespace-normalized, since parsing preserves directive and token
// order.
func RenderPolicy(directives []Directive) string {
	rendered := make([]string, 0, len(directives))
	for _, d := range directives {
		if len(d.Values) == 0 {
			rendered = append(rendered, d.Name)
			continue
		}
		rendered = append(rendered, d.Name+" "+strings.Join(d.Values, " "))
	}

	return strings.Join(rendered, "; ")
}
