// Package htmldoc locates inline script blocks and CSP meta tags in raw
// HTML text using bounded pattern matching. It is deliberately not a DOM
// parser: matched regions are captured and spliced byte for byte, which
// keeps every unrelated byte of a document untouched and keeps script
// bodies exact for hashing. Malformed or unterminated tags simply fail
// to match and are skipped.
package htmldoc

import "regexp"

var (
	scriptTagRe = regexp.MustCompile(`(?is)<script\b([^>]*)>(.*?)</script>`)
	srcAttrRe   = regexp.MustCompile(`(?i)\bsrc\s*=`)
	typeAttrRe  = regexp.MustCompile(`(?is)\btype\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// JSONLDType is the MIME type of structured-data script blocks, which
// browsers never execute but which still need hash coverage under
// script-src-elem.
const JSONLDType = "application/ld+json"

// InlineScript is one inline <script> element. Body is the exact literal
// text between the opening and closing tags, whitespace and newlines
// included; CSP hashes are computed over these exact bytes.
type InlineScript struct {
	Body     string
	IsJSONLD bool
}

// ExtractInlineScripts returns every inline script element in document
// order. Elements carrying a src attribute are external and excluded;
// content hashes do not apply to them. Empty and whitespace-only bodies
// are returned too - filtering those is the caller's policy decision,
// not the extractor's.
//
// Self-closing <script/> tags have no body and never match. An
// unterminated script tag swallows the rest of the document in browsers
// anyway; here it produces no match and is silently omitted.
func ExtractInlineScripts(html string) []InlineScript {
	var scripts []InlineScript

	for _, m := range scriptTagRe.FindAllStringSubmatch(html, -1) {
		attrs, body := m[1], m[2]

		if srcAttrRe.MatchString(attrs) {
			continue
		}

		scripts = append(scripts, InlineScript{
			Body:     body,
			IsJSONLD: scriptType(attrs) == JSONLDType,
		})
	}

	return scripts
}

// scriptType returns the value of the type attribute, or "" when absent.
func scriptType(attrs string) string {
	m := typeAttrRe.FindStringSubmatch(attrs)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}

	return m[2]
}
