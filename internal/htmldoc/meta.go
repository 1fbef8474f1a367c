package htmldoc

import (
	"regexp"
	"strings"
)

var (
	metaTagRe = regexp.MustCompile(`(?is)<meta\b[^>]*>`)
	// RE2 has no backreferences, so both quote styles are spelled out.
	cspEquivRe    = regexp.MustCompile(`(?i)http-equiv\s*=\s*(?:"content-security-policy"|'content-security-policy')`)
	contentAttrRe = regexp.MustCompile(`(?is)\bcontent\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// MetaTag is the first CSP-bearing meta element of a document: the byte
// span it occupies, its full literal tag text, and the current value of
// its content attribute.
type MetaTag struct {
	Start   int
	End     int
	Tag     string
	Content string
}

// FindCSPMeta scans meta elements in document order and returns the
// first one that declares http-equiv="Content-Security-Policy" (either
// quote style, any case) and carries a content attribute. Any further
// CSP metas are ignored; a document declaring more than one is already
// broken and only the first is ever maintained.
func FindCSPMeta(html string) (MetaTag, bool) {
	for _, loc := range metaTagRe.FindAllStringIndex(html, -1) {
		tag := html[loc[0]:loc[1]]

		if !cspEquivRe.MatchString(tag) {
			continue
		}

		m := contentAttrRe.FindStringSubmatch(tag)
		if m == nil {
			continue
		}

		content := m[1]
		if content == "" && m[2] != "" {
			content = m[2]
		}

		return MetaTag{
			Start:   loc[0],
			End:     loc[1],
			Tag:     tag,
			Content: content,
		}, true
	}

	return MetaTag{}, false
}

// ReplaceContent rewrites only the content attribute's value inside tag.
// The value is always re-quoted with double quotes, escaping any literal
// double quote as &quot;: CSP tokens routinely contain single quotes
// ('self', 'sha256-...'), so double quoting avoids attribute-delimiter
// collisions regardless of the original quote style.
func ReplaceContent(tag, newContent string) string {
	escaped := strings.ReplaceAll(newContent, `"`, "&quot;")

	replaced := false
	return contentAttrRe.ReplaceAllStringFunc(tag, func(match string) string {
		if replaced {
			return match
		}
		replaced = true

		return `content="` + escaped + `"`
	})
}

// Splice substitutes the meta tag's byte span with newTag. Every other
// byte of the document - scripts, comments, formatting - is preserved
// exactly.
func Splice(html string, meta MetaTag, newTag string) string {
	return html[:meta.Start] + newTag + html[meta.End:]
}
