package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Directive
	}{
		{
			name:  "single directive",
			input: "script-src 'self'",
			expected: []Directive{
				{Name: "script-src", Values: []string{"'self'"}},
			},
		},
		{
			name:  "multiple directives",
			input: "default-src 'none'; script-src 'self' 'sha256-abc='; img-src 'self' data:",
			expected: []Directive{
				{Name: "default-src", Values: []string{"'none'"}},
				{Name: "script-src", Values: []string{"'self'", "'sha256-abc='"}},
				{Name: "img-src", Values: []string{"'self'", "data:"}},
			},
		},
		{
			name:  "valueless directive preserved",
			input: "upgrade-insecure-requests; script-src 'self'",
			expected: []Directive{
				{Name: "upgrade-insecure-requests", Values: []string{}},
				{Name: "script-src", Values: []string{"'self'"}},
			},
		},
		{
			name:  "directive name lowercased",
			input: "Script-SRC 'self'",
			expected: []Directive{
				{Name: "script-src", Values: []string{"'self'"}},
			},
		},
		{
			name:  "multi-line content collapses to single spaces",
			input: "default-src 'self';\n    script-src 'self'\n      'sha256-abc=';\r\n  style-src 'self'",
			expected: []Directive{
				{Name: "default-src", Values: []string{"'self'"}},
				{Name: "script-src", Values: []string{"'self'", "'sha256-abc='"}},
				{Name: "style-src", Values: []string{"'self'"}},
			},
		},
		{
			name:  "empty segments dropped",
			input: "script-src 'self';; ;",
			expected: []Directive{
				{Name: "script-src", Values: []string{"'self'"}},
			},
		},
		{
			name:  "duplicate directive names kept in order",
			input: "script-src 'self'; script-src 'unsafe-inline'",
			expected: []Directive{
				{Name: "script-src", Values: []string{"'self'"}},
				{Name: "script-src", Values: []string{"'unsafe-inline'"}},
			},
		},
		{
			name:     "empty policy",
			input:    "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePolicy(tt.input)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Name, got[i].Name)
				assert.Equal(t, tt.expected[i].Values, got[i].Values)
			}
		})
	}
}

func TestRenderPolicy(t *testing.T) {
	directives := []Directive{
		{Name: "default-src", Values: []string{"'none'"}},
		{Name: "upgrade-insecure-requests", Values: nil},
		{Name: "script-src", Values: []string{"'self'", "'sha256-abc='"}},
	}

	assert.Equal(t,
		"default-src 'none'; upgrade-insecure-requests; script-src 'self' 'sha256-abc='",
		RenderPolicy(directives))
}

func TestRenderPolicyEmpty(t *testing.T) {
	assert.Equal(t, "", RenderPolicy(nil))
}

func TestParseRenderRoundTrip(t *testing.T) {
	// Already-normalized policies must survive a parse/render cycle
	// byte for byte.
	policies := []string{
		"script-src 'self'",
		"default-src 'none'; script-src 'self' 'sha256-abc=' 'sha384-def='; upgrade-insecure-requests",
		"script-src 'self'; script-src 'unsafe-inline'",
		"img-src 'self' data: blob:; connect-src 'self' wss://example.org",
	}

	for _, p := range policies {
		assert.Equal(t, p, RenderPolicy(ParsePolicy(p)))
	}
}
