// Package csp models Content-Security-Policy text as an ordered list of
// directives and implements the script hash synchronization logic: a
// SHA-256 content hash engine, a whitespace-normalizing policy
// parser/renderer, and an updater that reconciles a policy's hash tokens
// against the hashes of the scripts currently in a document.
package csp

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashBody computes the CSP content hash for an inline script body:
// SHA-256 over the UTF-8 bytes, base64 with standard alphabet and
// padding. The body is hashed exactly as captured; browsers hash the
// script element's text node byte for byte, so no trimming or newline
// normalization may happen here.
func HashBody(body string) string {
	digest := sha256.Sum256([]byte(body))
	return base64.StdEncoding.EncodeToString(digest[:])
}

// HashToken renders a base64 digest as a quoted script-src source token.
func HashToken(digest string) string {
	return "'sha256-" + digest + "'"
}
