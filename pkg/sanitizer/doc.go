// Package sanitizer normalizes caller-supplied strings before they are
// validated or persisted. Strategies compose into pipelines; each
// strategy is a pure string transform.
package sanitizer
