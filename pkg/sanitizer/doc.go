// Package sanitizer normalizes user-supplied text before validation and
// persistence. Documents are untyped bags on the wire; everything user
// written passes through here exactly once, in the service layer.
package sanitizer
