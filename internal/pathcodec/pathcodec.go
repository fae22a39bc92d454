// Package pathcodec encodes the two characters that the legacy HTML Help
// contents and project formats cannot carry safely.
//
// Generated page names are stored on disk in encoded form; the display
// titles shown in the table of contents are decoded back.
package pathcodec

import "strings"

// Sentinel tokens substituted for the unsafe characters.
const (
	SharpToken   = "[_SHARP_]"
	PercentToken = "[_PERCENT_]"
)

var (
	encoder = strings.NewReplacer("#", SharpToken, "%", PercentToken)
	decoder = strings.NewReplacer(SharpToken, "#", PercentToken, "%")
)

// Encode replaces every '#' and '%' in path with its sentinel token.
func Encode(path string) string {
	return encoder.Replace(path)
}

// Decode reverses Encode.
func Decode(path string) string {
	return decoder.Replace(path)
}

// NeedsEncoding reports whether path contains a character Encode would replace.
func NeedsEncoding(path string) bool {
	return strings.ContainsAny(path, "#%")
}
