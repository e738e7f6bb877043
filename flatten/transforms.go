package flatten

import "regexp"

var (
	onceDirectiveRe = regexp.MustCompile(`(?m)^[ \t]*#pragma[ \t]+once\b`)
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe   = regexp.MustCompile(`//[^\r\n]*`)
)

// StripOnceDirective removes every "#pragma once" that starts a line, allowing
// leading whitespace, and reports whether at least one was removed.
func StripOnceDirective(text string) (string, bool) {
	stripped := onceDirectiveRe.ReplaceAllLiteralString(text, "")
	return stripped, len(stripped) != len(text)
}

// StripBlockComments removes all /* ... */ spans, including ones spanning lines.
func StripBlockComments(text string) string {
	return blockCommentRe.ReplaceAllLiteralString(text, "")
}

// StripLineComments removes everything from // to the end of each line. The
// line terminator, \r\n included, is kept.
func StripLineComments(text string) string {
	return lineCommentRe.ReplaceAllLiteralString(text, "")
}

// StripComments removes block comments first and line comments second, so a //
// inside a block comment and a /* inside a line comment are both harmless.
func StripComments(text string) string {
	return StripLineComments(StripBlockComments(text))
}
