package flatten

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultGuardPrefix starts every synthesized guard macro.
	DefaultGuardPrefix = "FLAT_INCLUDE_GUARD_"
	// DefaultMaxGuardLength bounds the path-derived part of a guard name.
	// Shader compilers reject overly long macro names.
	DefaultMaxGuardLength = 128
)

var nonIdentifierRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// GuardName derives the include guard macro for path. The readable part is
// truncated to maxLen; the hash is always taken over the full path.
func GuardName(path, prefix string, maxLen int) string {
	safe := nonIdentifierRe.ReplaceAllLiteralString(path, "_")
	if maxLen > 0 && len(safe) > maxLen {
		safe = safe[:maxLen]
	}
	safe = strings.Trim(safe, "_")

	hash := fmt.Sprintf("%016x", xxhash.Sum64String(path))
	if safe == "" {
		return prefix + hash
	}
	return prefix + safe + "_" + hash
}

// WrapGuard wraps content in an #ifndef/#define/#endif triad named name.
func WrapGuard(name, content string) string {
	var sb strings.Builder
	sb.Grow(len(content) + 3*len(name) + 32)

	sb.WriteString("#ifndef ")
	sb.WriteString(name)
	sb.WriteByte('\n')
	sb.WriteString("#define ")
	sb.WriteString(name)
	sb.WriteByte('\n')
	sb.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("#endif // ")
	sb.WriteString(name)
	sb.WriteByte('\n')

	return sb.String()
}
