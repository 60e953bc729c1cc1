package meta

import (
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnv replaces ${env.KEY} with the value lookup returns for KEY and
// ${env.KEY:-fallback} with fallback when KEY is unset. Expressions with an
// invalid key or no closing brace are kept literally.
func expandEnv(text string, lookup func(string) (string, bool)) string {
	var out strings.Builder
	for {
		start := strings.Index(text, envPrefix)
		if start == -1 {
			out.WriteString(text)
			return out.String()
		}
		out.WriteString(text[:start])
		rest := text[start+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end == -1 {
			out.WriteString(text[start:])
			return out.String()
		}
		key, fallback, hasFallback := strings.Cut(rest[:end], ":-")
		if !isEnvKey(key) {
			// rescan after the prefix so a nested expression still expands
			out.WriteString(envPrefix)
			text = rest
			continue
		}
		value, ok := lookup(key)
		if !ok && hasFallback {
			value = fallback
		}
		out.WriteString(value)
		text = rest[end+1:]
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
