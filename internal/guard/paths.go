package guard

import "strings"

// hasPathPrefix matches prefix on a segment boundary, so "/health" matches
// "/health" and "/health/db" but not "/healthz".
func hasPathPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

func cleanPrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// SkipList holds path prefixes that bypass tenant resolution entirely.
type SkipList struct {
	prefixes []string
}

func NewSkipList(prefixes []string) SkipList {
	cleaned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if c := cleanPrefix(p); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return SkipList{prefixes: cleaned}
}

func (s SkipList) Match(path string) bool {
	for _, p := range s.prefixes {
		if hasPathPrefix(path, p) {
			return true
		}
	}
	return false
}
