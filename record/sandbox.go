package record

import (
	"path/filepath"
	"strings"
)

// Sandbox restricts filesystem reads to a fixed set of permitted root
// directories. Every path derived from client input must pass Allowed before
// it is opened; the check is re-run per request because the filesystem (and
// any symlinks inside it) can change between requests.
type Sandbox struct {
	roots []string
}

// NewSandbox creates a sandbox over the given root directories. Roots are
// stored as-is and canonicalized at check time; a root that cannot be
// resolved simply contributes no matches.
func NewSandbox(roots ...string) *Sandbox {
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		cleaned = append(cleaned, filepath.Clean(r))
	}
	return &Sandbox{roots: cleaned}
}

// Allowed reports whether candidate resolves to a location inside one of the
// permitted roots. Symlinks are followed on both sides before comparing, so a
// `..` segment or a symlink pointing outside the roots is rejected the same
// way. Any resolution failure (missing file, broken link, permission error)
// fails closed.
func (s *Sandbox) Allowed(candidate string) bool {
	if s == nil || len(s.roots) == 0 {
		return false
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return false
	}
	for _, root := range s.roots {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rootResolved, err := filepath.EvalSymlinks(rootAbs)
		if err != nil {
			continue
		}
		if containsPath(rootResolved, resolved) {
			return true
		}
	}
	return false
}

// containsPath tests segment-wise containment, not string-prefix containment,
// so /data/allowed never claims /data/allowed-other.
func containsPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
