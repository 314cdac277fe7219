package record

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSandboxAllowsContainedFile(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "game_records")
	inside := filepath.Join(root, "g1.json")
	writeFile(t, inside, "{}")

	sb := NewSandbox(root)
	if !sb.Allowed(inside) {
		t.Fatal("file inside root should be allowed")
	}
	if !sb.Allowed(root) {
		t.Fatal("the root itself should be allowed")
	}
}

func TestSandboxRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "allowed")
	writeFile(t, filepath.Join(root, "keep.json"), "{}")
	writeFile(t, filepath.Join(base, "secret"), "top secret")

	sb := NewSandbox(root)
	if sb.Allowed(filepath.Join(root, "..", "secret")) {
		t.Fatal("R/../secret must be rejected even though the sibling exists")
	}
}

func TestSandboxRejectsSymlinkEscape(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "allowed")
	outside := filepath.Join(base, "outside.json")
	writeFile(t, outside, "{}")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "escape.json")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	sb := NewSandbox(root)
	if sb.Allowed(link) {
		t.Fatal("symlink pointing outside the roots must be rejected")
	}
}

func TestSandboxRejectsPrefixCollision(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "allowed")
	evil := filepath.Join(base, "allowed-other", "file.json")
	writeFile(t, filepath.Join(root, "ok.json"), "{}")
	writeFile(t, evil, "{}")

	sb := NewSandbox(root)
	if sb.Allowed(evil) {
		t.Fatal("/allowed-other must not match root /allowed by string prefix")
	}
}

func TestSandboxFailsClosed(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "allowed")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}

	sb := NewSandbox(root)
	if sb.Allowed(filepath.Join(root, "does-not-exist.json")) {
		t.Fatal("nonexistent candidate must be rejected")
	}

	// A root that cannot be resolved contributes no matches rather than
	// erroring.
	ghost := NewSandbox(filepath.Join(base, "missing-root"))
	target := filepath.Join(base, "some.json")
	writeFile(t, target, "{}")
	if ghost.Allowed(target) {
		t.Fatal("unresolvable root must fail closed")
	}

	if NewSandbox().Allowed(target) {
		t.Fatal("empty sandbox must reject everything")
	}
}
