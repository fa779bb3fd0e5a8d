package include

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/position"
)

func writeTempFile(t *testing.T, contents []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprite.bin")
	if err := os.WriteFile(path, contents, 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestResolverSliceWithinBounds(t *testing.T) {
	path := writeTempFile(t, []byte{0, 1, 2, 3, 4, 5, 6, 7})
	r := NewResolver()

	got, cerr := r.Slice(path, 2, 3, position.Span{})
	if cerr != nil {
		t.Fatalf("Slice: %v", cerr)
	}
	want := []byte{2, 3, 4}
	if string(got) != string(want) {
		t.Fatalf("Slice = %v, want %v", got, want)
	}
}

func TestResolverCachesAcrossCalls(t *testing.T) {
	path := writeTempFile(t, []byte{9, 9, 9})
	r := NewResolver()

	if _, cerr := r.Slice(path, 0, 1, position.Span{}); cerr != nil {
		t.Fatalf("first Slice: %v", cerr)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("removing fixture: %v", err)
	}
	// The second read must come from the cache, not the now-missing file.
	if _, cerr := r.Slice(path, 1, 2, position.Span{}); cerr != nil {
		t.Fatalf("cached Slice: %v", cerr)
	}
}

func TestResolverOffsetOutOfBounds(t *testing.T) {
	path := writeTempFile(t, []byte{1, 2, 3})
	r := NewResolver()

	_, cerr := r.Slice(path, 10, 1, position.Span{})
	if cerr == nil || cerr.Code != compilerr.ErrIncludeOffsetOutOfBounds {
		t.Fatalf("expected ErrIncludeOffsetOutOfBounds, got %v", cerr)
	}
}

func TestResolverLengthOutOfBounds(t *testing.T) {
	path := writeTempFile(t, []byte{1, 2, 3})
	r := NewResolver()

	_, cerr := r.Slice(path, 1, 10, position.Span{})
	if cerr == nil || cerr.Code != compilerr.ErrIncludeLengthOutOfBounds {
		t.Fatalf("expected ErrIncludeLengthOutOfBounds, got %v", cerr)
	}
}

func TestResolverFileNotFound(t *testing.T) {
	r := NewResolver()
	_, cerr := r.Slice(filepath.Join(t.TempDir(), "missing.bin"), 0, 1, position.Span{})
	if cerr == nil || cerr.Code != compilerr.ErrFileNotFound {
		t.Fatalf("expected ErrFileNotFound, got %v", cerr)
	}
}
