package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWritePRGRoundTrip(t *testing.T) {
	image := []byte{0x01, 0x08, 0xA9, 0x00, 0x60}
	path := filepath.Join(t.TempDir(), "out.prg")

	if err := WritePRG(path, image); err != nil {
		t.Fatalf("WritePRG: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(got) != string(image) {
		t.Fatalf("round trip mismatch: got %v, want %v", got, image)
	}
}

func TestWritePRGRejectsTinyImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.prg")
	if err := WritePRG(path, []byte{0x01}); err == nil {
		t.Fatal("expected error for an image shorter than the load address")
	}
}
