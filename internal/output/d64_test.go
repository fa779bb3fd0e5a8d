package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteD64ProducesFullSizeImage(t *testing.T) {
	image := make([]byte, 512)
	image[0], image[1] = 0x01, 0x08 // load address
	path := filepath.Join(t.TempDir(), "out.d64")

	if err := WriteD64(path, image, "COBRA64", "GAME"); err != nil {
		t.Fatalf("WriteD64: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}

	wantSize := 0
	for track := 1; track <= d64Tracks; track++ {
		wantSize += sectorsPerTrack(track) * d64SectorSize
	}
	if len(got) != wantSize {
		t.Fatalf("image size = %d, want %d", len(got), wantSize)
	}
	if wantSize != 174848 {
		t.Fatalf("sector layout produced %d bytes, want the standard 174848", wantSize)
	}
}

func TestWriteD64DirectoryEntry(t *testing.T) {
	image := make([]byte, 512)
	image[0], image[1] = 0x01, 0x08
	path := filepath.Join(t.TempDir(), "out.d64")

	if err := WriteD64(path, image, "COBRA64", "GAME"); err != nil {
		t.Fatalf("WriteD64: %v", err)
	}
	disk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}

	dirOff := sectorOffset(dirTrack, dirFirstSect)
	entry := disk[dirOff : dirOff+dirEntrySize]
	if entry[2] != fileTypePRG {
		t.Fatalf("entry file type = %#x, want %#x", entry[2], fileTypePRG)
	}
	firstTrack, firstSector := int(entry[3]), int(entry[4])
	if firstTrack == 0 || firstTrack == dirTrack {
		t.Fatalf("file's first track = %d, want a data track other than the directory track", firstTrack)
	}

	name := entry[5:21]
	if string(name[:4]) != "GAME" {
		t.Fatalf("filename = %q, want to start with GAME", name)
	}
	for _, b := range name[4:] {
		if b != 0xA0 {
			t.Fatalf("filename padding byte = %#x, want $A0", b)
		}
	}

	bamOff := sectorOffset(bamTrack, bamSector)
	bam := disk[bamOff : bamOff+d64SectorSize]
	if bam[0x02] != 0x41 {
		t.Fatalf("BAM DOS version = %#x, want $41", bam[0x02])
	}
	if string(bam[0x90:0x97]) != "COBRA64" {
		t.Fatalf("disk name = %q, want COBRA64", bam[0x90:0x97])
	}

	_ = firstSector
}
