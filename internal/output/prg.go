// Package output writes an assembled program to the two container
// formats the CLI accepts for OUTFILE: a bare PRG (a C64 "tape/disk
// program" file, just a load address followed by bytes) or a full D64
// disk image with that PRG stored as its single directory entry.
//
// Cobra64's generator already produces the full PRG byte layout (load
// address + BASIC stub + code + data pool + string pool) in one slice, so WritePRG
// is a thin disk-write wrapper; the container framing itself mirrors
// the load-address-prefixed format read by prgfile.Reader, just
// writing instead of parsing it.
package output

import (
	"fmt"
	"os"
)

// WritePRG writes image, a byte slice already laid out as a complete
// PRG (2-byte little-endian load address followed by the program
// bytes), to path.
func WritePRG(path string, image []byte) error {
	if len(image) < 2 {
		return fmt.Errorf("prg image too small: %d bytes", len(image))
	}
	if err := os.WriteFile(path, image, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
