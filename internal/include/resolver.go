// Package include resolves the file contents named by a data block's
// include(path, offset, length) entries. It owns a process-lifetime
// cache of path -> full file bytes, so a path referenced by several
// entries (or several data blocks) is only read once, and validates
// the requested [offset, offset+length) window against the cached
// file's size before handing a slice back to the generator.
package include

import (
	"fmt"
	"os"
	"sync"

	"github.com/mkloubert/cobra64/internal/compilerr"
	"github.com/mkloubert/cobra64/internal/position"
)

// Resolver caches file contents for the lifetime of a single compile
// invocation. The zero value is ready to use.
type Resolver struct {
	mu    sync.Mutex
	cache map[string][]byte
}

// NewResolver returns a Resolver with an empty cache.
func NewResolver() *Resolver {
	return &Resolver{cache: map[string][]byte{}}
}

// read returns path's full contents, reading and caching them on
// first request. The file handle is open only for the duration of the
// read; nothing is kept beyond the byte slice.
func (r *Resolver) read(path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache == nil {
		r.cache = map[string][]byte{}
	}
	if b, ok := r.cache[path]; ok {
		return b, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	if _, err := readFull(f, buf); err != nil {
		return nil, err
	}
	r.cache[path] = buf
	return buf, nil
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, fmt.Errorf("short read at offset %d", total)
		}
	}
	return total, nil
}

// Slice resolves a single include(path, offset, length) entry,
// producing the bounds-checked diagnostics a data block's resolution
// pass reports as compile errors rather than crashing the compiler.
func (r *Resolver) Slice(path string, offset, length uint32, span position.Span) ([]byte, *compilerr.CompileError) {
	data, err := r.read(path)
	if err != nil {
		return nil, compilerr.New(compilerr.ErrFileNotFound,
			fmt.Sprintf("cannot read include file %q: %v", path, err), span)
	}

	size := uint32(len(data))
	if offset > size {
		return nil, compilerr.New(compilerr.ErrIncludeOffsetOutOfBounds,
			fmt.Sprintf("include offset %d exceeds file size %d for %q", offset, size, path), span)
	}
	if offset+length > size {
		return nil, compilerr.New(compilerr.ErrIncludeLengthOutOfBounds,
			fmt.Sprintf("include length %d at offset %d exceeds file size %d for %q", length, offset, size, path), span)
	}
	return data[offset : offset+length], nil
}
