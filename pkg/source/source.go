// Package source owns immutable source buffers and maps byte offsets to
// human-readable (line, column) positions.
//
// A Manager is the single owner of every source file (on-disk or
// synthesized) that takes part in a compilation. Everything downstream —
// the lexer, the parser, diagnostics — addresses source text through a
// FileID plus a byte offset rather than holding buffers of their own.
package source

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"
)

// ErrFileNotFound is returned by Load when the path cannot be opened.
var ErrFileNotFound = errors.New("source: file not found")

// ErrDecoding is returned by Load/LoadVirtual when the content is not valid UTF-8.
var ErrDecoding = errors.New("source: invalid utf-8 content")

// FileID identifies one loaded source file within a Manager. Zero value is invalid.
type FileID int

// Position is a (file, byte offset) pair.
type Position struct {
	File FileID
	Byte int
}

// Range is a half-open [Start, End) byte span within a single file.
// Ranges never cross file boundaries.
type Range struct {
	File       FileID
	Start, End int
}

// IsEmpty reports whether the range covers zero bytes.
func (r Range) IsEmpty() bool { return r.Start >= r.End }

// Join returns the smallest range spanning both r and other. Both must
// belong to the same file.
func (r Range) Join(other Range) Range {
	if r.File != other.File {
		panic("source: cannot join ranges from different files")
	}
	joined := r
	if other.Start < joined.Start {
		joined.Start = other.Start
	}
	if other.End > joined.End {
		joined.End = other.End
	}
	return joined
}

type file struct {
	path       string // on-disk path, or a synthesized virtual URL
	text       []byte
	lineStarts []int // byte offset of the first byte of each line
}

// Manager owns every source buffer participating in one compilation.
type Manager struct {
	files []*file
}

// NewManager returns an empty, ready-to-use Manager.
func NewManager() *Manager { return &Manager{} }

// Load reads the file at path and registers it, returning its FileID.
func (m *Manager) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrFileNotFound, path, err)
	}
	return m.register(path, content)
}

// LoadVirtual registers in-memory text under a unique, caller-chosen URL
// (e.g. "repl:1" or "stdin"), useful for REPLs and tests.
func (m *Manager) LoadVirtual(url string, text []byte) (FileID, error) {
	return m.register(url, text)
}

func (m *Manager) register(path string, text []byte) (FileID, error) {
	if !utf8.Valid(text) {
		return 0, fmt.Errorf("%w: %s", ErrDecoding, path)
	}

	f := &file{path: path, text: text, lineStarts: computeLineStarts(text)}
	m.files = append(m.files, f)
	return FileID(len(m.files)), nil // 1-indexed so the zero value stays invalid
}

func computeLineStarts(text []byte) []int {
	starts := []int{0}
	for i, b := range text {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (m *Manager) mustFile(id FileID) *file {
	if id <= 0 || int(id) > len(m.files) {
		panic(fmt.Sprintf("source: invalid FileID %d", id))
	}
	return m.files[id-1]
}

// Path returns the path or virtual URL a file was registered under.
func (m *Manager) Path(id FileID) string { return m.mustFile(id).path }

// Text returns the full buffer for a file. Callers must not mutate it.
func (m *Manager) Text(id FileID) []byte { return m.mustFile(id).text }

// Slice returns the bytes covered by a range.
func (m *Manager) Slice(r Range) []byte {
	return m.mustFile(r.File).text[r.Start:r.End]
}

// Position converts a byte offset into a 1-based (line, column) pair using
// binary search over the precomputed line-start table.
func (m *Manager) Position(id FileID, byteIdx int) (line, col int) {
	f := m.mustFile(id)
	// sort.Search finds the first line start strictly greater than byteIdx;
	// the line containing byteIdx is the one immediately before it.
	idx := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > byteIdx })
	line = idx // 0 lines strictly before idx means idx-1 is the containing line, 1-based below
	col = byteIdx - f.lineStarts[idx-1] + 1
	return line, col
}

// LineText returns the full text of the line containing byteIdx, without
// the trailing newline.
func (m *Manager) LineText(id FileID, byteIdx int) string {
	f := m.mustFile(id)
	idx := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > byteIdx })
	start := f.lineStarts[idx-1]
	end := len(f.text)
	if idx < len(f.lineStarts) {
		end = f.lineStarts[idx] - 1
	}
	if end > 0 && f.text[end-1] == '\r' {
		end--
	}
	return string(f.text[start:end])
}
