package source_test

import (
	"testing"

	"github.com/sarvex/hylo/pkg/source"
)

func TestPosition(t *testing.T) {
	test := func(mgr *source.Manager, file source.FileID, byteIdx, wantLine, wantCol int) {
		line, col := mgr.Position(file, byteIdx)
		if line != wantLine || col != wantCol {
			t.Errorf("Position(%d): got (%d,%d), want (%d,%d)", byteIdx, line, col, wantLine, wantCol)
		}
	}

	mgr := source.NewManager()
	file, err := mgr.LoadVirtual("test", []byte("abc\ndef\n\nghi"))
	if err != nil {
		t.Fatalf("LoadVirtual: %v", err)
	}

	test(mgr, file, 0, 1, 1)   // 'a'
	test(mgr, file, 2, 1, 3)   // 'c'
	test(mgr, file, 4, 2, 1)   // 'd'
	test(mgr, file, 7, 2, 4)   // '\n' at end of "def"
	test(mgr, file, 8, 3, 1)   // empty line
	test(mgr, file, 9, 4, 1)   // 'g'
	test(mgr, file, 11, 4, 3)  // 'i'
}

func TestLineText(t *testing.T) {
	mgr := source.NewManager()
	file, err := mgr.LoadVirtual("test", []byte("abc\r\ndef\nghi"))
	if err != nil {
		t.Fatalf("LoadVirtual: %v", err)
	}

	test := func(byteIdx int, want string) {
		got := mgr.LineText(file, byteIdx)
		if got != want {
			t.Errorf("LineText(%d) = %q, want %q", byteIdx, got, want)
		}
	}

	test(0, "abc") // CRLF line, trailing \r stripped
	test(5, "def")
	test(10, "ghi") // last line, no trailing newline at all
}

func TestRangeJoin(t *testing.T) {
	a := source.Range{File: 1, Start: 2, End: 5}
	b := source.Range{File: 1, Start: 4, End: 9}
	joined := a.Join(b)
	if joined.Start != 2 || joined.End != 9 {
		t.Errorf("Join = %+v, want {Start:2 End:9}", joined)
	}

	var disjointButLeft = source.Range{File: 1, Start: 0, End: 1}
	joined = a.Join(disjointButLeft)
	if joined.Start != 0 || joined.End != 5 {
		t.Errorf("Join = %+v, want {Start:0 End:5}", joined)
	}
}

func TestLoadVirtualRejectsInvalidUTF8(t *testing.T) {
	mgr := source.NewManager()
	if _, err := mgr.LoadVirtual("bad", []byte{0xff, 0xfe}); err == nil {
		t.Fatal("expected an error for invalid UTF-8 content")
	}
}

func TestLoadMissingFile(t *testing.T) {
	mgr := source.NewManager()
	if _, err := mgr.Load("/nonexistent/path/does/not/exist.vel"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
