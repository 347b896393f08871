package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/source"
)

func TestConsoleSinkWithoutManager(t *testing.T) {
	var buf bytes.Buffer
	sink := &diag.ConsoleSink{Out: &buf}
	sink.Report(diag.Diagnostic{Level: diag.Warning, Message: "unused binding"})

	got := buf.String()
	if !strings.Contains(got, "warning: unused binding") {
		t.Errorf("Report output = %q, want it to contain %q", got, "warning: unused binding")
	}
}

func TestConsoleSinkWithManagerPrefixesPosition(t *testing.T) {
	mgr := source.NewManager()
	file, err := mgr.LoadVirtual("a.vel", []byte("val x\nval y"))
	if err != nil {
		t.Fatalf("LoadVirtual: %v", err)
	}

	var buf bytes.Buffer
	sink := &diag.ConsoleSink{Out: &buf, Mgr: mgr}
	sink.Report(diag.Diagnostic{
		Level:   diag.Error,
		Message: "expected identifier",
		Anchor:  source.Range{File: file, Start: 6, End: 7},
	})

	got := buf.String()
	if !strings.HasPrefix(got, "a.vel:2:1: error: expected identifier") {
		t.Errorf("Report output = %q, want it to start with the file:line:col prefix", got)
	}
}

func TestBufferSinkCommitReplaysInOrder(t *testing.T) {
	buf := &diag.BufferSink{}
	buf.Report(diag.Diagnostic{Level: diag.Error, Message: "first"})
	buf.Report(diag.Diagnostic{Level: diag.Note, Message: "second"})

	var replayed []diag.Diagnostic
	recorder := recordingSink{dst: &replayed}
	buf.Commit(&recorder)

	if len(replayed) != 2 || replayed[0].Message != "first" || replayed[1].Message != "second" {
		t.Errorf("Commit replayed = %+v, want [first second] in order", replayed)
	}
}

func TestBufferSinkCommitIsEmptyAfterReplay(t *testing.T) {
	buf := &diag.BufferSink{}
	buf.Report(diag.Diagnostic{Level: diag.Error, Message: "only"})

	var first []diag.Diagnostic
	buf.Commit(&recordingSink{dst: &first})

	var second []diag.Diagnostic
	buf.Commit(&recordingSink{dst: &second})
	if len(second) != 0 {
		t.Errorf("second Commit replayed %d diagnostics, want 0 (buffer should drain on first Commit)", len(second))
	}
}

func TestBufferSinkDiscardDropsBuffered(t *testing.T) {
	buf := &diag.BufferSink{}
	buf.Report(diag.Diagnostic{Level: diag.Error, Message: "speculative"})
	buf.Discard()

	var replayed []diag.Diagnostic
	buf.Commit(&recordingSink{dst: &replayed})
	if len(replayed) != 0 {
		t.Errorf("Commit after Discard replayed %d diagnostics, want 0", len(replayed))
	}
}

type recordingSink struct{ dst *[]diag.Diagnostic }

func (r *recordingSink) Report(d diag.Diagnostic) { *r.dst = append(*r.dst, d) }
