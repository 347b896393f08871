package typesys_test

import (
	"testing"

	"github.com/sarvex/hylo/pkg/typesys"
)

func TestSpecializationKeyEmpty(t *testing.T) {
	var s typesys.Specialization
	if got, want := s.Key(), "<>"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestSpecializationKeyIsOrderIndependent(t *testing.T) {
	a := typesys.Specialization{"T": {Name: "Int"}, "U": {Name: "Bool"}}
	b := typesys.Specialization{"U": {Name: "Bool"}, "T": {Name: "Int"}}

	if a.Key() != b.Key() {
		t.Errorf("Key() differs across insertion order: %q vs %q", a.Key(), b.Key())
	}
	if got, want := a.Key(), "<T=Int,U=Bool>"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestSpecializationKeyDistinguishesDifferentArguments(t *testing.T) {
	a := typesys.Specialization{"T": {Name: "Int"}}
	b := typesys.Specialization{"T": {Name: "Bool"}}
	if a.Key() == b.Key() {
		t.Errorf("distinct specializations produced the same key %q", a.Key())
	}
}

func TestTypeStringIsName(t *testing.T) {
	ty := typesys.Type{Name: "Int"}
	if got := ty.String(); got != "Int" {
		t.Errorf("String() = %q, want %q", got, "Int")
	}
}
