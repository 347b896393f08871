package mono

import "github.com/sarvex/hylo/pkg/ir"

// Existentialize is meant to wrap an externally visible generic function in
// a non-generic entry point that dispatches to a monomorphized copy chosen
// at runtime from a type witness, the way a dynamic-dispatch boundary would.
// Building that wrapper needs a calling convention for passing runtime type
// witnesses across module boundaries, which is out of this package's scope
// (spec.md §9 names it as a stub: "Existentialize — converts a generic
// function into an existentialized one; returns input unchanged for now").
// This keeps that contract: fn is returned unmodified.
func (m *Monomorphizer) Existentialize(fn *ir.Function) *ir.Function {
	return fn
}
