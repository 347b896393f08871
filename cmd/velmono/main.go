package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sarvex/hylo/pkg/ir"
	"github.com/sarvex/hylo/pkg/mono"
	"github.com/sarvex/hylo/pkg/source"
	"github.com/sarvex/hylo/pkg/typesys"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
velmono builds a small demonstration IR module in memory (there is no file
format for serialized IR), runs the monomorphizer's Depolymorphize pass over
it, and prints the resulting module's function table. It exists purely to
exercise pkg/mono end to end from a command line, the way the teacher always
ships a thin driver binary per pipeline stage.
`, "\n", " ")

var VelMono = cli.New(Description).
	WithOption(cli.NewOption("verbose", "Also prints each function's block count").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(_ []string, options map[string]string) int {
	module := buildDemoModule()
	m := mono.New(demoWorld{}, module)
	m.Depolymorphize()

	_, verbose := options["verbose"]
	for _, fn := range module.Functions() {
		if verbose {
			fmt.Printf("%s (%d block(s))\n", fn.ID(), len(fn.Blocks()))
			continue
		}
		fmt.Println(fn.ID())
	}
	return 0
}

// buildDemoModule constructs two functions: a generic `id<T>(x: T) -> T`
// and a non-generic `main` that calls id<Int>(3). Running Depolymorphize
// over this module resolves that call to a freshly monomorphized copy of
// id, memoized under the specialization {T: Int}.
func buildDemoModule() *ir.Module {
	module := ir.NewModule()

	idID := ir.FunctionID{Kind: ir.Lowered, Decl: "id"}
	idFn := ir.NewFunction(idID, "id", source.Range{}, ir.External,
		[]typesys.Type{{Name: "T"}}, typesys.Type{Name: "T"},
		[]typesys.GenericParamID{"T"})
	idBlock := idFn.AppendBlock([]typesys.Type{{Name: "T"}})
	idBlock.Append(&ir.Return{Value: ir.BlockParamOperand{Block: idBlock.ID(), Index: 0}})
	module.Insert(idFn)

	mainID := ir.FunctionID{Kind: ir.Lowered, Decl: "main"}
	mainFn := ir.NewFunction(mainID, "main", source.Range{}, ir.External,
		nil, typesys.Type{Name: "Int"}, nil)
	mainBlock := mainFn.AppendBlock(nil)
	callID := mainBlock.Append(&ir.Call{
		Callee: ir.ConstantOperand{Value: ir.FunctionRefConstant{Target: idID}},
		Args:   []ir.Operand{ir.ConstantOperand{Value: ir.IntConstant{Value: 3}}},
		Output: typesys.Type{Name: "Int"},
		Specialization: typesys.Specialization{
			"T": {Name: "Int"},
		},
	})
	mainBlock.Append(&ir.Return{Value: ir.InstructionResultOperand{Instr: callID}})
	module.Insert(mainFn)

	return module
}

// demoWorld is the smallest possible typesys.World: specialization looks a
// generic parameter's name up directly (no nested generic structure),
// canonicalization is the identity, and conformance is never consulted by
// this demo (it has no traits).
type demoWorld struct{}

func (demoWorld) Specialize(t typesys.Type, spec typesys.Specialization, _ typesys.Scope) typesys.Type {
	if concrete, ok := spec[typesys.GenericParamID(t.Name)]; ok {
		return concrete
	}
	return t
}

func (demoWorld) Canonical(t typesys.Type, _ typesys.Scope) typesys.Type { return t }

func (demoWorld) Conformance(_ typesys.Type, _ typesys.Type, _ typesys.Scope) (typesys.Conformance, bool) {
	return typesys.Conformance{}, false
}

func main() { os.Exit(VelMono.Run(os.Args, os.Stdout)) }
