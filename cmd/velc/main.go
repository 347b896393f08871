package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarvex/hylo/pkg/ast"
	"github.com/sarvex/hylo/pkg/diag"
	"github.com/sarvex/hylo/pkg/parse"
	"github.com/sarvex/hylo/pkg/source"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
velc parses one or more source files (recursing into directories, matching
*.vel) and reports any diagnostic raised while lexing or parsing them. It
performs no type-checking, lowering or code generation: this is the
front-end driver only.
`, "\n", " ")

var VelCompiler = cli.New(Description).
	WithArg(cli.NewArg("inputs", "The source (.vel) files or directories to parse").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("dump-ast", "Prints a shallow declaration-kind summary of each parsed file").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	var TUs []string
	for _, input := range args {
		filepath.Walk(input, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(path) != ".vel" {
				return nil
			}
			TUs = append(TUs, path)
			return nil
		})
	}

	mgr := source.NewManager()
	sink := &diag.ConsoleSink{Out: os.Stdout, Mgr: mgr}
	_, dumpAST := options["dump-ast"]

	failed := false
	for _, tu := range TUs {
		file, err := mgr.Load(tu)
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			failed = true
			continue
		}

		unit, err := parse.Parse(mgr, file, sink)
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'parsing' pass for %s: %s\n", tu, err)
			failed = true
			continue
		}
		if unit.HasError {
			failed = true
		}

		if dumpAST {
			fmt.Printf("%s: %d top-level declarations\n", tu, len(unit.Decls))
			for _, decl := range unit.Decls {
				fmt.Printf("  %s\n", describeDecl(decl))
			}
		}
	}

	if failed {
		return -1
	}
	return 0
}

// describeDecl renders a one-line summary of a top-level declaration for
// --dump-ast; it is intentionally shallow (kind + name only), not a full
// AST printer.
func describeDecl(decl ast.Decl) string {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return fmt.Sprintf("fun %s", d.Name)
	case *ast.ProductTypeDecl:
		return fmt.Sprintf("type %s", d.Name)
	case *ast.ViewTypeDecl:
		return fmt.Sprintf("view %s", d.Name)
	case *ast.AbstractTypeDecl:
		return fmt.Sprintf("type %s (abstract)", d.Name)
	case *ast.AliasTypeDecl:
		return fmt.Sprintf("type %s = ...", d.Name)
	case *ast.ExtensionDecl:
		return "extn ..."
	case *ast.PatternBindingDecl:
		return "val/var ..."
	default:
		return fmt.Sprintf("%T", decl)
	}
}

func main() { os.Exit(VelCompiler.Run(os.Args, os.Stdout)) }
