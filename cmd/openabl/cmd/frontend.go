package cmd

import (
	"fmt"
	"os"

	"github.com/openabl/openabl-go/internal/analysis"
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/errors"
	"github.com/openabl/openabl-go/internal/parser"
	"github.com/spf13/cobra"
)

// inputFile backs the -i/--input flag shared by build, lint, and inspect.
var inputFile string

func registerInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "input script file (required)")
	_ = cmd.MarkFlagRequired("input")
}

// frontend runs the lex/parse/analyze pipeline shared by build, lint, and
// inspect: read the input file, parse it into a Script, then run semantic
// analysis. A parse error aborts immediately; analysis errors are returned
// alongside the (possibly still useful, e.g. for inspect) script rather
// than aborting, so the caller decides whether to refuse codegen.
func frontend(inputFile string) (script *ast.Script, source string, analysisErrs []*analysis.Error, err error) {
	content, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, "", nil, fmt.Errorf("reading %s: %w", inputFile, err)
	}
	source = string(content)

	script, perr := parser.ParseScript(source, inputFile)
	if perr != nil {
		pe, ok := perr.(*parser.ParseError)
		if !ok {
			return nil, source, nil, perr
		}
		ce := errors.NewCompilerError(pe.Loc, pe.Msg, source, inputFile)
		fmt.Fprint(os.Stderr, errors.FormatErrors([]*errors.CompilerError{ce}, false))
		fmt.Fprintln(os.Stderr)
		return nil, source, nil, fmt.Errorf("parsing failed")
	}

	analysisErrs = analysis.Analyze(script)
	return script, source, analysisErrs, nil
}

// printAnalysisErrors renders analysis diagnostics the way frontend renders
// a parse error, one CompilerError per analysis.Error.
func printAnalysisErrors(errs []*analysis.Error, source, file string) {
	compilerErrs := make([]*errors.CompilerError, 0, len(errs))
	for _, e := range errs {
		compilerErrs = append(compilerErrs, errors.NewCompilerError(e.Loc.Begin, e.Message, source, file))
	}
	fmt.Fprint(os.Stderr, errors.FormatErrors(compilerErrs, false))
	fmt.Fprintln(os.Stderr)
}
