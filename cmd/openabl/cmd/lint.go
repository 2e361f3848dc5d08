package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lintParamFlags []string

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Parse and analyze a script without generating code",
	Long: `lint runs the parser and semantic analyzer over a script and reports
every diagnostic found, without lowering onto any backend. It is
equivalent to "openabl build --lint-only".`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
	registerInputFlag(lintCmd)
	lintCmd.Flags().StringArrayVarP(&lintParamFlags, "param", "P", nil, "config override key=value (repeatable, unused by lint itself but accepted for symmetry with build)")
}

func runLint(_ *cobra.Command, _ []string) error {
	_, source, analysisErrs, err := frontend(inputFile)
	if err != nil {
		return err
	}
	if len(analysisErrs) > 0 {
		printAnalysisErrors(analysisErrs, source, inputFile)
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(analysisErrs))
	}
	fmt.Println("OK: no errors")
	return nil
}
