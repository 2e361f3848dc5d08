package cmd

import (
	"fmt"

	"github.com/openabl/openabl-go/internal/backend"
	"github.com/openabl/openabl-go/internal/inspect"
	"github.com/spf13/cobra"
)

var (
	inspectQuery         string
	inspectSetPath       string
	inspectSetValue      string
	inspectListBackends  bool
	inspectSkipFlameModel bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the analyzed script (and derived FlameModel) as JSON",
	Long: `inspect is a debugging aid: it parses and analyzes a
script, then prints its resolved agents, functions, constants, environment,
and simulate block as JSON. For scripts with at least one agent it also
includes the FlameModel derived for the FLAME/FLAME-GPU backends.

--query PATH evaluates a gjson path against the dump instead of printing
the whole document. --set PATH=VALUE patches one field via sjson and
prints the result, purely for diffing; it never feeds back into
compilation.`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inputFile, "input", "i", "", "input script file (required unless --list-backends)")
	inspectCmd.Flags().StringVar(&inspectQuery, "query", "", "gjson path to extract from the dump")
	inspectCmd.Flags().StringVar(&inspectSetPath, "set", "", "sjson PATH=VALUE patch to apply and print")
	inspectCmd.Flags().BoolVar(&inspectListBackends, "list-backends", false, "list registered backends and their maturity, then exit")
	inspectCmd.Flags().BoolVar(&inspectSkipFlameModel, "no-flame-model", false, "omit the derived FlameModel from the dump")
	inspectCmd.MarkFlagsMutuallyExclusive("query", "set")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	if inspectListBackends {
		for _, reg := range backend.List() {
			fmt.Printf("%-10s %s\n", reg.Name, reg.Maturity)
		}
		return nil
	}

	if inputFile == "" {
		return fmt.Errorf("--input is required unless --list-backends is given")
	}

	script, source, analysisErrs, err := frontend(inputFile)
	if err != nil {
		return err
	}
	if len(analysisErrs) > 0 {
		printAnalysisErrors(analysisErrs, source, inputFile)
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(analysisErrs))
	}

	dump, err := inspect.BuildScriptDump(script, !inspectSkipFlameModel)
	if err != nil {
		return err
	}
	doc, err := inspect.ToJSON(dump)
	if err != nil {
		return err
	}

	if inspectQuery != "" {
		result, err := inspect.Query(doc, inspectQuery)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	}

	if inspectSetPath != "" {
		path, value, err := splitSetFlag(inspectSetPath)
		if err != nil {
			return err
		}
		patched, err := inspect.Patch(doc, path, value)
		if err != nil {
			return err
		}
		fmt.Println(string(patched))
		return nil
	}

	fmt.Println(string(doc))
	return nil
}

// splitSetFlag splits a "PATH=VALUE" --set argument.
func splitSetFlag(s string) (path, value string, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("--set expects PATH=VALUE, got %q", s)
}
