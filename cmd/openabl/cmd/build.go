package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/openabl/openabl-go/internal/backend"
	"github.com/openabl/openabl-go/internal/config"
	"github.com/openabl/openabl-go/internal/project"
	"github.com/spf13/cobra"
)

var (
	outputDir    string
	backendName  string
	assetDir     string
	paramFlags   []string
	configFile   string
	runBuildStep bool
	lintOnly     bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile a script into a backend's output tree",
	Long: `build lexes, parses, and analyzes an OpenABL script, then lowers it onto
the requested backend and writes the generated project into --output-dir.

Examples:
  # Generate a plain C project
  openabl build -i model.abl -o out -b c

  # Generate a FLAME project and build it immediately
  openabl build -i model.abl -o out -b flame -B

  # Override a config key the backend consults
  openabl build -i model.abl -o out -b flame -P pedestrian.count=500`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	registerInputFlag(buildCmd)

	buildCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (required)")
	buildCmd.Flags().StringVarP(&backendName, "backend", "b", "c", "target backend (c, flame, flamegpu, mason, dmason)")
	buildCmd.Flags().StringVarP(&assetDir, "asset-dir", "A", "./asset", "directory runtime assets are copied from")
	buildCmd.Flags().StringArrayVarP(&paramFlags, "param", "P", nil, "config override key=value (repeatable)")
	buildCmd.Flags().StringVar(&configFile, "config", "", "optional YAML config defaults file")
	buildCmd.Flags().BoolVarP(&runBuildStep, "build", "B", false, "run the backend's build.sh after emission")
	buildCmd.Flags().BoolVar(&lintOnly, "lint-only", false, "run analysis only, do not generate code")
	_ = buildCmd.MarkFlagRequired("output-dir")
}

func runBuild(_ *cobra.Command, _ []string) error {
	script, source, analysisErrs, err := frontend(inputFile)
	if err != nil {
		return err
	}
	if len(analysisErrs) > 0 {
		printAnalysisErrors(analysisErrs, source, inputFile)
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(analysisErrs))
	}
	if lintOnly {
		fmt.Println("OK: no errors")
		return nil
	}

	reg, err := backend.Lookup(backendName)
	if err != nil {
		return err
	}
	if reg.Maturity == backend.MaturityNotWorking {
		fmt.Fprintf(os.Stderr, "warning: backend %q is marked %s\n", backendName, reg.Maturity)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := &backend.BackendContext{OutputDir: outputDir, AssetDir: assetDir, Config: cfg}
	out, err := reg.Backend.Generate(script, ctx)
	if err != nil {
		return fmt.Errorf("backend %q: %w", backendName, err)
	}
	if err := project.Emit(out, ctx); err != nil {
		return err
	}

	fmt.Printf("Generated %s project in %s\n", backendName, outputDir)

	if runBuildStep {
		return runBuildScript(outputDir)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.New()
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
		if err := cfg.LoadYAML(data); err != nil {
			return nil, err
		}
	}
	for _, p := range paramFlags {
		if err := cfg.SetParam(p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runBuildScript runs the emitted build.sh in outputDir.
func runBuildScript(outputDir string) error {
	scriptPath := "./build.sh"
	c := exec.Command("sh", scriptPath)
	c.Dir = outputDir
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("build.sh failed: %w", err)
	}
	return nil
}
