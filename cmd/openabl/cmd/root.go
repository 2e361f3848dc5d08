package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "openabl",
	Short: "OpenABL agent-based-modeling compiler",
	Long: `openabl compiles an agent-based-modeling script into one of several
simulation backends:

  - c        plain C, single-threaded reference implementation
  - flame    the FLAME agent-based modeling framework
  - flamegpu FLAME GPU (CUDA), falls back to a CPU emulation when no
             FLAME GPU SDK/nvcc is present
  - mason    the MASON Java simulation toolkit
  - dmason   distributed MASON (not yet working)

Run "openabl inspect --list-backends" to see each backend's maturity.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
