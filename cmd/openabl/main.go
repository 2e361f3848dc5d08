// Command openabl is the OpenABL compiler: it lexes, parses, and analyzes
// an agent-based-modeling script and lowers it onto one of the registered
// backends (plain C, FLAME, FLAME GPU, Mason, DMason).
package main

import (
	"fmt"
	"os"

	"github.com/openabl/openabl-go/cmd/openabl/cmd"

	_ "github.com/openabl/openabl-go/internal/backend/cbackend"
	_ "github.com/openabl/openabl-go/internal/backend/flame"
	_ "github.com/openabl/openabl-go/internal/backend/flamegpu"
	_ "github.com/openabl/openabl-go/internal/backend/mason"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
