// Package backend defines the target-independent contract every OpenABL
// code generator implements, plus the registry the CLI driver uses to look
// one up by name.
package backend

import (
	"fmt"

	"github.com/openabl/openabl-go/internal/analysis"
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/config"
)

// Maturity documents how far along a backend is, surfaced by `openabl
// inspect --list-backends` and by the warning `openabl build` prints for a
// backend marked not working.
type Maturity string

const (
	MaturityWorking       Maturity = "working"
	MaturityMostlyWorking Maturity = "mostly working"
	MaturityNotWorking    Maturity = "not working"
)

// OutputFile is one generated or copied file, relative to BackendContext's
// OutputDir. Backends return an ordered slice (never a map) so re-emission
// of the same script is byte-identical run over run.
type OutputFile struct {
	RelPath    string
	Content    []byte
	Executable bool // chmod +x after write, e.g. build.sh/run.sh
}

// AssetCopy names one runtime asset file the project emitter must copy
// from BackendContext.AssetDir into the output tree; the
// backend never reads asset bytes itself, since assets are an emitter
// concern.
type AssetCopy struct {
	SrcRelPath string // relative to BackendContext.AssetDir
	DstRelPath string // relative to BackendContext.OutputDir
	Executable bool
}

// Output is everything a backend produced: the generated files, the
// runtime assets that must be copied alongside them, and the list of
// directories (relative to OutputDir) that must exist even if empty, such
// as the `iterations/` snapshot placeholder.
type Output struct {
	Files  []OutputFile
	Assets []AssetCopy
	Dirs   []string
}

// BackendContext carries the run's output location, the asset directory to
// copy runtime files from, and the layered config each backend consults
// for its tunables.
type BackendContext struct {
	OutputDir string
	AssetDir  string
	Config    *config.Config
}

// Backend is implemented by each of the five code generators. Generate
// receives the fully analyzed script (Analyze must have returned no
// errors) and must not mutate it.
type Backend interface {
	Generate(script *ast.Script, ctx *BackendContext) (*Output, error)
}

// Registration pairs a Backend with its display metadata for the registry.
type Registration struct {
	Name     string
	Backend  Backend
	Maturity Maturity
}

var registry = map[string]Registration{}

// Register adds a backend under name, overwriting any prior registration.
// Each backend subpackage calls this from its own init().
func Register(name string, b Backend, maturity Maturity) {
	registry[name] = Registration{Name: name, Backend: b, Maturity: maturity}
}

// Lookup returns the registered backend for name.
func Lookup(name string) (Registration, error) {
	r, ok := registry[name]
	if !ok {
		return Registration{}, fmt.Errorf("backend: unknown backend %q", name)
	}
	return r, nil
}

// List returns every registered backend, for `--list-backends`.
func List() []Registration {
	out := make([]Registration, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	return out
}

// ErrAnalysisFailed is the error RequireClean returns when
// analysis.Analyze produced diagnostics, a "refuse codegen" guard for
// callers of Backend.Generate.
var ErrAnalysisFailed = fmt.Errorf("backend: refusing code generation, analysis reported errors")

// RequireClean returns ErrAnalysisFailed if errs is non-empty.
func RequireClean(errs []*analysis.Error) error {
	if len(errs) > 0 {
		return ErrAnalysisFailed
	}
	return nil
}
