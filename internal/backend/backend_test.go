package backend

import (
	"testing"

	"github.com/openabl/openabl-go/internal/analysis"
	"github.com/openabl/openabl-go/internal/ast"
)

type stubBackend struct{}

func (stubBackend) Generate(*ast.Script, *BackendContext) (*Output, error) {
	return &Output{}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	Register("stub-test", stubBackend{}, MaturityWorking)

	reg, err := Lookup("stub-test")
	if err != nil {
		t.Fatalf("unexpected Lookup error: %v", err)
	}
	if reg.Maturity != MaturityWorking {
		t.Errorf("expected MaturityWorking, got %v", reg.Maturity)
	}
}

func TestLookupUnknownBackend(t *testing.T) {
	if _, err := Lookup("does-not-exist"); err == nil {
		t.Fatalf("expected an error looking up an unregistered backend")
	}
}

func TestRequireClean(t *testing.T) {
	if err := RequireClean(nil); err != nil {
		t.Errorf("expected no error for an empty diagnostics slice, got %v", err)
	}
	if err := RequireClean([]*analysis.Error{{Message: "boom"}}); err != ErrAnalysisFailed {
		t.Errorf("expected ErrAnalysisFailed, got %v", err)
	}
}
