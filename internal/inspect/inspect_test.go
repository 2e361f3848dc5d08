package inspect

import (
	"strings"
	"testing"

	"github.com/openabl/openabl-go/internal/analysis"
	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/parser"
)

const boidScript = `
environment {
  min: [0, 0],
  max: [100, 100],
  granularity: 10
}

agent Boid {
  position vec2 pos;
  vec2 vel;
}

step move(Boid self in, Boid next out) {
  next.pos = self.pos + self.vel;
}

simulate 10 {
  move
}
`

func analyzedBoidScript(t *testing.T) *ast.Script {
	t.Helper()
	script, err := parser.ParseScript(boidScript, "boid.abl")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if errs := analysis.Analyze(script); len(errs) != 0 {
		t.Fatalf("unexpected analysis errors: %v", errs)
	}
	return script
}

func TestBuildScriptDump(t *testing.T) {
	script := analyzedBoidScript(t)
	dump, err := BuildScriptDump(script, true)
	if err != nil {
		t.Fatalf("unexpected BuildScriptDump error: %v", err)
	}

	if len(dump.Agents) != 1 || dump.Agents[0].Name != "Boid" {
		t.Fatalf("unexpected agents dump: %+v", dump.Agents)
	}
	if dump.Agents[0].PositionIndex != 0 {
		t.Errorf("expected position member at index 0, got %d", dump.Agents[0].PositionIndex)
	}
	if dump.Environment == nil || dump.Environment.Size.Kind != "vec2" {
		t.Fatalf("unexpected environment dump: %+v", dump.Environment)
	}
	if dump.Simulate == nil || len(dump.Simulate.StepFuncs) != 1 || dump.Simulate.StepFuncs[0] != "move" {
		t.Fatalf("unexpected simulate dump: %+v", dump.Simulate)
	}
	if dump.FlameModel == nil || len(dump.FlameModel.Funcs) == 0 {
		t.Fatalf("expected a derived flame model, got %+v", dump.FlameModel)
	}
}

func TestToJSONAndQuery(t *testing.T) {
	script := analyzedBoidScript(t)
	dump, err := BuildScriptDump(script, false)
	if err != nil {
		t.Fatalf("unexpected BuildScriptDump error: %v", err)
	}
	doc, err := ToJSON(dump)
	if err != nil {
		t.Fatalf("unexpected ToJSON error: %v", err)
	}
	if !strings.Contains(string(doc), `"Boid"`) {
		t.Fatalf("expected agent name in JSON dump, got: %s", doc)
	}

	got, err := Query(doc, "agents.0.name")
	if err != nil {
		t.Fatalf("unexpected Query error: %v", err)
	}
	if got != `"Boid"` {
		t.Errorf("expected query result %q, got %q", `"Boid"`, got)
	}

	if _, err := Query(doc, "agents.99.name"); err == nil {
		t.Errorf("expected an error querying a nonexistent path")
	}
}

func TestPatch(t *testing.T) {
	script := analyzedBoidScript(t)
	dump, err := BuildScriptDump(script, false)
	if err != nil {
		t.Fatalf("unexpected BuildScriptDump error: %v", err)
	}
	doc, err := ToJSON(dump)
	if err != nil {
		t.Fatalf("unexpected ToJSON error: %v", err)
	}

	patched, err := Patch(doc, "agents.0.name", "Predator")
	if err != nil {
		t.Fatalf("unexpected Patch error: %v", err)
	}
	if !strings.Contains(string(patched), "Predator") {
		t.Errorf("expected patched document to contain the new name, got: %s", patched)
	}
	if strings.Contains(string(doc), "Predator") {
		t.Errorf("expected original document to be untouched by Patch")
	}
}
