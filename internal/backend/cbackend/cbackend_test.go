package cbackend

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/openabl/openabl-go/internal/analysis"
	"github.com/openabl/openabl-go/internal/backend"
	"github.com/openabl/openabl-go/internal/config"
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

func generate(t *testing.T, src string, cfg *config.Config) *backend.Output {
	t.Helper()
	script, err := parser.ParseScript(src, "boid.abl")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if errs := analysis.Analyze(script); len(errs) != 0 {
		t.Fatalf("unexpected analysis errors: %v", errs)
	}
	out, err := (&Backend{}).Generate(script, &backend.BackendContext{
		OutputDir: "out",
		AssetDir:  "asset/c",
		Config:    cfg,
	})
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return out
}

func TestGenerateRunnerSnapshot(t *testing.T) {
	out := generate(t, boidScript, config.New())
	if len(out.Files) != 2 {
		t.Fatalf("expected runner.c + build.sh, got %d files", len(out.Files))
	}
	snaps.MatchSnapshot(t, "runner.c", string(out.Files[0].Content))
}

func TestGenerateIsIdempotent(t *testing.T) {
	first := generate(t, boidScript, config.New())
	second := generate(t, boidScript, config.New())
	if string(first.Files[0].Content) != string(second.Files[0].Content) {
		t.Fatalf("re-generation produced different output")
	}
}

func TestGenerateRespectsUseFloat(t *testing.T) {
	cfg := config.New()
	if err := cfg.SetParam("use_float=true"); err != nil {
		t.Fatalf("unexpected SetParam error: %v", err)
	}
	out := generate(t, boidScript, cfg)
	build := string(out.Files[1].Content)
	if !strings.Contains(build, "LIBABL_USE_FLOAT") {
		t.Errorf("expected build.sh to define LIBABL_USE_FLOAT, got: %s", build)
	}
}
