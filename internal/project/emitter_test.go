package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openabl/openabl-go/internal/backend"
)

func TestEmitWritesFilesDirsAndAssets(t *testing.T) {
	assetDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(assetDir, "libabl.h"), []byte("/* runtime */"), 0o644); err != nil {
		t.Fatalf("unexpected error seeding asset fixture: %v", err)
	}

	outputDir := filepath.Join(t.TempDir(), "out")
	ctx := &backend.BackendContext{OutputDir: outputDir, AssetDir: assetDir}
	out := &backend.Output{
		Files: []backend.OutputFile{
			{RelPath: "runner.c", Content: []byte("int main(void){return 0;}")},
			{RelPath: "build.sh", Content: []byte("#!/bin/sh\n"), Executable: true},
		},
		Assets: []backend.AssetCopy{
			{SrcRelPath: "libabl.h", DstRelPath: "libabl.h"},
		},
		Dirs: []string{"iterations"},
	}

	if err := Emit(out, ctx); err != nil {
		t.Fatalf("unexpected Emit error: %v", err)
	}

	runnerContent, err := os.ReadFile(filepath.Join(outputDir, "runner.c"))
	if err != nil {
		t.Fatalf("expected runner.c to be written: %v", err)
	}
	if string(runnerContent) != "int main(void){return 0;}" {
		t.Errorf("unexpected runner.c content: %s", runnerContent)
	}

	info, err := os.Stat(filepath.Join(outputDir, "build.sh"))
	if err != nil {
		t.Fatalf("expected build.sh to be written: %v", err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Errorf("expected build.sh to be executable, got mode %v", info.Mode())
	}

	assetContent, err := os.ReadFile(filepath.Join(outputDir, "libabl.h"))
	if err != nil {
		t.Fatalf("expected libabl.h asset to be copied: %v", err)
	}
	if string(assetContent) != "/* runtime */" {
		t.Errorf("unexpected copied asset content: %s", assetContent)
	}

	if _, err := os.Stat(filepath.Join(outputDir, "iterations")); err != nil {
		t.Errorf("expected iterations directory to be created: %v", err)
	}
}

func TestEmitMissingAssetErrors(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	ctx := &backend.BackendContext{OutputDir: outputDir, AssetDir: t.TempDir()}
	out := &backend.Output{
		Assets: []backend.AssetCopy{
			{SrcRelPath: "does-not-exist.h", DstRelPath: "does-not-exist.h"},
		},
	}
	if err := Emit(out, ctx); err == nil {
		t.Fatalf("expected an error copying a missing asset")
	}
}
