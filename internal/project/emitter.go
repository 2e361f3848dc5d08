// Package project implements the backend-independent project emitter: a
// pure I/O façade over a backend.Output.
// It never inspects AST or config, only writes what a Backend already
// decided to produce.
package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/openabl/openabl-go/internal/backend"
)

// Emit materializes out under ctx.OutputDir: creates directories, writes
// generated files in the order the backend returned them, copies assets from ctx.AssetDir, and chmods
// executable outputs.
func Emit(out *backend.Output, ctx *backend.BackendContext) error {
	if err := os.MkdirAll(ctx.OutputDir, 0o755); err != nil {
		return fmt.Errorf("project: creating output directory: %w", err)
	}

	for _, dir := range out.Dirs {
		if err := os.MkdirAll(filepath.Join(ctx.OutputDir, dir), 0o755); err != nil {
			return fmt.Errorf("project: creating directory %q: %w", dir, err)
		}
	}

	for _, f := range out.Files {
		if err := writeFile(ctx.OutputDir, f); err != nil {
			return err
		}
	}

	for _, a := range out.Assets {
		if err := copyAsset(ctx.AssetDir, ctx.OutputDir, a); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(outputDir string, f backend.OutputFile) error {
	dst := filepath.Join(outputDir, f.RelPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("project: creating directory for %q: %w", f.RelPath, err)
	}
	mode := os.FileMode(0o644)
	if f.Executable {
		mode = 0o755
	}
	if err := os.WriteFile(dst, f.Content, mode); err != nil {
		return fmt.Errorf("project: writing %q: %w", f.RelPath, err)
	}
	if f.Executable {
		if err := os.Chmod(dst, mode); err != nil {
			return fmt.Errorf("project: chmod %q: %w", f.RelPath, err)
		}
	}
	return nil
}

func copyAsset(assetDir, outputDir string, a backend.AssetCopy) error {
	src := filepath.Join(assetDir, a.SrcRelPath)
	dst := filepath.Join(outputDir, a.DstRelPath)

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("project: opening asset %q: %w", a.SrcRelPath, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("project: creating directory for asset %q: %w", a.DstRelPath, err)
	}

	mode := os.FileMode(0o644)
	if a.Executable {
		mode = 0o755
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("project: creating asset %q: %w", a.DstRelPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("project: copying asset %q: %w", a.DstRelPath, err)
	}
	if a.Executable {
		if err := os.Chmod(dst, mode); err != nil {
			return fmt.Errorf("project: chmod asset %q: %w", a.DstRelPath, err)
		}
	}
	return nil
}
