// Package cbackend implements OpenABL's plain-C target: a flat,
// double-buffered array loop over each agent population, brute-force
// `near`, an LCG-seeded RNG, and `save()` via libabl.h's runtime type
// table.
package cbackend

import (
	"fmt"
	"sort"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/backend"
	"github.com/openabl/openabl-go/internal/printer"
	"github.com/openabl/openabl-go/internal/types"
)

func init() {
	backend.Register("c", &Backend{}, backend.MaturityWorking)
}

// Backend is the plain-C code generator.
type Backend struct{}

// Generate implements backend.Backend.
func (b *Backend) Generate(script *ast.Script, ctx *backend.BackendContext) (*backend.Output, error) {
	useFloat := ctx.Config.GetBool("use_float", false)

	g := &generator{script: script, ctx: ctx, useFloat: useFloat}
	runnerSrc := g.generateRunner()

	out := &backend.Output{
		Files: []backend.OutputFile{
			{RelPath: "runner.c", Content: []byte(runnerSrc)},
			{RelPath: "build.sh", Content: []byte(g.buildScript()), Executable: true},
		},
		Assets: []backend.AssetCopy{
			{SrcRelPath: "c/libabl.h", DstRelPath: "libabl.h"},
			{SrcRelPath: "c/libabl.c", DstRelPath: "libabl.c"},
		},
		Dirs: []string{"iterations"},
	}
	return out, nil
}

func (g *generator) buildScript() string {
	defs := ""
	if g.useFloat {
		defs = " -DLIBABL_USE_FLOAT=1"
	}
	return fmt.Sprintf("#!/bin/sh\ngcc -O2 -std=c99%s runner.c libabl.c -lm -o runner\n", defs)
}

type generator struct {
	script   *ast.Script
	ctx      *backend.BackendContext
	useFloat bool
}

func (g *generator) floatType() string {
	if g.useFloat {
		return "float"
	}
	return "double"
}

func (g *generator) generateRunner() string {
	w := printer.NewWriter()
	w.Emit(`#include "libabl.h"`)
	w.Newline()
	w.Emit("#include <stdio.h>")
	w.Newline()
	w.Newline()

	for _, agent := range g.script.Agents {
		g.printAgentStruct(w, agent)
		g.printAgentTypeInfo(w, agent)
	}

	for _, fn := range g.script.Funcs {
		g.printFunction(w, fn)
	}

	g.printMain(w)
	return w.String()
}

func (g *generator) cMemberType(t types.Type) string {
	switch t.Kind {
	case types.Int32:
		return "int"
	case types.Float32:
		return g.floatType()
	case types.Bool:
		return "int"
	case types.String:
		return "const char*"
	case types.Vec2:
		return "float2"
	case types.Vec3:
		return "float3"
	case types.Agent:
		return t.AgentName
	default:
		return "int"
	}
}

func (g *generator) printAgentStruct(w *printer.Writer, agent *ast.AgentDeclaration) {
	w.Emitf("typedef struct {")
	w.Newline()
	w.Indent()
	for _, m := range agent.Members {
		w.Emitf("%s %s;", g.cMemberType(m.Type.Resolved), m.Name)
		w.Newline()
	}
	w.Outdent()
	w.Emitf("} %s;", agent.Name)
	w.Newline()
	w.Newline()
}

// printAgentTypeInfo emits the libabl.h `type_info[]` table save() needs to
// walk an agent array's fields at runtime (libabl.h's `type_info { type,
// offset, name }`).
func (g *generator) printAgentTypeInfo(w *printer.Writer, agent *ast.AgentDeclaration) {
	w.Emitf("static const type_info %s_type_info[] = {", agent.Name)
	w.Newline()
	w.Indent()
	for _, m := range agent.Members {
		typeID, ok := typeIDFor(m.Type.Resolved)
		if !ok {
			continue
		}
		w.Emitf("{ %s, offsetof(%s, %s), %q },", typeID, agent.Name, m.Name, m.Name)
		w.Newline()
	}
	w.Emit("{ TYPE_END, 0, NULL },")
	w.Newline()
	w.Outdent()
	w.Emit("};")
	w.Newline()
	w.Newline()
}

func typeIDFor(t types.Type) (string, bool) {
	switch t.Kind {
	case types.Bool:
		return "TYPE_BOOL", true
	case types.Int32:
		return "TYPE_INT", true
	case types.Float32:
		return "TYPE_FLOAT", true
	case types.String:
		return "TYPE_STRING", true
	case types.Vec2:
		return "TYPE_FLOAT2", true
	case types.Vec3:
		return "TYPE_FLOAT3", true
	default:
		return "", false
	}
}

func (g *generator) printFunction(w *printer.Writer, fn *ast.FunctionDeclaration) {
	ctx := printer.NewContext(w)
	ctx.Mangle = g.mangle
	ctx.Overrides = map[printer.NodeKind]printer.Override{
		printer.KindParallelForStatement: g.printParfor,
	}

	w.Emitf("static %s %s(", cReturnType(fn.ReturnType.Resolved), fn.Name)
	for i, p := range fn.Params {
		if i > 0 {
			w.Emit(", ")
		}
		w.Emitf("%s *%s", g.cMemberType(p.Type.Resolved), p.Name)
		if p.OutName != "" {
			w.Emitf(", %s *%s", g.cMemberType(p.Type.Resolved), p.OutName)
		}
	}
	w.Emit(") ")
	ctx.Print(fn.Body)
	w.Newline()
}

func cReturnType(t types.Type) string {
	if t.Kind == types.Void {
		return "void"
	}
	return t.String()
}

// mangle resolves a CallExpression to its C symbol: the libabl.h mangled
// name for a resolved builtin overload, otherwise the call's own name
// (user functions and the agent-specific add/near/save calls alike).
func (g *generator) mangle(call *ast.CallExpression) string {
	if call.ResolvedBuiltin != nil {
		return call.ResolvedBuiltin.Mangled
	}
	return call.Name
}

// printParfor lowers an in-body `parfor (T n in, T n2 out : near(self, r))`
// loop (the neighbor-query idiom) to a brute-force C for loop over the
// dyn_array near() returns.
func (g *generator) printParfor(ctx *printer.Context, n ast.Node) {
	st := n.(*ast.ParallelForStatement)
	w := ctx.W
	elemType := "int"
	if st.Type.Resolved.Kind == types.Agent {
		elemType = st.Type.Resolved.AgentName
	}
	w.Emit("{")
	w.Newline()
	w.Indent()
	w.Emitf("dyn_array %s_nbrs = ", st.InName)
	ctx.Print(st.Expr)
	w.Emit(";")
	w.Newline()
	w.Emitf("for (size_t __i = 0; __i < %s_nbrs.len; __i++) {", st.InName)
	w.Newline()
	w.Indent()
	w.Emitf("%s *%s = DYN_ARRAY_GET(&%s_nbrs, %s, __i);", elemType, st.InName, st.InName, elemType)
	w.Newline()
	w.Emitf("%s *%s = %s;", elemType, st.OutName, st.InName)
	w.Newline()
	ctx.Print(st.Body)
	w.Outdent()
	w.Emit("}")
	w.Newline()
	w.Outdent()
	w.Emit("}")
	w.Newline()
}

// printMain emits the double-buffered simulation driver: per-agent arrays
// sized from a `<agent>.count` config key (default 100, since the
// language has no population-literal syntax), then `simulate N { ... }`
// calling each bound step function over the whole population before
// swapping buffers.
func (g *generator) printMain(w *printer.Writer) {
	w.Emit("int main(void) {")
	w.Newline()
	w.Indent()
	w.Emit("seed_rng(1);")
	w.Newline()

	names := sortedAgentNames(g.script.Agents)
	for _, name := range names {
		count := g.ctx.Config.GetInt(name+".count", 100)
		w.Emitf("dyn_array %s_cur = DYN_ARRAY_CREATE_FIXED(%s, %d);", name, name, count)
		w.Newline()
		w.Emitf("dyn_array %s_next = DYN_ARRAY_CREATE_FIXED(%s, %d);", name, name, count)
		w.Newline()
	}
	w.Newline()

	steps := g.ctx.Config.GetInt("steps", 100)
	w.Emitf("for (int __step = 0; __step < %d; __step++) {", steps)
	w.Newline()
	w.Indent()

	if g.script.Simulate != nil {
		for _, fnName := range g.script.Simulate.Stmt.StepFuncs {
			fn := lookupFunc(g.script, fnName)
			if fn == nil || len(fn.Params) == 0 {
				continue
			}
			agentName := fn.Params[0].Type.Resolved.AgentName
			w.Emitf("for (size_t __i = 0; __i < %s_cur.len; __i++) {", agentName)
			w.Newline()
			w.Indent()
			w.Emitf("%s(DYN_ARRAY_GET(&%s_cur, %s, __i), DYN_ARRAY_GET(&%s_next, %s, __i));",
				fnName, agentName, agentName, agentName, agentName)
			w.Newline()
			w.Outdent()
			w.Emit("}")
			w.Newline()
		}
		for _, name := range names {
			w.Emitf("{ dyn_array __tmp = %s_cur; %s_cur = %s_next; %s_next = __tmp; }", name, name, name, name)
			w.Newline()
		}
	}

	w.Outdent()
	w.Emit("}")
	w.Newline()

	for _, name := range names {
		w.Emitf("dyn_array_release(&%s_cur);", name)
		w.Newline()
		w.Emitf("dyn_array_release(&%s_next);", name)
		w.Newline()
	}

	w.Emit("return 0;")
	w.Newline()
	w.Outdent()
	w.Emit("}")
	w.Newline()
}

func sortedAgentNames(agents []*ast.AgentDeclaration) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

func lookupFunc(script *ast.Script, name string) *ast.FunctionDeclaration {
	for _, fn := range script.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}
