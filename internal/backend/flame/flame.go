// Package flame implements the FLAME (CPU) backend: a FlameModel-derived
// XML model file, one C function body per step function, a runner, and a
// build script, with the GPU-only partitioning/bufferSize/reallocate
// concerns stripped (those are flamegpu's addition over the shared model,
// see internal/backend/flamegpu).
package flame

import (
	"fmt"
	"sort"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/backend"
	"github.com/openabl/openabl-go/internal/backend/flamemodel"
	"github.com/openabl/openabl-go/internal/printer"
	"github.com/openabl/openabl-go/internal/types"
	"github.com/openabl/openabl-go/internal/xmlutil"
)

func init() {
	backend.Register("flame", &Backend{}, backend.MaturityMostlyWorking)
}

// Backend is the FLAME (CPU) code generator.
type Backend struct{}

// Generate implements backend.Backend.
func (b *Backend) Generate(script *ast.Script, ctx *backend.BackendContext) (*backend.Output, error) {
	useFloat := ctx.Config.GetBool("use_float", false)

	model, err := flamemodel.GenerateFromScript(script)
	if err != nil {
		return nil, fmt.Errorf("flame: deriving model: %w", err)
	}

	g := &generator{script: script, model: model, useFloat: useFloat, ctx: ctx}

	out := &backend.Output{
		Files: []backend.OutputFile{
			{RelPath: "model/XMLModelFile.xml", Content: []byte(g.xmlModel())},
			{RelPath: "model/functions.c", Content: []byte(g.functionsFile())},
			{RelPath: "runner.c", Content: []byte(g.runnerFile())},
			{RelPath: "build.sh", Content: []byte(g.buildScript()), Executable: true},
		},
		Assets: []backend.AssetCopy{
			{SrcRelPath: "c/libabl.h", DstRelPath: "model/libabl.h"},
			{SrcRelPath: "c/libabl.c", DstRelPath: "model/libabl.c"},
		},
		Dirs: []string{"iterations"},
	}
	return out, nil
}

type generator struct {
	script   *ast.Script
	model    *flamemodel.Model
	useFloat bool
	ctx      *backend.BackendContext
}

func (g *generator) buildScript() string {
	return "#!/bin/sh\ngcc -O2 -std=c99 runner.c model/libabl.c -Imodel -lm -o runner\n"
}

// xmlModel assembles the FLAME XML model document: agents (memory +
// functions), messages, and the execution layers the model derived (one
// <layer> per flamemodel.Model.Layers group, so every publish function
// lands in a layer strictly before the update function that consumes its
// message), without the `gpu:` namespace elements (spatial partitioning,
// bufferSize, reallocate/RNG flags) that are FLAME-GPU specific.
func (g *generator) xmlModel() string {
	var xagents []xmlutil.Elem
	for _, agent := range g.script.Agents {
		xagents = append(xagents, g.xmlAgent(agent))
	}

	var messages []xmlutil.Elem
	for _, msg := range g.model.Messages {
		messages = append(messages, g.xmlMessage(msg))
	}

	var layers []xmlutil.Elem
	for _, layerFns := range g.model.Layers() {
		var layerFuncs []xmlutil.Elem
		for _, fn := range layerFns {
			layerFuncs = append(layerFuncs, xmlutil.New("layerFunction", xmlutil.NewText("name", fn.Name)))
		}
		layers = append(layers, xmlutil.New("layer", layerFuncs...))
	}

	root := xmlutil.New("xmodel",
		xmlutil.NewText("name", "model"),
		xmlutil.New("xagents", xagents...),
		xmlutil.New("messages", messages...),
		xmlutil.New("layers", layers...),
	)
	root.SetAttr("xmlns", "http://www.dcs.shef.ac.uk/~paul/XMML")

	w := &xmlutil.Writer{}
	return w.Serialize(root)
}

func (g *generator) xmlAgent(agent *ast.AgentDeclaration) xmlutil.Elem {
	var members []xmlutil.Elem
	for _, m := range flamemodel.UnpackMembers(agent.Members, g.useFloat) {
		members = append(members, xmlutil.New("variable",
			xmlutil.NewText("type", m.Type),
			xmlutil.NewText("name", m.Name)))
	}

	var functions []xmlutil.Elem
	for _, fn := range g.model.Funcs {
		if fn.Agent != agent {
			continue
		}
		fnElems := []xmlutil.Elem{
			xmlutil.NewText("name", fn.Name),
			xmlutil.NewText("currentState", "default"),
			xmlutil.NewText("nextState", "default"),
		}
		if fn.InMsgName != "" {
			fnElems = append(fnElems, xmlutil.New("inputs",
				xmlutil.New("input", xmlutil.NewText("messageName", fn.InMsgName))))
		}
		if fn.OutMsgName != "" {
			fnElems = append(fnElems, xmlutil.New("outputs",
				xmlutil.New("output", xmlutil.NewText("messageName", fn.OutMsgName))))
		}
		functions = append(functions, xmlutil.New("function", fnElems...))
	}

	return xmlutil.New("xagent",
		xmlutil.NewText("name", agent.Name),
		xmlutil.New("memory", members...),
		xmlutil.New("functions", functions...),
		xmlutil.New("states",
			xmlutil.New("state", xmlutil.NewText("name", "default")),
			xmlutil.NewText("initialState", "default")),
	)
}

func (g *generator) xmlMessage(msg flamemodel.Message) xmlutil.Elem {
	var variables []xmlutil.Elem
	for _, m := range flamemodel.UnpackMembers(msg.Members, g.useFloat) {
		variables = append(variables, xmlutil.New("variable",
			xmlutil.NewText("type", m.Type),
			xmlutil.NewText("name", m.Name)))
	}
	return xmlutil.New("message",
		xmlutil.NewText("name", msg.Name),
		xmlutil.New("variables", variables...))
}

// functionsFile renders the xmachine_memory_<Agent> struct for every agent
// plus every model-level Func's body as a plain C function operating on it,
// reusing the generic printer. A step function split into publish/update
// Funcs (see flamemodel.GenerateFromScript) emits two C functions here,
// both sharing the original step function's body, since the publish half
// only needs the agent's current fields (already present before the
// original body runs) and the update half performs the original writes
// once the neighbor message board has been populated.
func (g *generator) functionsFile() string {
	w := printer.NewWriter()
	w.Emit(`#include "libabl.h"`)
	w.Newline()
	w.Newline()

	for _, agent := range g.script.Agents {
		printXmachineStruct(w, agent, g.useFloat)
	}

	for _, fn := range g.model.Funcs {
		ctx := printer.NewContext(w)
		ctx.Mangle = func(call *ast.CallExpression) string {
			if call.ResolvedBuiltin != nil {
				return call.ResolvedBuiltin.Mangled
			}
			return call.Name
		}
		w.Emitf("int %s(xmachine_memory_%s* agent) ", fn.Name, fn.Agent.Name)
		ctx.Print(fn.Decl.Body)
		w.Emit("return 0;")
		w.Newline()
		w.Newline()
	}
	return w.String()
}

// printXmachineStruct emits the xmachine_memory_<Agent> typedef the FLAME
// runtime passes to every transition function, field-for-field matching
// the agent's declared members.
func printXmachineStruct(w *printer.Writer, agent *ast.AgentDeclaration, useFloat bool) {
	w.Emitf("typedef struct {")
	w.Newline()
	w.Indent()
	for _, m := range agent.Members {
		w.Emitf("%s %s;", xmachineMemberType(m.Type.Resolved, useFloat), m.Name)
		w.Newline()
	}
	w.Outdent()
	w.Emitf("} xmachine_memory_%s;", agent.Name)
	w.Newline()
	w.Newline()
}

func xmachineMemberType(t types.Type, useFloat bool) string {
	switch t.Kind {
	case types.Int32:
		return "int"
	case types.Float32:
		if useFloat {
			return "float"
		}
		return "double"
	case types.Bool:
		return "int"
	case types.String:
		return "const char*"
	case types.Vec2:
		return "float2"
	case types.Vec3:
		return "float3"
	case types.Agent:
		return "xmachine_memory_" + t.AgentName
	default:
		return "int"
	}
}

// runnerFile emits the host-side driver: one fixed-size xmachine_memory_X
// population per agent, iterated for the configured step count, calling
// every model Func in layer order (so a publish Func always runs, for
// every agent, before the update Func that consumes its message). It
// writes no per-step snapshots.
func (g *generator) runnerFile() string {
	w := printer.NewWriter()

	names := sortedAgentNames(g.script.Agents)
	for _, name := range names {
		count := g.ctx.Config.GetInt(name+".count", 100)
		w.Emitf("#define XMACHINE_MEMORY_%s_COUNT %d", upper(name), count)
		w.Newline()
	}
	w.Emit(`#include "model/libabl.h"`)
	w.Newline()
	w.Emit(`#include "model/functions.c"`)
	w.Newline()
	w.Emit("#include <stdio.h>")
	w.Newline()
	w.Newline()
	w.Emit("int main(void) {")
	w.Newline()
	w.Indent()
	w.Emit("seed_rng(1);")
	w.Newline()

	for _, name := range names {
		w.Emitf("static xmachine_memory_%s %s_pop[XMACHINE_MEMORY_%s_COUNT];", name, name, upper(name))
		w.Newline()
	}
	w.Newline()

	steps := g.ctx.Config.GetInt("steps", 100)
	w.Emitf("for (int __step = 0; __step < %d; __step++) {", steps)
	w.Newline()
	w.Indent()

	for _, layerFns := range g.model.Layers() {
		for _, fn := range layerFns {
			w.Emitf("for (int __i = 0; __i < XMACHINE_MEMORY_%s_COUNT; __i++) {", upper(fn.Agent.Name))
			w.Newline()
			w.Indent()
			w.Emitf("%s(&%s_pop[__i]);", fn.Name, fn.Agent.Name)
			w.Newline()
			w.Outdent()
			w.Emit("}")
			w.Newline()
		}
	}

	w.Outdent()
	w.Emit("}")
	w.Newline()
	w.Emit("return 0;")
	w.Newline()
	w.Outdent()
	w.Emit("}")
	w.Newline()
	return w.String()
}

func sortedAgentNames(agents []*ast.AgentDeclaration) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
