// Package flamegpu implements the FLAME GPU backend: the same
// flamemodel.Model as the FLAME backend, plus spatial message
// partitioning, per-agent unique default states, RNG/reallocate flags, a
// buffer-size config key, and the round-tripping double-to-string
// conversion FlameGPU's XML parser needs.
package flamegpu

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/backend"
	"github.com/openabl/openabl-go/internal/backend/flamemodel"
	"github.com/openabl/openabl-go/internal/config"
	"github.com/openabl/openabl-go/internal/printer"
	"github.com/openabl/openabl-go/internal/types"
	"github.com/openabl/openabl-go/internal/xmlutil"
)

func init() {
	backend.Register("flamegpu", &Backend{}, backend.MaturityNotWorking)
}

// Backend is the FLAME GPU code generator.
type Backend struct{}

// Generate implements backend.Backend.
func (b *Backend) Generate(script *ast.Script, ctx *backend.BackendContext) (*backend.Output, error) {
	useFloat := ctx.Config.GetBool("use_float", false)
	bufferSize := ctx.Config.GetInt("flamegpu.buffer_size", 1024)

	model, err := flamemodel.GenerateFromScript(script)
	if err != nil {
		return nil, fmt.Errorf("flamegpu: deriving model: %w", err)
	}
	if script.Env == nil {
		return nil, fmt.Errorf("flamegpu: script has no environment declaration")
	}

	g := &generator{script: script, model: model, useFloat: useFloat, bufferSize: bufferSize, cfg: ctx.Config}

	out := &backend.Output{
		Files: []backend.OutputFile{
			{RelPath: "model/XMLModelFile.xml", Content: []byte(g.xmlModel())},
			{RelPath: "model/functions.c", Content: []byte(g.functionsFile())},
			{RelPath: "runner.c", Content: []byte(g.mainFile())},
			{RelPath: "build_runner.sh", Content: []byte(g.buildRunnerScript()), Executable: true},
		},
		Assets: []backend.AssetCopy{
			{SrcRelPath: "flamegpu/libabl_flamegpu.h", DstRelPath: "model/libabl_flamegpu.h"},
			{SrcRelPath: "flamegpu/Makefile", DstRelPath: "Makefile"},
			{SrcRelPath: "flamegpu/build.sh", DstRelPath: "build.sh", Executable: true},
			{SrcRelPath: "flamegpu/run.sh", DstRelPath: "run.sh", Executable: true},
			{SrcRelPath: "c/libabl.h", DstRelPath: "libabl.h"},
			{SrcRelPath: "c/libabl.c", DstRelPath: "libabl.c"},
		},
		Dirs: []string{"model", "dynamic", "iterations"},
	}
	return out, nil
}

type generator struct {
	script     *ast.Script
	model      *flamemodel.Model
	useFloat   bool
	bufferSize int
	cfg        *config.Config
}

func (g *generator) buildRunnerScript() string {
	if g.useFloat {
		return "#!/bin/sh\ngcc -O2 -std=c99 -DLIBABL_USE_FLOAT=1 runner.c libabl.c -lm -o runner\n"
	}
	return "#!/bin/sh\ngcc -O2 -std=c99 runner.c libabl.c -lm -o runner\n"
}

// doubleToString finds the shortest decimal representation that round-trips
// exactly back to d, since FlameGPU's XML parser is picky about precision
// loss in environment bounds.
func doubleToString(d float64) string {
	for precision := 6; precision <= 17; precision++ {
		s := strconv.FormatFloat(d, 'g', precision, 64)
		if d2, err := strconv.ParseFloat(s, 64); err == nil && d2 == d {
			return s
		}
	}
	return strconv.FormatFloat(d, 'g', -1, 64)
}

// roundToMultiple rounds size up to the nearest multiple of radius.
func roundToMultiple(size, radius float64) float64 {
	return math.Ceil(size/radius) * radius
}

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
			layerFuncs = append(layerFuncs, xmlutil.New("gpu:layerFunction", xmlutil.NewText("name", fn.Name)))
		}
		layers = append(layers, xmlutil.New("layer", layerFuncs...))
	}

	root := xmlutil.New("gpu:xmodel",
		xmlutil.NewText("name", "TODO"),
		xmlutil.New("gpu:environment",
			xmlutil.New("gpu:functionFiles", xmlutil.NewText("file", "functions.c"))),
		xmlutil.New("xagents", xagents...),
		xmlutil.New("messages", messages...),
		xmlutil.New("layers", layers...),
	)
	root.SetAttr("xmlns:gpu", "http://www.dcs.shef.ac.uk/~paul/XMMLGPU")
	root.SetAttr("xmlns", "http://www.dcs.shef.ac.uk/~paul/XMML")

	w := &xmlutil.Writer{}
	return w.Serialize(root)
}

func (g *generator) xmlAgent(agent *ast.AgentDeclaration) xmlutil.Elem {
	var members []xmlutil.Elem
	for _, m := range flamemodel.UnpackMembers(agent.Members, g.useFloat) {
		members = append(members, xmlutil.New("gpu:variable",
			xmlutil.NewText("type", m.Type),
			xmlutil.NewText("name", m.Name)))
	}

	// FlameGPU requires state names unique across agents.
	defaultState := agent.Name + "_default"

	var functions []xmlutil.Elem
	for _, fn := range g.model.Funcs {
		if fn.Agent != agent {
			continue
		}
		var inputs, outputs []xmlutil.Elem
		if fn.InMsgName != "" {
			inputs = append(inputs, xmlutil.New("gpu:input", xmlutil.NewText("messageName", fn.InMsgName)))
		}
		if fn.OutMsgName != "" {
			outputs = append(outputs, xmlutil.New("gpu:output",
				xmlutil.NewText("messageName", fn.OutMsgName),
				xmlutil.NewText("gpu:type", "single_message")))
		}

		fnElems := []xmlutil.Elem{
			xmlutil.NewText("name", fn.Name),
			xmlutil.NewText("currentState", defaultState),
			xmlutil.NewText("nextState", defaultState),
		}
		if len(inputs) > 0 {
			fnElems = append(fnElems, xmlutil.New("inputs", inputs...))
		}
		if len(outputs) > 0 {
			fnElems = append(fnElems, xmlutil.New("outputs", outputs...))
		}
		if fn.AddedAgent != nil {
			fnElems = append(fnElems, xmlutil.New("xagentOutputs",
				xmlutil.New("gpu:xagentOutput",
					xmlutil.NewText("xagentName", fn.AddedAgent.Name),
					xmlutil.NewText("state", fn.AddedAgent.Name+"_default"))))
		}

		usesRng := fn.Decl != nil && fn.Decl.UsesRng
		fnElems = append(fnElems,
			xmlutil.NewText("gpu:reallocate", "false"),
			xmlutil.NewText("gpu:RNG", boolStr(usesRng)))

		functions = append(functions, xmlutil.New("gpu:function", fnElems...))
	}

	return xmlutil.New("gpu:xagent",
		xmlutil.NewText("name", agent.Name),
		xmlutil.New("memory", members...),
		xmlutil.New("functions", functions...),
		xmlutil.New("states",
			xmlutil.New("gpu:state", xmlutil.NewText("name", defaultState)),
			xmlutil.NewText("initialState", defaultState)),
		xmlutil.NewText("gpu:type", "continuous"),
		xmlutil.NewText("gpu:bufferSize", strconv.Itoa(g.bufferSize)),
	)
}

func (g *generator) xmlMessage(msg flamemodel.Message) xmlutil.Elem {
	var variables []xmlutil.Elem
	for _, m := range flamemodel.UnpackMembers(msg.Members, g.useFloat) {
		variables = append(variables, xmlutil.New("gpu:variable",
			xmlutil.NewText("type", m.Type),
			xmlutil.NewText("name", m.Name)))
	}

	min, size, radiusVal := g.envExtent()
	radius := radiusVal.AsFloat()
	maxX := roundToMultiple(size.Vec[0], radius) + min.Vec[0]
	maxY := roundToMultiple(size.Vec[1], radius) + min.Vec[1]
	var maxZ float64
	if size.Vec[2] != 0 {
		maxZ = roundToMultiple(size.Vec[2], radius) + min.Vec[2]
	} else {
		maxZ = radius
	}

	partitioning := xmlutil.New("gpu:partitioningSpatial",
		xmlutil.NewText("gpu:radius", doubleToString(radius)),
		xmlutil.NewText("gpu:xmin", doubleToString(min.Vec[0])),
		xmlutil.NewText("gpu:xmax", doubleToString(maxX)),
		xmlutil.NewText("gpu:ymin", doubleToString(min.Vec[1])),
		xmlutil.NewText("gpu:ymax", doubleToString(maxY)),
		xmlutil.NewText("gpu:zmin", doubleToString(min.Vec[2])),
		xmlutil.NewText("gpu:zmax", doubleToString(maxZ)),
	)

	return xmlutil.New("gpu:message",
		xmlutil.NewText("name", msg.Name),
		xmlutil.New("variables", variables...),
		partitioning,
		xmlutil.NewText("gpu:bufferSize", strconv.Itoa(g.bufferSize)),
	)
}

// envExtent extends the folded environment min/size to Vec3, zero-filling
// Z for a 2D script.
func (g *generator) envExtent() (min, size, granularity types.Value) {
	return g.script.EnvMin.ExtendToVec3(), g.script.EnvSize.ExtendToVec3(), g.script.EnvGranularity
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// functionsFile renders every model Func's body, same shape as the FLAME
// backend's functionsFile: a step function split into publish/update Funcs
// emits two __FLAME_GPU_FUNC__ functions sharing the original body.
func (g *generator) functionsFile() string {
	w := printer.NewWriter()
	w.Emit(`#include "libabl_flamegpu.h"`)
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
		w.Emitf("__FLAME_GPU_FUNC__ int %s(xmachine_memory_%s* agent) ", fn.Name, fn.Agent.Name)
		ctx.Print(fn.Decl.Body)
		w.Emit("return 0;")
		w.Newline()
		w.Newline()
	}
	return w.String()
}

// printXmachineStruct mirrors flame.printXmachineStruct; duplicated rather
// than shared since the two backends' struct layouts are free to diverge
// (FlameGPU's real xmachine_memory_X additionally carries an `id` and
// message-output counters the CPU backend has no use for), and neither
// backend depends on the other's package.
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

// mainFile emits a CPU-emulated host driver: FlameGPU proper compiles
// functions.c with nvcc against the GPU simulation template, which this
// repo does not vendor (no CUDA toolchain assumption), so this instead
// drives the same xmachine_memory_X population loop as the FLAME CPU
// backend, kept separate since the two backends' generated structs and
// annotations (`__FLAME_GPU_FUNC__`) diverge.
func (g *generator) mainFile() string {
	w := printer.NewWriter()

	names := sortedAgentNames(g.script.Agents)
	for _, name := range names {
		count := g.bufferSize
		if c := g.scriptAgentCount(name); c > 0 {
			count = c
		}
		w.Emitf("#define XMACHINE_MEMORY_%s_COUNT %d", upperName(name), count)
		w.Newline()
	}
	w.Emit(`#include "model/libabl_flamegpu.h"`)
	w.Newline()
	w.Emit(`#include "model/functions.c"`)
	w.Newline()
	w.Newline()
	w.Emit("int main(void) {")
	w.Newline()
	w.Indent()
	w.Emit("seed_rng(1);")
	w.Newline()
	for _, name := range names {
		w.Emitf("static xmachine_memory_%s %s_pop[XMACHINE_MEMORY_%s_COUNT];", name, name, upperName(name))
		w.Newline()
	}
	w.Newline()
	steps := g.cfg.GetInt("steps", 100)
	w.Emitf("for (int __step = 0; __step < %d; __step++) {", steps)
	w.Newline()
	w.Indent()
	for _, layerFns := range g.model.Layers() {
		for _, fn := range layerFns {
			w.Emitf("for (int __i = 0; __i < XMACHINE_MEMORY_%s_COUNT; __i++) {", upperName(fn.Agent.Name))
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

// scriptAgentCount reads a per-agent `<agent>.count` config key, mirroring
// cbackend's population-sizing resolution; returns 0 (no override) when
// unset so mainFile falls back to the FlameGPU bufferSize.
func (g *generator) scriptAgentCount(agentName string) int {
	return g.cfg.GetInt(agentName+".count", 0)
}

func upperName(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func sortedAgentNames(agents []*ast.AgentDeclaration) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}
