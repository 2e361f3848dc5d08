// Package mason implements the Mason and DMason backends: one Java class
// per agent, a Sim/SimWithUI simulation driver, and float rejection. The
// dmason variant differs only in its extra DMason imports; it emits no
// distributed-topology configuration.
package mason

import (
	"fmt"
	"sort"

	"github.com/openabl/openabl-go/internal/ast"
	"github.com/openabl/openabl-go/internal/backend"
	"github.com/openabl/openabl-go/internal/printer"
	"github.com/openabl/openabl-go/internal/types"
)

func init() {
	backend.Register("mason", &Backend{Distributed: false}, backend.MaturityMostlyWorking)
	backend.Register("dmason", &Backend{Distributed: true}, backend.MaturityNotWorking)
}

// Backend is the Mason/DMason Java code generator. Distributed adds
// DMason's distributed-field imports to Sim.java; neither variant
// generates field declarations or partitioning constructor arguments.
type Backend struct {
	Distributed bool
}

// Generate implements backend.Backend.
func (b *Backend) Generate(script *ast.Script, ctx *backend.BackendContext) (*backend.Output, error) {
	if ctx.Config.GetBool("use_float", false) {
		return nil, fmt.Errorf("mason: floats are not supported by the Mason backend")
	}

	g := &generator{script: script, ctx: ctx, distributed: b.Distributed}

	files := []backend.OutputFile{
		{RelPath: "Sim.java", Content: []byte(g.simFile(false))},
		{RelPath: "SimWithUI.java", Content: []byte(g.simFile(true))},
	}
	for _, agent := range script.Agents {
		files = append(files, backend.OutputFile{
			RelPath: agent.Name + ".java",
			Content: []byte(g.agentFile(agent)),
		})
	}
	files = append(files,
		backend.OutputFile{RelPath: "build.sh", Content: []byte(g.buildScript()), Executable: true},
		backend.OutputFile{RelPath: "run.sh", Content: []byte(g.runScript()), Executable: true},
	)

	return &backend.Output{
		Files: files,
		Assets: []backend.AssetCopy{
			{SrcRelPath: "mason/Util.java", DstRelPath: "Util.java"},
		},
	}, nil
}

type generator struct {
	script      *ast.Script
	ctx         *backend.BackendContext
	distributed bool
}

// classPathPrefix prepends a mason/dmason jar to CLASSPATH when ctx's deps
// directory carries one, mirroring getClassPathPrefix's
// `ctx.depsDir + "/mason"` existence check. The analyzed BackendContext has
// no depsDir field (no dependency-vendoring concern exists in this repo),
// so this always resolves to no prefix; kept as a named hook so a future
// deps-directory convention has an obvious place to plug in.
func (g *generator) classPathPrefix() string {
	return ""
}

func (g *generator) buildScript() string {
	return "#!/bin/sh\n" + g.classPathPrefix() + "javac *.java\n"
}

func (g *generator) runScript() string {
	visualize := g.ctx.Config.GetBool("visualize", false)
	simClass := "Sim"
	if visualize {
		simClass = "SimWithUI"
	}
	return "#!/bin/sh\n" + g.classPathPrefix() + "java " + simClass + "\n"
}

func javaType(t types.Type) string {
	switch t.Kind {
	case types.Int32:
		return "int"
	case types.Float32:
		return "double"
	case types.Bool:
		return "boolean"
	case types.String:
		return "String"
	case types.Vec2:
		return "Double2D"
	case types.Vec3:
		return "Double3D"
	case types.Agent:
		return t.AgentName
	case types.Array:
		return javaType(*t.Elem) + "[]"
	default:
		return "Object"
	}
}

func javaTypeExpr(t ast.TypeExpr) string {
	if t.IsArray {
		return javaTypeExpr(*t.Elem) + "[]"
	}
	switch t.Name {
	case "int":
		return "int"
	case "float":
		return "double"
	case "bool":
		return "boolean"
	case "string":
		return "String"
	case "vec2":
		return "Double2D"
	case "vec3":
		return "Double3D"
	default:
		return t.Name
	}
}

// masonContext builds a printer.Context rendering Java syntax: "." member
// access, Java primitive/Double2D/Double3D type names, and `new T(...)`
// agent creation in place of the generic C compound-literal fallback.
func masonContext(w *printer.Writer) *printer.Context {
	ctx := printer.NewContext(w)
	ctx.MemberOp = "."
	ctx.Mangle = func(call *ast.CallExpression) string {
		switch call.Name {
		case "dot", "length", "dist", "normalize":
			return "Util." + call.Name
		case "random":
			return "Util.random"
		}
		return call.Name
	}
	ctx.Overrides[printer.KindVarDeclarationStatement] = func(ctx *printer.Context, n ast.Node) {
		node := n.(*ast.VarDeclarationStatement)
		ctx.W.Emitf("%s %s", javaTypeExpr(node.Type), node.Name)
		if node.Initializer != nil {
			ctx.W.Emit(" = ")
			ctx.Print(node.Initializer)
		}
		ctx.W.Emit(";")
		ctx.W.Newline()
	}
	ctx.Overrides[printer.KindNewArrayExpression] = func(ctx *printer.Context, n ast.Node) {
		node := n.(*ast.NewArrayExpression)
		ctx.W.Emitf("new %s[", javaTypeExpr(node.ElemType))
		ctx.Print(node.Size)
		ctx.W.Emit("]")
	}
	ctx.Overrides[printer.KindAgentCreationExpression] = func(ctx *printer.Context, n ast.Node) {
		node := n.(*ast.AgentCreationExpression)
		ctx.W.Emitf("new %s(", node.AgentName)
		for i, m := range node.Members {
			if i > 0 {
				ctx.W.Emit(", ")
			}
			ctx.Print(m.Value)
		}
		ctx.W.Emit(")")
	}
	return ctx
}

// agentFile renders one Java class per agent: fields for every member, a
// full constructor, and one method per step function bound to this agent
// in the simulate block.
func (g *generator) agentFile(agent *ast.AgentDeclaration) string {
	w := printer.NewWriter()
	w.Emit("import sim.engine.*;")
	w.Newline()
	w.Emit("import sim.util.*;")
	w.Newline()
	w.Newline()
	w.Emitf("public class %s implements java.io.Serializable {", agent.Name)
	w.Newline()
	w.Indent()

	for _, m := range agent.Members {
		w.Emitf("public %s %s;", javaType(m.Type.Resolved), m.Name)
		w.Newline()
	}
	w.Newline()

	w.Emitf("public %s(", agent.Name)
	for i, m := range agent.Members {
		if i > 0 {
			w.Emit(", ")
		}
		w.Emitf("%s %s", javaType(m.Type.Resolved), m.Name)
	}
	w.Emit(") {")
	w.Newline()
	w.Indent()
	for _, m := range agent.Members {
		w.Emitf("this.%s = %s;", m.Name, m.Name)
		w.Newline()
	}
	w.Outdent()
	w.Emit("}")
	w.Newline()
	w.Newline()

	for _, fn := range stepFuncsFor(g.script, agent) {
		w.Emitf("public void %s(%s _sim) {", fn.Name, simClassNameFor(g.script))
		w.Newline()
		w.Indent()
		ctx := masonContext(w)
		for _, stmt := range fn.Body.Stmts {
			ctx.Print(stmt)
		}
		w.Outdent()
		w.Emit("}")
		w.Newline()
		w.Newline()
	}

	w.Outdent()
	w.Emit("}")
	w.Newline()
	return w.String()
}

func simClassNameFor(script *ast.Script) string { return "Sim" }

// simFile renders Sim.java (withUI == false) or SimWithUI.java (withUI ==
// true): population arrays sized from `<agent>.count`, then for Sim a
// single scheduleRepeating Steppable that calls every bound step function
// in simulate order and kills the run after `steps` steps, or for
// SimWithUI a GUIState subclass that creates a controller and sets up no
// display.
func (g *generator) simFile(withUI bool) string {
	w := printer.NewWriter()
	w.Emit("import sim.engine.*;")
	w.Newline()
	w.Emit("import sim.util.*;")
	w.Newline()
	if g.distributed {
		w.Emit("import sim.field.continuous.*;")
		w.Newline()
		w.Emit("import it.isislab.dmason.sim.field.*;")
		w.Newline()
	} else {
		w.Emit("import sim.field.continuous.*;")
		w.Newline()
	}
	if withUI {
		w.Emit("import sim.display.*;")
		w.Newline()
		w.Emit("import javax.swing.*;")
		w.Newline()
	}
	w.Newline()

	className := "Sim"
	if withUI {
		className = "SimWithUI"
	}
	base := "SimState"
	if withUI {
		base = "GUIState"
	}
	w.Emitf("public class %s extends %s {", className, base)
	w.Newline()
	w.Indent()

	names := sortedAgentNames(g.script.Agents)
	for _, name := range names {
		count := g.ctx.Config.GetInt(name+".count", 100)
		w.Emitf("public %s[] %s = new %s[%d];", name, name, name, count)
		w.Newline()
	}
	w.Newline()

	if withUI {
		w.Emit("Sim sim;")
		w.Newline()
		w.Emitf("public %s(SimState state) { super(state); }", className)
		w.Newline()
		w.Emitf("public %s() { this(new Sim(System.currentTimeMillis())); }", className)
		w.Newline()
		w.Emit("public static void main(String[] args) {")
		w.Newline()
		w.Indent()
		w.Emitf("new %s().createController();", className)
		w.Newline()
		w.Outdent()
		w.Emit("}")
		w.Newline()
		w.Outdent()
		w.Emit("}")
		w.Newline()
		return w.String()
	}

	w.Emitf("public %s(long seed) { super(seed); }", className)
	w.Newline()
	w.Newline()
	w.Emit("public void start() {")
	w.Newline()
	w.Indent()
	w.Emit("super.start();")
	w.Newline()
	steps := g.ctx.Config.GetInt("steps", 100)
	w.Emitf("schedule.scheduleRepeating(new Steppable() {")
	w.Newline()
	w.Indent()
	w.Emit("int __step = 0;")
	w.Newline()
	w.Emit("public void step(SimState state) {")
	w.Newline()
	w.Indent()
	w.Emitf("if (__step++ >= %d) { state.kill(); return; }", steps)
	w.Newline()
	if g.script.Simulate != nil {
		for _, fnName := range g.script.Simulate.Stmt.StepFuncs {
			fn := lookupFunc(g.script, fnName)
			if fn == nil || len(fn.Params) == 0 {
				continue
			}
			agentName := fn.Params[0].Type.Resolved.AgentName
			w.Emitf("for (%s a : %s) { a.%s((Sim) state); }", agentName, agentName, fnName)
			w.Newline()
		}
	}
	w.Outdent()
	w.Emit("}")
	w.Newline()
	w.Outdent()
	w.Emit("});")
	w.Newline()
	w.Outdent()
	w.Emit("}")
	w.Newline()

	w.Emit("public static void main(String[] args) {")
	w.Newline()
	w.Indent()
	w.Emitf("doLoop(%s.class, args);", className)
	w.Newline()
	w.Emit("System.exit(0);")
	w.Newline()
	w.Outdent()
	w.Emit("}")
	w.Newline()

	w.Outdent()
	w.Emit("}")
	w.Newline()
	return w.String()
}

func stepFuncsFor(script *ast.Script, agent *ast.AgentDeclaration) []*ast.FunctionDeclaration {
	if script.Simulate == nil {
		return nil
	}
	var out []*ast.FunctionDeclaration
	for _, name := range script.Simulate.Stmt.StepFuncs {
		fn := lookupFunc(script, name)
		if fn == nil || len(fn.Params) == 0 {
			continue
		}
		if fn.Params[0].Type.Resolved.Kind == types.Agent && fn.Params[0].Type.Resolved.AgentName == agent.Name {
			out = append(out, fn)
		}
	}
	return out
}

func lookupFunc(script *ast.Script, name string) *ast.FunctionDeclaration {
	for _, fn := range script.Funcs {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func sortedAgentNames(agents []*ast.AgentDeclaration) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}
