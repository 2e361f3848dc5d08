package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/openabl/openabl-go/internal/ast"
)

// NodeKind tags the closed set of expression/statement node shapes the
// generic printer knows how to render, so a Backend's Overrides table can
// target exactly the handful whose lowering is target-specific without the ast package itself carrying a Kind field (the ast
// package type-switches rather than tagging; see internal/ast/ast.go).
type NodeKind string

const (
	KindBoolLiteral             NodeKind = "BoolLiteral"
	KindIntLiteral               NodeKind = "IntLiteral"
	KindFloatLiteral              NodeKind = "FloatLiteral"
	KindStringLiteral             NodeKind = "StringLiteral"
	KindVarExpression             NodeKind = "VarExpression"
	KindUnaryExpression           NodeKind = "UnaryExpression"
	KindBinaryExpression          NodeKind = "BinaryExpression"
	KindTernaryExpression         NodeKind = "TernaryExpression"
	KindCallExpression            NodeKind = "CallExpression"
	KindMemberAccessExpression    NodeKind = "MemberAccessExpression"
	KindArrayAccessExpression     NodeKind = "ArrayAccessExpression"
	KindArrayInitExpression       NodeKind = "ArrayInitExpression"
	KindNewArrayExpression        NodeKind = "NewArrayExpression"
	KindAgentCreationExpression   NodeKind = "AgentCreationExpression"

	KindExpressionStatement     NodeKind = "ExpressionStatement"
	KindAssignStatement         NodeKind = "AssignStatement"
	KindAssignOpStatement       NodeKind = "AssignOpStatement"
	KindBlockStatement          NodeKind = "BlockStatement"
	KindVarDeclarationStatement NodeKind = "VarDeclarationStatement"
	KindIfStatement             NodeKind = "IfStatement"
	KindWhileStatement          NodeKind = "WhileStatement"
	KindForStatement            NodeKind = "ForStatement"
	KindParallelForStatement    NodeKind = "ParallelForStatement"
	KindReturnStatement         NodeKind = "ReturnStatement"
	KindBreakStatement          NodeKind = "BreakStatement"
	KindContinueStatement       NodeKind = "ContinueStatement"

	KindUnknown NodeKind = ""
)

// KindOf classifies n via the same type switch every other pass in this
// module uses (the ast package's Node interface is deliberately thin; see
// internal/ast/ast.go's package doc).
func KindOf(n ast.Node) NodeKind {
	switch n.(type) {
	case *ast.BoolLiteral:
		return KindBoolLiteral
	case *ast.IntLiteral:
		return KindIntLiteral
	case *ast.FloatLiteral:
		return KindFloatLiteral
	case *ast.StringLiteral:
		return KindStringLiteral
	case *ast.VarExpression:
		return KindVarExpression
	case *ast.UnaryExpression:
		return KindUnaryExpression
	case *ast.BinaryExpression:
		return KindBinaryExpression
	case *ast.TernaryExpression:
		return KindTernaryExpression
	case *ast.CallExpression:
		return KindCallExpression
	case *ast.MemberAccessExpression:
		return KindMemberAccessExpression
	case *ast.ArrayAccessExpression:
		return KindArrayAccessExpression
	case *ast.ArrayInitExpression:
		return KindArrayInitExpression
	case *ast.NewArrayExpression:
		return KindNewArrayExpression
	case *ast.AgentCreationExpression:
		return KindAgentCreationExpression
	case *ast.ExpressionStatement:
		return KindExpressionStatement
	case *ast.AssignStatement:
		return KindAssignStatement
	case *ast.AssignOpStatement:
		return KindAssignOpStatement
	case *ast.BlockStatement:
		return KindBlockStatement
	case *ast.VarDeclarationStatement:
		return KindVarDeclarationStatement
	case *ast.IfStatement:
		return KindIfStatement
	case *ast.WhileStatement:
		return KindWhileStatement
	case *ast.ForStatement:
		return KindForStatement
	case *ast.ParallelForStatement:
		return KindParallelForStatement
	case *ast.ReturnStatement:
		return KindReturnStatement
	case *ast.BreakStatement:
		return KindBreakStatement
	case *ast.ContinueStatement:
		return KindContinueStatement
	default:
		return KindUnknown
	}
}

// Override is a backend hook that takes over printing a single node kind.
// It must do its own Writer.Emit calls; the generic printer does not print
// anything further for that node once an override fires.
type Override func(ctx *Context, n ast.Node)

// Context carries the state a single Generate call threads through every
// Print call: the output writer, per-backend node overrides, and the
// mangled-call-name hook ("Mangle(call) string" hook).
type Context struct {
	W         *Writer
	Overrides map[NodeKind]Override
	Mangle    func(call *ast.CallExpression) string

	// MemberOp is the operator between a member access's receiver and
	// member; most backends prefix
	// agent-state access (e.g. `self->pos` vs `self.pos`), so this is
	// threaded per-Context rather than hardcoded in the generic printer.
	MemberOp string
}

// NewContext builds a Context with the plain-C member operator ("->") and
// no overrides; backends adjust fields after construction.
func NewContext(w *Writer) *Context {
	return &Context{W: w, Overrides: map[NodeKind]Override{}, MemberOp: "->"}
}

// Print dispatches n to its backend override if one is registered,
// otherwise to the generic renderer.
func (ctx *Context) Print(n ast.Node) {
	if override, ok := ctx.Overrides[KindOf(n)]; ok {
		override(ctx, n)
		return
	}
	ctx.printDefault(n)
}

func (ctx *Context) printDefault(n ast.Node) {
	switch node := n.(type) {
	case *ast.BoolLiteral:
		if node.Value {
			ctx.W.Emit("true")
		} else {
			ctx.W.Emit("false")
		}
	case *ast.IntLiteral:
		ctx.W.Emitf("%d", node.Value)
	case *ast.FloatLiteral:
		ctx.W.Emit(formatFloatLiteral(node.Value))
	case *ast.StringLiteral:
		ctx.W.Emitf("%q", node.Value)
	case *ast.VarExpression:
		ctx.W.Emit(node.Name)
	case *ast.UnaryExpression:
		ctx.W.Emit(node.Op)
		ctx.Print(node.Expr)
	case *ast.BinaryExpression:
		ctx.W.Emit("(")
		ctx.Print(node.Left)
		ctx.W.Emitf(" %s ", node.Op)
		ctx.Print(node.Right)
		ctx.W.Emit(")")
	case *ast.TernaryExpression:
		ctx.Print(node.Cond)
		ctx.W.Emit(" ? ")
		ctx.Print(node.If)
		ctx.W.Emit(" : ")
		ctx.Print(node.Else)
	case *ast.CallExpression:
		ctx.printCall(node)
	case *ast.MemberAccessExpression:
		ctx.Print(node.Expr)
		ctx.W.Emit(ctx.MemberOp)
		ctx.W.Emit(node.Member)
	case *ast.ArrayAccessExpression:
		ctx.Print(node.Array)
		ctx.W.Emit("[")
		ctx.Print(node.Index)
		ctx.W.Emit("]")
	case *ast.ArrayInitExpression:
		ctx.W.Emit("{")
		for i, el := range node.Elems {
			if i > 0 {
				ctx.W.Emit(", ")
			}
			ctx.Print(el)
		}
		ctx.W.Emit("}")
	case *ast.NewArrayExpression:
		ctx.W.Emitf("malloc(sizeof(*%s) * (", cTypeName(node.ElemType))
		ctx.Print(node.Size)
		ctx.W.Emit("))")
	case *ast.AgentCreationExpression:
		ctx.printAgentCreation(node)

	case *ast.ExpressionStatement:
		ctx.Print(node.Expr)
		ctx.W.Emit(";")
		ctx.W.Newline()
	case *ast.AssignStatement:
		ctx.Print(node.Left)
		ctx.W.Emit(" = ")
		ctx.Print(node.Right)
		ctx.W.Emit(";")
		ctx.W.Newline()
	case *ast.AssignOpStatement:
		ctx.Print(node.Left)
		ctx.W.Emitf(" %s= ", node.Op)
		ctx.Print(node.Right)
		ctx.W.Emit(";")
		ctx.W.Newline()
	case *ast.BlockStatement:
		ctx.printBlock(node)
	case *ast.VarDeclarationStatement:
		ctx.W.Emitf("%s %s", cTypeName(node.Type), node.Name)
		if node.Initializer != nil {
			ctx.W.Emit(" = ")
			ctx.Print(node.Initializer)
		}
		ctx.W.Emit(";")
		ctx.W.Newline()
	case *ast.IfStatement:
		ctx.W.Emit("if (")
		ctx.Print(node.Cond)
		ctx.W.Emit(") ")
		ctx.Print(node.Then)
		if node.Else != nil {
			ctx.W.Emit("else ")
			ctx.Print(node.Else)
		}
	case *ast.WhileStatement:
		ctx.W.Emit("while (")
		ctx.Print(node.Cond)
		ctx.W.Emit(") ")
		ctx.Print(node.Body)
	case *ast.ForStatement:
		ctx.printFor(node)
	case *ast.ParallelForStatement:
		// The generic printer does not render the parfor loop shape; the c
		// backend overrides KindParallelForStatement with its own
		// double-buffered loop, and every other Context prints the body
		// only, which keeps Print total.
		ctx.Print(node.Body)
	case *ast.ReturnStatement:
		ctx.W.Emit("return")
		if node.Expr != nil {
			ctx.W.Emit(" ")
			ctx.Print(node.Expr)
		}
		ctx.W.Emit(";")
		ctx.W.Newline()
	case *ast.BreakStatement:
		ctx.W.Emit("break;")
		ctx.W.Newline()
	case *ast.ContinueStatement:
		ctx.W.Emit("continue;")
		ctx.W.Newline()
	default:
		panic(fmt.Sprintf("printer: unhandled node %T", n))
	}
}

func (ctx *Context) printBlock(b *ast.BlockStatement) {
	ctx.W.Emit("{")
	ctx.W.Newline()
	ctx.W.Indent()
	for _, stmt := range b.Stmts {
		ctx.Print(stmt)
	}
	ctx.W.Outdent()
	ctx.W.Emit("}")
	ctx.W.Newline()
}

func (ctx *Context) printFor(node *ast.ForStatement) {
	ctx.W.Emitf("for (%s %s = ", cTypeName(node.Type), node.Name)
	// A RANGE-typed Expr is `lo..hi`; an ARRAY-typed Expr is an index loop.
	// The generic printer handles only the RANGE shape; any other Expr
	// prints a placeholder loop header, and no backend overrides
	// KindForStatement.
	if bin, ok := node.Expr.(*ast.BinaryExpression); ok && bin.Op == ".." {
		ctx.Print(bin.Left)
		ctx.W.Emitf("; %s < ", node.Name)
		ctx.Print(bin.Right)
		ctx.W.Emitf("; %s++) ", node.Name)
	} else {
		ctx.W.Emit("0; /* unsupported iterable */ 0; )")
	}
	ctx.Print(node.Body)
}

func (ctx *Context) printCall(call *ast.CallExpression) {
	name := call.Name
	if ctx.Mangle != nil {
		if m := ctx.Mangle(call); m != "" {
			name = m
		}
	}
	ctx.W.Emit(name)
	ctx.W.Emit("(")
	for i, arg := range call.Args {
		if i > 0 {
			ctx.W.Emit(", ")
		}
		ctx.Print(arg)
	}
	ctx.W.Emit(")")
}

func (ctx *Context) printAgentCreation(node *ast.AgentCreationExpression) {
	// Generic fallback: a C-style compound literal. Backends that need
	// agent creation to go through an allocator/spawn call override this
	// kind directly.
	ctx.W.Emitf("(%s){", node.AgentName)
	for i, m := range node.Members {
		if i > 0 {
			ctx.W.Emit(", ")
		}
		ctx.W.Emitf(".%s = ", m.Name)
		ctx.Print(m.Value)
	}
	ctx.W.Emit("}")
}

// formatFloatLiteral renders d with the shortest representation that
// round-trips, then appends ".0" if finite and the result has neither a
// decimal point nor an exponent, so every float literal reads unambiguously
// as a float in every target language (a bare "5" would otherwise re-parse
// as an integer).
func formatFloatLiteral(d float64) string {
	s := strconv.FormatFloat(d, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && !strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

// cTypeName renders a resolved TypeExpr as a C-family type name; backends
// that need Java/other surface syntax override the relevant node kinds
// rather than relying on this helper.
func cTypeName(t ast.TypeExpr) string {
	if t.IsArray {
		return cTypeName(*t.Elem) + "*"
	}
	switch t.Name {
	case "int":
		return "int"
	case "float":
		return "float"
	case "bool":
		return "int"
	case "string":
		return "char*"
	case "vec2":
		return "float2"
	case "vec3":
		return "float3"
	default:
		return t.Name
	}
}
