package analysis

import "github.com/openabl/openabl-go/internal/types"

// builtin is one overload of a builtin function: its surface name, the
// mangled runtime symbol the C-family backends call, its parameter types,
// and its return type. "agent" and "array" entries are resolved per-call
// against the actual agent type in scope rather than listed generically
// here (see typeOfCall).
type builtin struct {
	Name       string
	Mangled    string
	ParamKinds []types.Kind
	ReturnKind types.Kind
}

var builtinTable = []builtin{
	{"dot", "dot_float2", []types.Kind{types.Vec2, types.Vec2}, types.Float32},
	{"dot", "dot_float3", []types.Kind{types.Vec3, types.Vec3}, types.Float32},
	{"length", "length_float2", []types.Kind{types.Vec2}, types.Float32},
	{"length", "length_float3", []types.Kind{types.Vec3}, types.Float32},
	{"dist", "dist_float2", []types.Kind{types.Vec2, types.Vec2}, types.Float32},
	{"dist", "dist_float3", []types.Kind{types.Vec3, types.Vec3}, types.Float32},
	{"normalize", "normalize_float2", []types.Kind{types.Vec2}, types.Vec2},
	{"normalize", "normalize_float3", []types.Kind{types.Vec3}, types.Vec3},
	{"random", "random_float", []types.Kind{types.Float32, types.Float32}, types.Float32},
	{"random", "random_float2", []types.Kind{types.Vec2, types.Vec2}, types.Vec2},
	{"random", "random_float3", []types.Kind{types.Vec3, types.Vec3}, types.Vec3},

	{"sin", "sin", []types.Kind{types.Float32}, types.Float32},
	{"cos", "cos", []types.Kind{types.Float32}, types.Float32},
	{"tan", "tan", []types.Kind{types.Float32}, types.Float32},
	{"sinh", "sinh", []types.Kind{types.Float32}, types.Float32},
	{"cosh", "cosh", []types.Kind{types.Float32}, types.Float32},
	{"tanh", "tanh", []types.Kind{types.Float32}, types.Float32},
	{"asin", "asin", []types.Kind{types.Float32}, types.Float32},
	{"acos", "acos", []types.Kind{types.Float32}, types.Float32},
	{"atan", "atan", []types.Kind{types.Float32}, types.Float32},
	{"exp", "exp", []types.Kind{types.Float32}, types.Float32},
	{"log", "log", []types.Kind{types.Float32}, types.Float32},
	{"sqrt", "sqrt", []types.Kind{types.Float32}, types.Float32},
	{"round", "round", []types.Kind{types.Float32}, types.Float32},
}

// agentSpecificBuiltins are the three builtins whose signature depends on
// the agent type in scope (`add`/`near`) or take no type-shaped argument at
// all (`save`). They're resolved directly in typeOfCall rather than
// the flat table above.
const (
	builtinAdd  = "add"
	builtinNear = "near"
	builtinSave = "save"
)

// usesRngBuiltins names the builtins that make the enclosing function
// "uses RNG" for the purposes of FLAME-GPU's gpu:RNG attribute.
var usesRngBuiltins = map[string]bool{"random": true}

func lookupBuiltin(name string, argKinds []types.Kind) (builtin, bool) {
	for _, b := range builtinTable {
		if b.Name != name || len(b.ParamKinds) != len(argKinds) {
			continue
		}
		match := true
		for i, pk := range b.ParamKinds {
			if pk != argKinds[i] {
				match = false
				break
			}
		}
		if match {
			return b, true
		}
	}
	return builtin{}, false
}
