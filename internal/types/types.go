// Package types implements OpenABL's small value-equal type lattice and the
// Value tagged union used by the compile-time config evaluator.
package types

import "fmt"

// Kind discriminates the closed set of OpenABL types.
type Kind int

const (
	Invalid Kind = iota
	Void
	Bool
	Int32
	Float32
	String
	Vec2
	Vec3
	Agent
	Array
	Range // implicit iterable produced by `..`, never surfaces as a declared type
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int32:
		return "int"
	case Float32:
		return "float"
	case String:
		return "string"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Agent:
		return "agent"
	case Array:
		return "array"
	case Range:
		return "range"
	default:
		return "unknown"
	}
}

// Type is a value-equal discriminated type. AgentName is meaningful only
// for Kind == Agent; Elem is meaningful (and non-nil) only for Kind ==
// Array.
type Type struct {
	Kind      Kind
	AgentName string
	Elem      *Type
}

var (
	TInvalid = Type{Kind: Invalid}
	TVoid    = Type{Kind: Void}
	TBool    = Type{Kind: Bool}
	TInt32   = Type{Kind: Int32}
	TFloat32 = Type{Kind: Float32}
	TString  = Type{Kind: String}
	TVec2    = Type{Kind: Vec2}
	TVec3    = Type{Kind: Vec3}
	TRange   = Type{Kind: Range}
)

// TAgent builds an AGENT(name) type.
func TAgent(name string) Type { return Type{Kind: Agent, AgentName: name} }

// TArray builds an ARRAY(elem) type.
func TArray(elem Type) Type { return Type{Kind: Array, Elem: &elem} }

// Equal implements the spec's value-equality rule: two AGENT types are
// equal iff their names match; two ARRAY types are equal iff their
// elements are (recursively) equal.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case Agent:
		return t.AgentName == other.AgentName
	case Array:
		if t.Elem == nil || other.Elem == nil {
			return t.Elem == other.Elem
		}
		return t.Elem.Equal(*other.Elem)
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Kind {
	case Agent:
		return t.AgentName
	case Array:
		if t.Elem != nil {
			return fmt.Sprintf("%s[]", t.Elem.String())
		}
		return "array"
	default:
		return t.Kind.String()
	}
}

// IsNumeric reports whether arithmetic promotion rules (INT/FLOAT
// promotion, VEC componentwise/broadcast) apply to t.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case Int32, Float32, Vec2, Vec3:
		return true
	default:
		return false
	}
}

// IsVec reports whether t is VEC2 or VEC3.
func (t Type) IsVec() bool {
	return t.Kind == Vec2 || t.Kind == Vec3
}
