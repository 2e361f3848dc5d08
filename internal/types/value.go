package types

import "fmt"

// Value is a compile-time constant produced by the config evaluator
//. It mirrors Type as a tagged union: exactly the
// field matching Typ.Kind is meaningful.
type Value struct {
	Typ   Type
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Vec   [3]float64 // X/Y used for Vec2, X/Y/Z for Vec3
}

func BoolValue(b bool) Value     { return Value{Typ: TBool, Bool: b} }
func IntValue(i int64) Value     { return Value{Typ: TInt32, Int: i} }
func FloatValue(f float64) Value { return Value{Typ: TFloat32, Float: f} }
func StringValue(s string) Value { return Value{Typ: TString, Str: s} }

func Vec2Value(x, y float64) Value {
	return Value{Typ: TVec2, Vec: [3]float64{x, y, 0}}
}

func Vec3Value(x, y, z float64) Value {
	return Value{Typ: TVec3, Vec: [3]float64{x, y, z}}
}

// AsFloat returns v's value widened to float64; valid for Int32 and
// Float32 values.
func (v Value) AsFloat() float64 {
	switch v.Typ.Kind {
	case Int32:
		return float64(v.Int)
	case Float32:
		return v.Float
	default:
		panic(fmt.Sprintf("AsFloat: value has non-numeric type %s", v.Typ))
	}
}

// ExtendToVec3 widens a Vec2 value to Vec3 by zero-filling Z, matching
//  `extendToVec3` helper used when the FLAME-GPU backend
// needs a uniform 3-component environment extent regardless of script
// dimensionality.
func (v Value) ExtendToVec3() Value {
	switch v.Typ.Kind {
	case Vec3:
		return v
	case Vec2:
		return Value{Typ: TVec3, Vec: [3]float64{v.Vec[0], v.Vec[1], 0}}
	default:
		panic(fmt.Sprintf("ExtendToVec3: value has non-vec type %s", v.Typ))
	}
}
