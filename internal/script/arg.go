package script

import "math"

// ArgKind tags which variant of Arg is populated.
type ArgKind uint8

const (
	ArgEOAL ArgKind = iota
	ArgInt8
	ArgInt16
	ArgInt32
	ArgFloat
	ArgVar
	ArgVarArray
	ArgStr
)

// VarRef is an opaque reference to a global or local variable slot. Full
// variable semantics are out of scope (see spec Non-goals); this exists only
// so Command.Args round-trips the original operand shape.
type VarRef struct {
	Global bool
	Offset uint32
}

// VarArrayRef is an indexed variable access: base[index].
type VarArrayRef struct {
	Base  VarRef
	Index VarRef
}

// Arg is one command operand. It mirrors the original disassembler's
// ArgVariant2 = variant<EOAL, int8, int16, int32, float, DecompiledVar,
// DecompiledVarArray, DecompiledString>.
type Arg struct {
	Kind     ArgKind
	I        int32
	F        float32
	Var      VarRef
	VarArray VarArrayRef
	S        string
}

// Int32 returns the immediate 32-bit value carried by a, or false if a does
// not carry an immediate. Mirrors get_imm32 from the original disassembler:
// integers widen to int32, a float returns its IEEE-754 bit pattern.
func (a Arg) Int32() (int32, bool) {
	switch a.Kind {
	case ArgInt8, ArgInt16, ArgInt32:
		return a.I, true
	case ArgFloat:
		return int32(math.Float32bits(a.F)), true
	default:
		return 0, false
	}
}

// Str returns the string carried by a, or false if a is not a string operand.
// Mirrors get_immstr from the original disassembler.
func (a Arg) Str() (string, bool) {
	if a.Kind == ArgStr {
		return a.S, true
	}
	return "", false
}

func Int8(v int8) Arg   { return Arg{Kind: ArgInt8, I: int32(v)} }
func Int16(v int16) Arg { return Arg{Kind: ArgInt16, I: int32(v)} }
func Int32(v int32) Arg { return Arg{Kind: ArgInt32, I: v} }
func Float(v float32) Arg { return Arg{Kind: ArgFloat, F: v} }
func Str(v string) Arg  { return Arg{Kind: ArgStr, S: v} }
func EOAL() Arg          { return Arg{Kind: ArgEOAL} }
