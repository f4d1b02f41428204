package flow

import (
	"errors"
	"fmt"

	"unflutter/internal/segref"
)

// Debug gates assertion-style panics raised through assertf (currently the
// check that FindBasicBlocks gets one mission id per mission segment). It
// defaults to false, matching a release build where the cost of the check
// isn't worth paying twice.
var Debug = false

// Kind classifies a flow analysis error.
type Kind uint8

const (
	UnresolvedLabel Kind = iota
	UnknownOpcode
	MalformedProcedure
	InconsistentDominators
)

func (k Kind) String() string {
	switch k {
	case UnresolvedLabel:
		return "unresolved label"
	case UnknownOpcode:
		return "unknown opcode"
	case MalformedProcedure:
		return "malformed procedure"
	case InconsistentDominators:
		return "inconsistent dominators"
	default:
		return "unknown error kind"
	}
}

var (
	ErrUnresolvedLabel        = errors.New("unresolved label")
	ErrUnknownOpcode          = errors.New("unknown opcode")
	ErrMalformedProcedure     = errors.New("malformed procedure")
	ErrInconsistentDominators = errors.New("inconsistent dominators")
)

func sentinelFor(k Kind) error {
	switch k {
	case UnresolvedLabel:
		return ErrUnresolvedLabel
	case UnknownOpcode:
		return ErrUnknownOpcode
	case MalformedProcedure:
		return ErrMalformedProcedure
	case InconsistentDominators:
		return ErrInconsistentDominators
	default:
		return errors.New("unknown flow error")
	}
}

// Error is the error type returned by every analysis entry point in this
// package. It carries enough context (segment and local offset) for a
// caller to report the offending instruction.
type Error struct {
	Kind    Kind
	Segment segref.Ref
	Offset  int32
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at %s+%d: %s", e.Kind, e.Segment, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%s at %s+%d", e.Kind, e.Segment, e.Offset)
}

func (e *Error) Unwrap() error { return sentinelFor(e.Kind) }

func newError(kind Kind, seg segref.Ref, offset int32, detail string) *Error {
	return &Error{Kind: kind, Segment: seg, Offset: offset, Detail: detail}
}

// assertf panics with a formatted message when Debug is enabled and cond is
// false. It mirrors the original's assert() on caller-side invariants; in
// release builds it is a no-op.
func assertf(cond bool, format string, args ...any) {
	if Debug && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
