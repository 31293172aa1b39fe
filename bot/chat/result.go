package chat

import "fmt"

type resultKind int

const (
	kindWait resultKind = iota
	kindAdvance
	kindJump
	kindExit
	kindRepeat
)

// Result tells the engine where the dialogue goes after a step ran.
// Its fields are unexported so the set of outcomes stays closed: only the
// constructors below can build one.
type Result struct {
	kind   resultKind
	target StepID
}

// Wait suspends the dialogue until the next inbound event.
func Wait() Result { return Result{kind: kindWait} }

// Advance moves to the next step in sequence.
func Advance() Result { return Result{kind: kindAdvance} }

// JumpTo moves to the named step.
func JumpTo(id StepID) Result { return Result{kind: kindJump, target: id} }

// Exit terminates the dialogue and releases its state.
func Exit() Result { return Result{kind: kindExit} }

// Repeat enters the current step again.
func Repeat() Result { return Result{kind: kindRepeat} }

// Target returns the jump target, empty for other results.
func (r Result) Target() StepID { return r.target }

func (r Result) IsWait() bool    { return r.kind == kindWait }
func (r Result) IsAdvance() bool { return r.kind == kindAdvance }
func (r Result) IsJump() bool    { return r.kind == kindJump }
func (r Result) IsExit() bool    { return r.kind == kindExit }
func (r Result) IsRepeat() bool  { return r.kind == kindRepeat }

func (r Result) String() string {
	switch r.kind {
	case kindWait:
		return "wait"
	case kindAdvance:
		return "advance"
	case kindJump:
		return fmt.Sprintf("jump(%s)", r.target)
	case kindExit:
		return "exit"
	case kindRepeat:
		return "repeat"
	}
	return "unknown"
}
