// ABOUTME: Step signature, step context and the tagged outcome a step returns
// ABOUTME: Outcomes are built with Next, End, Suspend and BeginChild

package dialog

import (
	"context"
	"encoding/json"
	"fmt"
)

// Step is one unit of dialog logic.
type Step[T any] func(ctx context.Context, sc *StepContext[T]) (Outcome, error)

// StepContext is everything a step may read.
type StepContext[T any] struct {
	// Turn is the host's per-message handle.
	Turn T
	// Frame is a copy of the frame being driven. Mutating it has no effect.
	Frame Frame
	// Input is the inbound text when the step is re-invoked by Continue.
	Input string
	// Result is the encoded value from the previous step, the child that just
	// ended, or the args the dialog was begun with. Empty when there is none.
	Result json.RawMessage
	// Resumed is true when the step runs because of Continue or a child ending.
	Resumed bool
}

// DecodeResult unmarshals Result into v. It reports false and leaves v
// untouched when there is no result.
func (sc *StepContext[T]) DecodeResult(v any) (bool, error) {
	if len(sc.Result) == 0 || string(sc.Result) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(sc.Result, v); err != nil {
		return false, fmt.Errorf("decoding result of %q step %d: %w", sc.Frame.DialogID, sc.Frame.StepIndex, err)
	}
	return true, nil
}

type outcomeKind int

const (
	outcomeNext outcomeKind = iota + 1
	outcomeEnd
	outcomeSuspend
	outcomeBeginChild
)

// Outcome tells the engine what to do after a step returns.
type Outcome struct {
	kind  outcomeKind
	value any
	child string
}

// Next advances to the next step and hands it v. Values handed between steps
// must encode to JSON.
func Next(v any) Outcome {
	return Outcome{kind: outcomeNext, value: v}
}

// End pops the frame and hands v to the parent.
func End(v any) Outcome {
	return Outcome{kind: outcomeEnd, value: v}
}

// Suspend parks the frame until the next message.
func Suspend() Outcome {
	return Outcome{kind: outcomeSuspend}
}

// BeginChild pushes the named dialog with args as its initial Result.
func BeginChild(name string, args any) Outcome {
	return Outcome{kind: outcomeBeginChild, child: name, value: args}
}

func (o Outcome) String() string {
	switch o.kind {
	case outcomeNext:
		return "next"
	case outcomeEnd:
		return "end"
	case outcomeSuspend:
		return "suspend"
	case outcomeBeginChild:
		return fmt.Sprintf("begin(%s)", o.child)
	default:
		return "invalid"
	}
}
