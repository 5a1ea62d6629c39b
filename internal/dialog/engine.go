// ABOUTME: Engine drives the dialog stack for one turn
// ABOUTME: Handles begin, continue, child dialogs, suspension and cancellation

package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultMaxDepth bounds nesting when the engine is built with maxDepth <= 0.
const DefaultMaxDepth = 32

// ErrStackOverflow is returned when pushing a frame would exceed the maximum depth.
var ErrStackOverflow = errors.New("dialog stack overflow")

// Status is what a Begin or Continue call left behind.
type Status int

const (
	// StatusEmpty means there was no active dialog to continue.
	StatusEmpty Status = iota
	// StatusWaiting means the top frame is suspended awaiting input.
	StatusWaiting
	// StatusComplete means the stack unwound completely.
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusWaiting:
		return "waiting"
	case StatusComplete:
		return "complete"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Engine runs steps from a Registry against a caller-owned Stack.
type Engine[T any] struct {
	registry *Registry[T]
	maxDepth int
	logger   *slog.Logger
}

// NewEngine creates an engine bound to registry.
func NewEngine[T any](registry *Registry[T], maxDepth int, logger *slog.Logger) *Engine[T] {
	if logger == nil {
		logger = slog.Default()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Engine[T]{
		registry: registry,
		maxDepth: maxDepth,
		logger:   logger.With("component", "dialog"),
	}
}

// Registry returns the registry the engine was built with.
func (e *Engine[T]) Registry() *Registry[T] {
	return e.registry
}

// Begin pushes the named dialog with args as its initial Result and runs it.
func (e *Engine[T]) Begin(ctx context.Context, stack *Stack, name string, args any, turn T) (Status, error) {
	if err := e.pushFrame(stack, name, args); err != nil {
		return e.statusOf(stack), err
	}
	e.logger.Debug("dialog begun", "dialog", name, "depth", stack.Depth())
	return e.run(ctx, stack, turn, "", false)
}

// Continue re-invokes the top frame's current step with input.
// An empty stack returns StatusEmpty without running anything.
func (e *Engine[T]) Continue(ctx context.Context, stack *Stack, input string, turn T) (Status, error) {
	top := stack.top()
	if top == nil {
		return StatusEmpty, nil
	}
	if top.State == StateRunning {
		e.logger.Warn("resuming frame left running by an earlier turn",
			"dialog", top.DialogID, "step", top.StepIndex)
	}
	return e.run(ctx, stack, turn, input, true)
}

// CancelAll pops every frame and returns how many were removed.
func (e *Engine[T]) CancelAll(stack *Stack) int {
	n := stack.Depth()
	*stack = nil
	if n > 0 {
		e.logger.Debug("dialogs cancelled", "count", n)
	}
	return n
}

func (e *Engine[T]) pushFrame(stack *Stack, name string, args any) error {
	if !e.registry.Has(name) {
		return fmt.Errorf("%w: %q", ErrUnknownDialog, name)
	}
	if stack.Depth() >= e.maxDepth {
		return fmt.Errorf("%w: beginning %q at depth %d", ErrStackOverflow, name, stack.Depth())
	}
	result, err := encodeResult(args)
	if err != nil {
		return fmt.Errorf("beginning %q: %w", name, err)
	}
	stack.push(Frame{DialogID: name, Result: result, State: StateRunning})
	return nil
}

func (e *Engine[T]) statusOf(stack *Stack) Status {
	if stack.Depth() == 0 {
		return StatusComplete
	}
	return StatusWaiting
}

// run drives the top of the stack until a frame suspends or the stack empties.
func (e *Engine[T]) run(ctx context.Context, stack *Stack, turn T, input string, resumed bool) (Status, error) {
	for {
		if err := ctx.Err(); err != nil {
			return e.statusOf(stack), err
		}

		top := stack.top()
		if top == nil {
			return StatusComplete, nil
		}

		steps, ok := e.registry.Steps(top.DialogID)
		if !ok {
			return e.statusOf(stack), fmt.Errorf("%w: %q", ErrUnknownDialog, top.DialogID)
		}

		if top.StepIndex >= len(steps) {
			e.endTop(stack, top.Result)
			input, resumed = "", true
			continue
		}

		before := *top
		sc := &StepContext[T]{
			Turn:    turn,
			Frame:   before,
			Input:   input,
			Result:  append(json.RawMessage(nil), top.Result...),
			Resumed: resumed,
		}
		top.State = StateRunning

		out, err := steps[top.StepIndex](ctx, sc)
		if err != nil {
			*stack.top() = before
			return e.statusOf(stack), fmt.Errorf("dialog %q step %d: %w", before.DialogID, before.StepIndex, err)
		}

		// The step cannot touch the stack, so top is still valid here.
		switch out.kind {
		case outcomeNext, outcomeEnd:
			value, err := encodeResult(out.value)
			if err != nil {
				*stack.top() = before
				return e.statusOf(stack), fmt.Errorf("dialog %q step %d: %w", before.DialogID, before.StepIndex, err)
			}
			if out.kind == outcomeNext {
				top.StepIndex++
				top.Result = value
				input, resumed = "", false
			} else {
				e.endTop(stack, value)
				input, resumed = "", true
			}

		case outcomeSuspend:
			top.State = StateWaitingInput
			e.logger.Debug("dialog suspended", "dialog", top.DialogID, "step", top.StepIndex)
			return StatusWaiting, nil

		case outcomeBeginChild:
			if err := e.pushFrame(stack, out.child, out.value); err != nil {
				*stack.top() = before
				return e.statusOf(stack), err
			}
			// pushFrame may have reallocated; the parent is now second from top.
			(*stack)[stack.Depth()-2].State = StateWaitingChild
			e.logger.Debug("child dialog begun", "parent", before.DialogID, "dialog", out.child, "depth", stack.Depth())
			input, resumed = "", false

		default:
			*stack.top() = before
			return e.statusOf(stack), fmt.Errorf("dialog %q step %d returned an invalid outcome", before.DialogID, before.StepIndex)
		}
	}
}

// endTop pops the top frame and hands result to the parent, which advances
// past the step that began the child.
func (e *Engine[T]) endTop(stack *Stack, result json.RawMessage) {
	ended, _ := stack.pop()
	e.logger.Debug("dialog ended", "dialog", ended.DialogID, "depth", stack.Depth())

	parent := stack.top()
	if parent == nil {
		return
	}
	parent.StepIndex++
	parent.Result = result
	parent.State = StateRunning
}
