// Package dialog implements a stack-based, resumable dialog engine.
//
// # Overview
//
// A dialog is a named, ordered list of steps. Each activation of a dialog is a
// Frame on the conversation's Stack. The Engine drives the top frame until it
// suspends for user input or the stack is empty.
//
// Frames reference dialogs by name, so a Stack serializes to JSON as plain
// data and survives process restarts:
//
//	[{"dialogId":"main","stepIndex":1,"state":"waiting_child"},
//	 {"dialogId":"search","stepIndex":0,"state":"running"}]
//
// # Registry
//
// The Registry maps names to steps. It is built once at startup and never
// mutated:
//
//	reg, err := dialog.NewRegistry(
//		dialog.Dialog[*Turn]{Name: "main", Steps: []dialog.Step[*Turn]{greet, menu}},
//		dialog.Dialog[*Turn]{Name: "search"},
//	)
//
// The type parameter is the per-turn handle the host passes to every step.
//
// # Outcomes
//
// A step returns one of:
//
//   - Next(v): advance to the next step in the same turn, v becomes its Result
//   - End(v): pop the frame and resume the parent with v as its Result
//   - Suspend(): park the frame until the next inbound message
//   - BeginChild(name, args): push a child dialog; the parent resumes when it ends
//
// A parent resumes at the step after the one that began the child. A frame
// whose StepIndex equals the number of steps is pending completion and ends
// the next time it is driven.
//
// Values handed between steps are stored JSON-encoded in the frame. A step
// reads them with StepContext.DecodeResult, which gives the same value in the
// turn that produced it and after the stack was reloaded from the store.
//
// # Turns
//
// Begin pushes a dialog and runs it immediately. Continue re-invokes the top
// frame's current step with the new message as Input. Both return a Status:
//
//   - StatusEmpty: nothing to continue
//   - StatusWaiting: a frame is suspended awaiting input
//   - StatusComplete: the stack unwound completely
//
// # Errors
//
//   - ErrUnknownDialog: a name is missing from the registry
//   - ErrStackOverflow: nesting exceeded the engine's maximum depth
//
// A step that returns an error leaves its frame exactly as it was before the
// step ran. The engine does no locking; callers serialize turns per stack.
package dialog
