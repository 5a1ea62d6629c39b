// ABOUTME: Frame and Stack types persisted with each conversation
// ABOUTME: Frames hold a dialog name, step cursor and the value handed to the next step

package dialog

import (
	"encoding/json"
	"fmt"
)

// FrameState records why a frame is parked on the stack.
type FrameState string

const (
	StateRunning      FrameState = "running"
	StateWaitingInput FrameState = "waiting_input"
	StateWaitingChild FrameState = "waiting_child"
)

// Frame is one activation of a dialog. Result is kept encoded so a step reads
// the same value whether or not the frame went through the store.
type Frame struct {
	DialogID  string          `json:"dialogId"`
	StepIndex int             `json:"stepIndex"`
	Result    json.RawMessage `json:"result,omitempty"`
	State     FrameState      `json:"state"`
}

// encodeResult encodes a step value for a frame. nil stays empty.
func encodeResult(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return append(json.RawMessage(nil), raw...), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding dialog result: %w", err)
	}
	return data, nil
}

// Stack holds active frames. The last element is the top.
type Stack []Frame

// Depth returns the number of active frames.
func (s Stack) Depth() int {
	return len(s)
}

// Top returns a copy of the top frame.
func (s Stack) Top() (Frame, bool) {
	if len(s) == 0 {
		return Frame{}, false
	}
	return s[len(s)-1], true
}

// Clone returns a copy of the stack that shares no backing array.
func (s Stack) Clone() Stack {
	if s == nil {
		return nil
	}
	return append(Stack(nil), s...)
}

func (s *Stack) top() *Frame {
	if len(*s) == 0 {
		return nil
	}
	return &(*s)[len(*s)-1]
}

func (s *Stack) push(f Frame) {
	*s = append(*s, f)
}

func (s *Stack) pop() (Frame, bool) {
	n := len(*s)
	if n == 0 {
		return Frame{}, false
	}
	f := (*s)[n-1]
	*s = (*s)[:n-1]
	return f, true
}
