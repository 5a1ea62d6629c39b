// ABOUTME: Immutable registry mapping dialog names to their ordered steps
// ABOUTME: Built once at startup and shared read-only by every engine call

package dialog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownDialog is returned when a dialog name is not in the registry.
var ErrUnknownDialog = errors.New("unknown dialog")

// Dialog is a named sequence of steps.
type Dialog[T any] struct {
	Name  string
	Steps []Step[T]
}

// Registry is a read-only name to steps mapping.
type Registry[T any] struct {
	dialogs map[string][]Step[T]
}

// NewRegistry builds a registry. Names must be non-empty and unique.
func NewRegistry[T any](dialogs ...Dialog[T]) (*Registry[T], error) {
	r := &Registry[T]{dialogs: make(map[string][]Step[T], len(dialogs))}

	for _, d := range dialogs {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, errors.New("dialog name is required")
		}
		if _, exists := r.dialogs[name]; exists {
			return nil, fmt.Errorf("duplicate dialog %q", name)
		}
		for i, step := range d.Steps {
			if step == nil {
				return nil, fmt.Errorf("dialog %q: step %d is nil", name, i)
			}
		}
		r.dialogs[name] = append([]Step[T](nil), d.Steps...)
	}

	return r, nil
}

// Steps returns the steps registered under name.
func (r *Registry[T]) Steps(name string) ([]Step[T], bool) {
	steps, ok := r.dialogs[name]
	return steps, ok
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.dialogs[name]
	return ok
}

// Names lists registered dialogs in lexical order.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.dialogs))
	for name := range r.dialogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
