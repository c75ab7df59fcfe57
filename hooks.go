package skaffolder

import (
	"sync"

	"github.com/agentstation/skaffolder/pkg/changelog"
)

// Hook function types for merge events
type (
	// FieldAddedHook is called for every field a merge adds
	FieldAddedHook func(resource string, record changelog.Record)

	// FieldRemovedHook is called for every field a merge removes
	FieldRemovedHook func(resource string, record changelog.Record)

	// WarningHook is called for every warning a merge records
	WarningHook func(resource string, record changelog.Record)
)

// Hooks provides access to event callback registration.
type Hooks interface {
	// OnFieldAdded registers a callback for added fields
	OnFieldAdded(FieldAddedHook)

	// OnFieldRemoved registers a callback for removed fields
	OnFieldRemoved(FieldRemovedHook)

	// OnWarning registers a callback for merge warnings
	OnWarning(WarningHook)
}

// hooks manages event callbacks for merge results
type hooks struct {
	mu             sync.RWMutex
	onFieldAdded   []FieldAddedHook
	onFieldRemoved []FieldRemovedHook
	onWarning      []WarningHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnFieldAdded registers a callback for added fields
func (h *hooks) OnFieldAdded(fn FieldAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFieldAdded = append(h.onFieldAdded, fn)
}

// OnFieldRemoved registers a callback for removed fields
func (h *hooks) OnFieldRemoved(fn FieldRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFieldRemoved = append(h.onFieldRemoved, fn)
}

// OnWarning registers a callback for merge warnings
func (h *hooks) OnWarning(fn WarningHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onWarning = append(h.onWarning, fn)
}

// trigger replays the log through the registered hooks in record order
func (h *hooks) trigger(log *changelog.Log) {
	if log == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, rec := range log.Records {
		switch {
		case rec.Action == changelog.Added:
			for _, hook := range h.onFieldAdded {
				hook(log.Resource, rec)
			}
		case rec.Action == changelog.Removed:
			for _, hook := range h.onFieldRemoved {
				hook(log.Resource, rec)
			}
		case rec.Action.IsWarning():
			for _, hook := range h.onWarning {
				hook(log.Resource, rec)
			}
		}
	}
}
