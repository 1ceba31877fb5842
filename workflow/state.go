package workflow

import "sync"

// State is the shared key-value store for a single workflow run. It is
// created by Run from the initial state and discarded when the run ends,
// so concurrent runs of the same Workflow never observe each other.
//
// All methods are safe for concurrent use. Steps read through Get and its
// typed variants; writes happen only through the merge of the Update a step
// returns, never while the step is still executing.
type State struct {
	mu   sync.RWMutex
	data map[string]any
}

func newState(initial map[string]any) *State {
	data := make(map[string]any, len(initial))
	for key, value := range initial {
		data[key] = value
	}
	return &State{data: data}
}

// Get retrieves a value by key. The second return reports whether the key
// is present.
func (state *State) Get(key string) (any, bool) {
	state.mu.RLock()
	defer state.mu.RUnlock()

	value, exists := state.data[key]
	return value, exists
}

// GetString retrieves a string value by key. Returns "" when the key is
// absent or holds a non-string value.
func (state *State) GetString(key string) string {
	value, exists := state.Get(key)
	if !exists {
		return ""
	}
	stringValue, isString := value.(string)
	if !isString {
		return ""
	}
	return stringValue
}

// GetBool retrieves a boolean value by key. Returns false when the key is
// absent or holds a non-boolean value.
func (state *State) GetBool(key string) bool {
	value, exists := state.Get(key)
	if !exists {
		return false
	}
	boolValue, isBool := value.(bool)
	if !isBool {
		return false
	}
	return boolValue
}

// Snapshot returns a copy of the current state. The returned map is safe
// to modify without affecting the run.
func (state *State) Snapshot() map[string]any {
	state.mu.RLock()
	defer state.mu.RUnlock()

	snapshot := make(map[string]any, len(state.data))
	for key, value := range state.data {
		snapshot[key] = value
	}
	return snapshot
}

// merge applies an update, overwriting existing keys. Build-time output
// validation guarantees that concurrent merges touch disjoint key sets.
func (state *State) merge(update Update) {
	state.mu.Lock()
	defer state.mu.Unlock()

	for key, value := range update {
		state.data[key] = value
	}
}
