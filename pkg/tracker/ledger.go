package tracker

import "sync"

// Ledger maps original entry names to their final names. Only entries whose
// name changed are recorded.
type Ledger struct {
	mu      sync.RWMutex
	renames map[string]string
	order   []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{renames: make(map[string]string)}
}

// Record notes that original was written as final. Unchanged names and
// repeated originals are ignored; the first rename wins.
func (l *Ledger) Record(original, final string) {
	if original == final {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.renames[original]; ok {
		return
	}
	l.renames[original] = final
	l.order = append(l.order, original)
}

// Final returns the final name of a renamed entry.
func (l *Ledger) Final(original string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	final, ok := l.renames[original]
	return final, ok
}

// Len returns the number of renames.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Each calls fn for every rename in recording order.
func (l *Ledger) Each(fn func(original, final string)) {
	l.mu.RLock()
	order := append([]string(nil), l.order...)
	renames := make(map[string]string, len(l.renames))
	for k, v := range l.renames {
		renames[k] = v
	}
	l.mu.RUnlock()

	for _, original := range order {
		fn(original, renames[original])
	}
}

// FinalExcludes turns class names excluded by the keep closure into the
// entry paths they occupy in the output: name + ".class", translated through
// the ledger when the entry was renamed.
func FinalExcludes(excludes []string, ledger *Ledger) []string {
	out := make([]string, 0, len(excludes))
	for _, exclude := range excludes {
		name := exclude + ".class"
		if final, ok := ledger.Final(name); ok {
			name = final
		}
		out = append(out, name)
	}
	return out
}
