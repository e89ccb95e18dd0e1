package store

import "sync"

// Notifier fans write events out to registered listeners. The zero value is
// ready to use.
type Notifier struct {
	mu        sync.RWMutex
	listeners []Listener
}

// OnChange registers fn to run after every successful write.
func (n *Notifier) OnChange(fn Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *Notifier) Notify(ev ChangeEvent) {
	n.mu.RLock()
	ls := append([]Listener(nil), n.listeners...)
	n.mu.RUnlock()
	for _, fn := range ls {
		fn(ev)
	}
}
