package identity

import "sync"

// Emitter fans auth-state changes out to subscribers. Providers embed it.
type Emitter struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

// OnChange registers fn and returns a function that removes it.
func (e *Emitter) OnChange(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subs == nil {
		e.subs = make(map[int]func(Event))
	}
	id := e.next
	e.next++
	e.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

// Emit delivers ev to every subscriber on the caller's goroutine.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	subs := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
