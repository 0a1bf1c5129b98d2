package sqlite

import (
	"sync"

	"github.com/bnema/retint/internal/domain/repository"
)

// changeHub fans committed mutations out to subscribers. Delivery is
// asynchronous through a single dispatcher goroutine so a subscriber
// reacting to a change (typically an engine reload) can itself call
// back into the store without deadlocking the writer.
type changeHub struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]func(repository.StoreChange)
	events  chan repository.StoreChange
	done    chan struct{}
	closing sync.Once
}

func newChangeHub() *changeHub {
	h := &changeHub{
		subs:   make(map[int]func(repository.StoreChange)),
		events: make(chan repository.StoreChange, 64),
		done:   make(chan struct{}),
	}
	go h.dispatch()
	return h
}

func (h *changeHub) dispatch() {
	for {
		select {
		case change := <-h.events:
			h.mu.Lock()
			fns := make([]func(repository.StoreChange), 0, len(h.subs))
			for _, fn := range h.subs {
				fns = append(fns, fn)
			}
			h.mu.Unlock()
			for _, fn := range fns {
				fn(change)
			}
		case <-h.done:
			return
		}
	}
}

// OnChange implements repository.ChangeNotifier.
func (h *changeHub) OnChange(fn func(repository.StoreChange)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *changeHub) publish(key repository.ChangeKey) {
	select {
	case h.events <- repository.StoreChange{Key: key}:
	case <-h.done:
	}
}

func (h *changeHub) close() {
	h.closing.Do(func() { close(h.done) })
}
