package notes

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// hub fans mutation signals out to subscribers. Each subscriber owns a
// goroutine and a one-slot mailbox, so deliveries to it are serialized and
// a slow subscriber only sees the latest state.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	mailbox chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newHub() *hub {
	return &hub{subs: make(map[int]*subscription)}
}

func (h *hub) subscribe(deliver func()) Unsubscribe {
	sub := &subscription{
		mailbox: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case <-sub.mailbox:
				select {
				case <-sub.done:
					return
				default:
				}
				deliver()
			}
		}
	}()

	// initial snapshot
	sub.signal()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		sub.once.Do(func() { close(sub.done) })
	}
}

func (h *hub) publish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		sub.signal()
	}
}

func (s *subscription) signal() {
	select {
	case s.mailbox <- struct{}{}:
	default:
	}
}

func logObserveError(err error, id uint) {
	entry := logrus.WithError(err)
	if id != 0 {
		entry = entry.WithField("note_id", id)
	}
	entry.Warn("Failed to refresh observed notes")
}
