package store

import (
	"sync"

	"inkwell/task"
)

type EventKind string

const (
	// EventTask 는 task 상태가 바뀔 때마다 발행된다.
	EventTask EventKind = "task"
	// EventFilter 는 글 필터가 바뀌면 발행된다.
	EventFilter EventKind = "filter"
	// EventCleared 는 Clear 계열 호출에서 발행된다.
	EventCleared EventKind = "cleared"
)

// Event 는 store 상태가 바뀌었음을 알린다. 상태 자체는 담지 않으므로
// 구독자는 새 Snapshot 을 읽는다.
type Event struct {
	Kind   EventKind
	Task   string
	Status task.Status
}

const defaultEventBuffer = 16

// hub 는 발행자를 막지 않고 구독자들에게 이벤트를 나눠 보낸다.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	buffer int
}

func newHub(buffer int) *hub {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &hub{subs: make(map[int]chan Event), buffer: buffer}
}

func (h *hub) subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

func (h *hub) publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
			// 느린 구독자는 건너뛴다
		}
	}
}
