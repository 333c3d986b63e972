package db

import (
	"sync"
	"time"
)

// ChangeKind names a committed mutation.
type ChangeKind string

const (
	VocabularySaved       ChangeKind = "vocabulary.saved"
	VocabularyUpdated     ChangeKind = "vocabulary.updated"
	VocabularyDeleted     ChangeKind = "vocabulary.deleted"
	SampleSentenceAdded   ChangeKind = "sample_sentence.added"
	SampleSentenceDeleted ChangeKind = "sample_sentence.deleted"
)

// Change is published to subscribers after a mutation commits.
type Change struct {
	Kind         ChangeKind `json:"kind"`
	VocabularyID int64      `json:"vocabulary_id,omitempty"`
	SentenceID   int64      `json:"sentence_id,omitempty"`
	At           time.Time  `json:"at"`
}

// hub fans changes out to subscribers. A subscriber whose buffer is full
// misses the event; writers never block on readers.
type hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Change
	nextID int
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Change)}
}

func (h *hub) subscribe(buffer int) (<-chan Change, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Change, buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
}

func (h *hub) publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// Subscribe returns a feed of committed changes and a function that ends the
// subscription. The channel is closed on unsubscribe or when the store closes.
func (s *Store) Subscribe(buffer int) (<-chan Change, func()) {
	return s.hub.subscribe(buffer)
}

// Publish announces a change committed outside the store's own methods, such
// as a batched import.
func (s *Store) Publish(c Change) {
	s.hub.publish(c)
}
