package authstate

import (
	"slices"
	"sync"

	"github.com/goliatone/go-print"
)

// Listener is notified after every dispatch with the state before and
// after intent was applied. Listeners run on the dispatching goroutine
// and must not call Dispatch themselves.
type Listener func(prev, next SessionState, intent Intent)

// Store owns a SessionState and applies intents to it one at a time.
type Store struct {
	mu      sync.RWMutex
	state   SessionState
	reducer Reducer

	// serializes dispatch + notification so listeners observe
	// transitions in the order they were applied
	dispatchMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int

	logger Logger
	debug  bool
}

// StoreOption customizes store construction.
type StoreOption func(*Store)

// WithReducer overrides the reducer used to apply intents.
func WithReducer(r Reducer) StoreOption {
	return func(s *Store) {
		s.reducer = r
	}
}

// WithInitialState seeds the store, useful when rehydrating a UI.
func WithInitialState(state SessionState) StoreOption {
	return func(s *Store) {
		s.state = state
	}
}

// WithStoreLogger overrides the logger used for debug output.
func WithStoreLogger(logger Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreDebug logs every transition with the resulting state.
func WithStoreDebug(debug bool) StoreOption {
	return func(s *Store) {
		s.debug = debug
	}
}

// NewStore returns a store holding the initial state.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state:     InitialState(),
		listeners: map[int]Listener{},
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// State returns a snapshot of the current state.
func (s *Store) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies intent and returns the resulting state.
func (s *Store) Dispatch(intent Intent) SessionState {
	if intent == nil {
		return s.State()
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := s.reducer.Reduce(prev, intent)
	s.state = next
	s.mu.Unlock()

	if s.debug {
		s.logger.Debug("dispatch", "intent", intent.Type(), "state", print.MaybePrettyJSON(next))
	}

	for _, l := range s.snapshotListeners() {
		l(prev, next, intent)
	}

	return next
}

// Subscribe registers fn for every future transition. The returned
// function removes it again and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) snapshotListeners() []Listener {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()

	if len(s.listeners) == 0 {
		return nil
	}

	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}
