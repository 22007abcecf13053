package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Dispatch once the store has been closed.
var ErrClosed = errors.New("store: closed")

type request struct {
	actions []Action
	applied chan State
}

// Store owns the dashboard state. A single goroutine applies every
// dispatched action, so transitions are atomic without locks around State.
type Store struct {
	inbox chan request
	quit  chan struct{}
	done  chan struct{}

	current   atomic.Pointer[State]
	closeOnce sync.Once

	mu      sync.Mutex
	subs    map[int]chan State
	nextSub int
}

// New starts a store holding initial.
func New(initial State) *Store {
	s := &Store{
		inbox: make(chan request),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
		subs:  make(map[int]chan State),
	}
	s.current.Store(&initial)
	go s.run(initial)
	return s
}

func (s *Store) run(state State) {
	defer close(s.done)
	for {
		select {
		case req := <-s.inbox:
			for _, a := range req.actions {
				state = Reduce(state, a)
			}
			snap := state
			s.current.Store(&snap)
			s.publish(snap)
			req.applied <- snap
		case <-s.quit:
			return
		}
	}
}

// Dispatch applies actions in order as one unit and returns the resulting
// snapshot. No other dispatch can interleave with them. ctx only bounds the
// wait for the store to accept the request; once accepted the actions are
// always applied.
func (s *Store) Dispatch(ctx context.Context, actions ...Action) (State, error) {
	req := request{actions: actions, applied: make(chan State, 1)}
	select {
	case s.inbox <- req:
	case <-s.quit:
		return State{}, ErrClosed
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
	return <-req.applied, nil
}

// Snapshot returns the latest applied state.
func (s *Store) Snapshot() State {
	return *s.current.Load()
}

// Subscribe returns a channel that receives each new snapshot. A slow reader
// only ever sees the most recent one. The returned func unsubscribes and
// closes the channel.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs != nil {
		s.subs[id] = ch
	} else {
		close(ch)
	}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (s *Store) publish(snap State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot the reader has not picked up yet
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Close stops the store goroutine and closes all subscriptions. It is safe
// to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done

		s.mu.Lock()
		for id, ch := range s.subs {
			delete(s.subs, id)
			close(ch)
		}
		s.subs = nil
		s.mu.Unlock()
	})
}
